package config

import "time"

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID string) *Slack {
	return &Slack{botToken: botToken, channelID: channelID, failureLimit: 10}
}

// NewSyncForTest creates a Sync config for testing purposes
func NewSyncForTest(endpoint string, interval time.Duration) *Sync {
	return &Sync{endpoint: endpoint, interval: interval}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, dsn string, autoMigrate bool) *Repository {
	return &Repository{backend: backend, dsn: dsn, autoMigrate: autoMigrate}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}
