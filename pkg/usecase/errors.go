package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	ErrSourceNotConfigured = goerr.New("external case source is not configured")
)

// Context keys for error values
const (
	CaseIDKey    = "case_id"
	ServiceIDKey = "service_id"
	RunIDKey     = "run_id"
	LineKey      = "line"
	TitleKey     = "title"
	FilterKey    = "filter"
)
