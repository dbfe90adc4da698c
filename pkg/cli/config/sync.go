package config

import (
	"log/slog"
	"time"

	"github.com/gea-gov/gea/pkg/service/colab"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// DefaultSyncInterval is how often serve pulls cases from the external system
const DefaultSyncInterval = time.Hour

type Sync struct {
	endpoint string
	user     string
	password string `masq:"secret"`
	interval time.Duration
	timeout  time.Duration
}

func (x *Sync) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "colab-endpoint",
			Usage:       "URL of the external case API; sync is disabled when empty",
			Category:    "Sync",
			Destination: &x.endpoint,
			Sources:     cli.EnvVars("GEA_COLAB_ENDPOINT"),
		},
		&cli.StringFlag{
			Name:        "colab-user",
			Usage:       "Basic auth user for the external case API",
			Category:    "Sync",
			Destination: &x.user,
			Sources:     cli.EnvVars("GEA_COLAB_USER"),
		},
		&cli.StringFlag{
			Name:        "colab-password",
			Usage:       "Basic auth password for the external case API",
			Category:    "Sync",
			Destination: &x.password,
			Sources:     cli.EnvVars("GEA_COLAB_PASSWORD"),
		},
		&cli.DurationFlag{
			Name:        "sync-interval",
			Usage:       "Interval between periodic sync runs",
			Category:    "Sync",
			Value:       DefaultSyncInterval,
			Destination: &x.interval,
			Sources:     cli.EnvVars("GEA_SYNC_INTERVAL"),
		},
		&cli.DurationFlag{
			Name:        "sync-timeout",
			Usage:       "HTTP timeout for a fetch from the external case API",
			Category:    "Sync",
			Value:       30 * time.Second,
			Destination: &x.timeout,
			Sources:     cli.EnvVars("GEA_SYNC_TIMEOUT"),
		},
	}
}

func (x Sync) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("endpoint", x.endpoint),
		slog.String("user", x.user),
		slog.Int("password.len", len(x.password)),
		slog.Duration("interval", x.interval),
	)
}

// IsConfigured reports whether an external endpoint is set
func (x *Sync) IsConfigured() bool {
	return x.endpoint != ""
}

// Interval returns the periodic sync interval
func (x *Sync) Interval() time.Duration {
	return x.interval
}

// Configure returns the external case client, or nil when no endpoint is set
func (x *Sync) Configure() (*colab.Client, error) {
	if !x.IsConfigured() {
		return nil, nil
	}
	if x.interval <= 0 {
		return nil, goerr.Wrap(ErrInvalidConfig, "sync-interval must be positive", goerr.V("interval", x.interval))
	}

	var opts []colab.Option
	if x.timeout > 0 {
		opts = append(opts, colab.WithTimeout(x.timeout))
	}
	client, err := colab.New(x.endpoint, x.user, x.password, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create external case client")
	}
	return client, nil
}
