package config

import (
	"log/slog"

	"github.com/gea-gov/gea/pkg/service/slack"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	botToken     string `masq:"secret"`
	channelID    string
	failureLimit int
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token used to post run summaries",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("GEA_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID receiving import and sync summaries",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("GEA_SLACK_CHANNEL_ID"),
		},
		&cli.IntFlag{
			Name:        "slack-failure-limit",
			Usage:       "Maximum number of failed rows listed in a summary",
			Category:    "Slack",
			Value:       slack.DefaultFailureLimit,
			Destination: &x.failureLimit,
			Sources:     cli.EnvVars("GEA_SLACK_FAILURE_LIMIT"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
	)
}

// IsConfigured checks if both the token and the channel are set
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// Configure returns a notifier, or nil when Slack is not configured
func (x *Slack) Configure() (*slack.Notifier, error) {
	if x.botToken == "" && x.channelID == "" {
		return nil, nil
	}
	if !x.IsConfigured() {
		return nil, goerr.Wrap(ErrMissingSetting, "slack-bot-token and slack-channel-id must be set together")
	}

	n, err := slack.New(x.botToken, x.channelID, slack.WithFailureLimit(x.failureLimit))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create slack notifier")
	}
	return n, nil
}
