package slack

import (
	"context"

	"github.com/gea-gov/gea/pkg/domain/interfaces"
	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// Notifier posts import and sync summaries to a Slack channel
type Notifier struct {
	api       *slack.Client
	channelID string
	failLimit int
}

var _ interfaces.Notifier = (*Notifier)(nil)

// DefaultFailureLimit is the number of failed rows listed in a summary
const DefaultFailureLimit = 10

// Option is a functional option for Notifier configuration
type Option func(*notifierOptions)

type notifierOptions struct {
	apiURL    string
	failLimit int
}

// WithAPIURL points the client at a different Slack API base URL
func WithAPIURL(url string) Option {
	return func(o *notifierOptions) {
		o.apiURL = url
	}
}

// WithFailureLimit sets how many failed rows are listed in a summary
func WithFailureLimit(n int) Option {
	return func(o *notifierOptions) {
		o.failLimit = n
	}
}

// New creates a notifier with the provided bot token and destination channel
func New(token, channelID string, opts ...Option) (*Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	o := &notifierOptions{failLimit: DefaultFailureLimit}
	for _, opt := range opts {
		opt(o)
	}

	var apiOpts []slack.Option
	if o.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(o.apiURL))
	}

	return &Notifier{
		api:       slack.New(token, apiOpts...),
		channelID: channelID,
		failLimit: o.failLimit,
	}, nil
}

// NotifyImport posts the summary of a catalog import run
func (n *Notifier) NotifyImport(ctx context.Context, report *model.ImportReport) error {
	blocks, text := importBlocks(report, n.failLimit)
	if _, err := n.post(ctx, blocks, text); err != nil {
		return goerr.Wrap(err, "failed to post import summary", goerr.V("run_id", report.RunID))
	}
	return nil
}

// NotifySync posts the summary of an external case sync run
func (n *Notifier) NotifySync(ctx context.Context, report *model.SyncReport) error {
	blocks, text := syncBlocks(report, n.failLimit)
	if _, err := n.post(ctx, blocks, text); err != nil {
		return goerr.Wrap(err, "failed to post sync summary", goerr.V("run_id", report.RunID))
	}
	return nil
}

// post sends a Block Kit message and returns its timestamp. The text is the
// notification fallback.
func (n *Notifier) post(ctx context.Context, blocks []slack.Block, text string) (string, error) {
	_, ts, err := n.api.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post message", goerr.V("channel_id", n.channelID))
	}
	return ts, nil
}
