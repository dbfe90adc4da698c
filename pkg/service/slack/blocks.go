package slack

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/slack-go/slack"
)

// maxSectionBytes is the text limit of a Slack section block
const maxSectionBytes = 3000

func importBlocks(report *model.ImportReport, failLimit int) ([]slack.Block, string) {
	text := fmt.Sprintf("Catalog import (%s) finished: %d created, %d updated, %d skipped, %d errors",
		report.Layout, report.Created, report.Updated, report.Skipped, report.Errored)

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "Catalog import finished", false, false)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			field("Created", report.Created),
			field("Updated", report.Updated),
			field("Skipped", report.Skipped),
			field("Errors", report.Errored),
		}, nil),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("Source `%s` · layout `%s` · run `%s`", report.Source, report.Layout, report.RunID), false, false),
		),
	}

	var failures []string
	for _, row := range report.Rows {
		if row.Outcome != model.ImportOutcomeError {
			continue
		}
		failures = append(failures, fmt.Sprintf("• line %d *%s*: %s", row.Line, row.Title, row.Reason))
	}
	if b := failureBlock(failures, failLimit); b != nil {
		blocks = append(blocks, b)
	}
	return blocks, text
}

func syncBlocks(report *model.SyncReport, failLimit int) ([]slack.Block, string) {
	text := fmt.Sprintf("Case sync finished: %d fetched, %d created, %d updated, %d errors",
		report.Fetched, report.Created, report.Updated, report.Errored)

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "Case sync finished", false, false)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			field("Fetched", report.Fetched),
			field("Created", report.Created),
			field("Updated", report.Updated),
			field("Errors", report.Errored),
		}, nil),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("Run `%s`", report.RunID), false, false),
		),
	}

	var failures []string
	for _, rec := range report.Records {
		if rec.Outcome != model.SyncOutcomeError {
			continue
		}
		failures = append(failures, fmt.Sprintf("• `%s`: %s", rec.ExternalID, rec.Reason))
	}
	if b := failureBlock(failures, failLimit); b != nil {
		blocks = append(blocks, b)
	}
	return blocks, text
}

func field(label string, n int) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*%s*\n%d", label, n), false, false)
}

func failureBlock(lines []string, limit int) slack.Block {
	if len(lines) == 0 {
		return nil
	}
	shown := lines
	if limit >= 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	body := strings.Join(shown, "\n")
	if rest := len(lines) - len(shown); rest > 0 {
		body += fmt.Sprintf("\n…and %d more", rest)
	}
	return slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, truncateToMaxBytes(body, maxSectionBytes), false, false),
		nil, nil)
}

// truncateToMaxBytes cuts s to at most n bytes without splitting a UTF-8 sequence
func truncateToMaxBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
