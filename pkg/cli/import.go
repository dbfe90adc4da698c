package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/gea-gov/gea/pkg/cli/config"
	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/gea-gov/gea/pkg/service/tabular"
	"github.com/gea-gov/gea/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdImport() *cli.Command {
	var layoutName string
	var sheet string
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "layout",
			Usage:       "Spreadsheet layout [simple|full]",
			Value:       string(types.ImportLayoutFull),
			Sources:     cli.EnvVars("GEA_IMPORT_LAYOUT"),
			Destination: &layoutName,
		},
		&cli.StringFlag{
			Name:        "sheet",
			Usage:       "XLSX sheet to read (default: first sheet)",
			Sources:     cli.EnvVars("GEA_IMPORT_SHEET"),
			Destination: &sheet,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:      "import",
		Aliases:   []string{"i"},
		Usage:     "Import the service catalog from a local or Cloud Storage CSV or XLSX file",
		ArgsUsage: "<file|gs://bucket/object>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.NArg() != 1 {
				return goerr.New("exactly one input file is required", goerr.V("args", c.Args().Slice()))
			}
			path := c.Args().First()

			layout, err := types.ParseImportLayout(layoutName)
			if err != nil {
				return goerr.Wrap(err, "invalid layout")
			}

			var opts []tabular.Option
			if sheet != "" {
				opts = append(opts, tabular.WithSheet(sheet))
			}
			rows, err := tabular.ReadFile(ctx, path, layout, opts...)
			if err != nil {
				return goerr.Wrap(err, "failed to read catalog file", goerr.V("path", path))
			}

			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack")
			}

			uc, closeRepo, err := buildUseCases(ctx, &appCfg, &repoCfg, nil, nil)
			if err != nil {
				return err
			}
			defer closeRepo()

			report, err := uc.Import.Import(ctx, layout, filepath.Base(path), rows)
			if err != nil {
				return goerr.Wrap(err, "import failed", goerr.V("path", path))
			}

			printImportReport(c.Root().Writer, report)

			if notifier != nil {
				if err := notifier.NotifyImport(ctx, report); err != nil {
					logging.From(ctx).Warn("failed to post import summary", "error", err.Error())
				}
			}
			return nil
		},
	}
}

var outcomeColors = map[model.ImportOutcome]*color.Color{
	model.ImportOutcomeCreated: color.New(color.FgGreen, color.Bold),
	model.ImportOutcomeUpdated: color.New(color.FgCyan),
	model.ImportOutcomeSkipped: color.New(color.FgYellow),
	model.ImportOutcomeError:   color.New(color.FgRed, color.Bold),
}

func printImportReport(w io.Writer, report *model.ImportReport) {
	for _, row := range report.Rows {
		label := fmt.Sprintf("%-8s", row.Outcome)
		if c, ok := outcomeColors[row.Outcome]; ok {
			label = c.Sprint(label)
		}

		if row.Reason != "" {
			_, _ = fmt.Fprintf(w, "%5d %s %s (%s)\n", row.Line, label, row.Title, row.Reason)
		} else {
			_, _ = fmt.Fprintf(w, "%5d %s %s\n", row.Line, label, row.Title)
		}
	}

	bold := color.New(color.Bold)
	_, _ = bold.Fprintf(w, "\n%s: %d rows, %d created, %d updated, %d skipped, %d errors\n",
		report.Source, len(report.Rows), report.Created, report.Updated, report.Skipped, report.Errored)
}
