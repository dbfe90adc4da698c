package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gea-gov/gea/pkg/cli/config"
	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdSync() *cli.Command {
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var slackCfg config.Slack
	var syncCfg config.Sync

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, syncCfg.Flags()...)

	return &cli.Command{
		Name:  "sync",
		Usage: "Pull cases from the external system once",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if !syncCfg.IsConfigured() {
				return goerr.Wrap(config.ErrMissingSetting, "colab-endpoint is required",
					goerr.V(config.SettingKey, "colab-endpoint"))
			}

			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack")
			}

			uc, closeRepo, err := buildUseCases(ctx, &appCfg, &repoCfg, nil, &syncCfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			report, err := uc.Sync.Run(ctx)
			if err != nil {
				return goerr.Wrap(err, "sync failed")
			}

			printSyncReport(c.Root().Writer, report)

			if notifier != nil {
				if err := notifier.NotifySync(ctx, report); err != nil {
					logging.From(ctx).Warn("failed to post sync summary", "error", err.Error())
				}
			}
			return nil
		},
	}
}

func printSyncReport(w io.Writer, report *model.SyncReport) {
	red := color.New(color.FgRed, color.Bold)
	for _, rec := range report.Records {
		if rec.Outcome == model.SyncOutcomeError {
			_, _ = red.Fprintf(w, "error    %s (%s)\n", rec.ExternalID, rec.Reason)
		}
	}

	_, _ = color.New(color.Bold).Fprintf(w, "fetched %d records: %d created, %d updated, %d errors\n",
		report.Fetched, report.Created, report.Updated, report.Errored)
	_, _ = fmt.Fprintf(w, "run %s took %s\n", report.RunID, report.FinishedAt.Sub(report.StartedAt))
}
