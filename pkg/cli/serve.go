package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gea-gov/gea/pkg/cli/config"
	httpctrl "github.com/gea-gov/gea/pkg/controller/http"
	"github.com/gea-gov/gea/pkg/service/worker"
	"github.com/gea-gov/gea/pkg/usecase"
	"github.com/gea-gov/gea/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func cmdServe() *cli.Command {
	var addr string
	var maxUpload int64
	var enableMetrics bool
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var slackCfg config.Slack
	var syncCfg config.Sync

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("GEA_ADDR"),
			Destination: &addr,
		},
		&cli.Int64Flag{
			Name:        "max-upload-bytes",
			Usage:       "Maximum size of an uploaded catalog spreadsheet",
			Value:       httpctrl.DefaultMaxUploadBytes,
			Sources:     cli.EnvVars("GEA_MAX_UPLOAD_BYTES"),
			Destination: &maxUpload,
		},
		&cli.BoolFlag{
			Name:        "metrics",
			Usage:       "Expose Prometheus metrics at /metrics",
			Value:       true,
			Sources:     cli.EnvVars("GEA_METRICS"),
			Destination: &enableMetrics,
		},
	}

	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, syncCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			uc, closeRepo, err := buildUseCases(ctx, &appCfg, &repoCfg, &slackCfg, &syncCfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			server := &http.Server{
				Addr: addr,
				Handler: httpctrl.New(uc,
					httpctrl.WithMaxUploadBytes(maxUpload),
					httpctrl.WithMetrics(enableMetrics),
				),
				ReadHeaderTimeout: 30 * time.Second,
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			var syncWorker *worker.CaseSyncWorker
			if uc.Sync.IsConfigured() {
				syncWorker = worker.NewCaseSyncWorker(uc.Sync, syncCfg.Interval())
				if err := syncWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start case sync worker")
				}
				logger.Info("Case sync worker started", "interval", syncCfg.Interval())
			}

			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				logger.Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "failed to start server", goerr.V("addr", addr))
				}
				return nil
			})
			eg.Go(func() error {
				<-ctx.Done()
				logger.Info("Shutting down")

				if syncWorker != nil {
					syncWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				return nil
			})

			if err := eg.Wait(); err != nil {
				return err
			}
			logger.Info("Server shutdown completed")
			return nil
		},
	}
}

// buildUseCases wires the repository and the optional integrations. The returned
// function closes the repository.
func buildUseCases(ctx context.Context, appCfg *config.AppConfig, repoCfg *config.Repository, slackCfg *config.Slack, syncCfg *config.Sync) (*usecase.UseCases, func(), error) {
	logger := logging.Default()

	settings, err := appCfg.Configure()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load settings")
	}

	opts := []usecase.Option{usecase.WithConfig(settings)}

	if slackCfg != nil {
		notifier, err := slackCfg.Configure()
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to configure slack")
		}
		if notifier != nil {
			opts = append(opts, usecase.WithNotifier(notifier))
			logger.Info("Slack notifications enabled", "slack", *slackCfg)
		}
	}

	if syncCfg != nil {
		source, err := syncCfg.Configure()
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to configure external sync")
		}
		if source != nil {
			opts = append(opts, usecase.WithCaseSource(source))
			logger.Info("External sync enabled", "sync", *syncCfg)
		}
	}

	repo, err := repoCfg.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize repository")
	}
	closeRepo := func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close repository", "error", err.Error())
		}
	}

	return usecase.New(repo, opts...), closeRepo, nil
}
