package worker

import (
	"context"
	"sync"
	"time"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/utils/logging"
)

// SyncRunner performs one external case sync run
type SyncRunner interface {
	Run(ctx context.Context) (*model.SyncReport, error)
}

// CaseSyncWorker runs the external case sync periodically
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - A run never overlaps the next tick; slow runs delay the schedule
type CaseSyncWorker struct {
	runner   SyncRunner
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewCaseSyncWorker creates a new worker for syncing external cases
func NewCaseSyncWorker(runner SyncRunner, interval time.Duration) *CaseSyncWorker {
	return &CaseSyncWorker{
		runner:   runner,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sync loop. The first run happens immediately in the
// background and does not block server startup.
func (w *CaseSyncWorker) Start(ctx context.Context) error {
	logging.Default().Info("Case sync worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *CaseSyncWorker) Stop() {
	w.stopOnce.Do(func() {
		logging.Default().Info("Case sync worker stopping")
		close(w.stopCh)
	})
	<-w.doneCh
	logging.Default().Info("Case sync worker stopped")
}

func (w *CaseSyncWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.sync(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sync(ctx)

		case <-w.stopCh:
			logging.Default().Info("Case sync worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Case sync worker context cancelled")
			return
		}
	}
}

func (w *CaseSyncWorker) sync(ctx context.Context) {
	startTime := time.Now()

	report, err := w.runner.Run(ctx)
	if err != nil {
		logging.Default().Error("Case sync failed (will retry next interval)",
			"error", err.Error())
		return
	}

	logging.Default().Info("Case sync completed",
		"run_id", report.RunID,
		"fetched", report.Fetched,
		"created", report.Created,
		"updated", report.Updated,
		"errored", report.Errored,
		"duration", time.Since(startTime).String())
}
