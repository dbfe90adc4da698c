package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/service/worker"
	"github.com/m-mizutani/gt"
)

// mockRunner is a mock implementation of worker.SyncRunner for testing
type mockRunner struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *mockRunner) Run(ctx context.Context) (*model.SyncReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return model.NewSyncReport(time.Now()), nil
}

func (m *mockRunner) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestCaseSyncWorker_RunsImmediatelyAndPeriodically(t *testing.T) {
	runner := &mockRunner{}
	w := worker.NewCaseSyncWorker(runner, 20*time.Millisecond)

	gt.NoError(t, w.Start(context.Background())).Required()
	waitFor(t, func() bool { return runner.callCount() >= 3 })
	w.Stop()

	stopped := runner.callCount()
	time.Sleep(60 * time.Millisecond)
	gt.Number(t, runner.callCount()).Equal(stopped)
}

func TestCaseSyncWorker_ContinuesAfterFailure(t *testing.T) {
	runner := &mockRunner{err: errors.New("connection refused")}
	w := worker.NewCaseSyncWorker(runner, 20*time.Millisecond)

	gt.NoError(t, w.Start(context.Background())).Required()
	waitFor(t, func() bool { return runner.callCount() >= 2 })
	w.Stop()
}

func TestCaseSyncWorker_StopsOnContextCancel(t *testing.T) {
	runner := &mockRunner{}
	w := worker.NewCaseSyncWorker(runner, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	gt.NoError(t, w.Start(ctx)).Required()
	waitFor(t, func() bool { return runner.callCount() == 1 })

	cancel()
	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
