package interfaces

import (
	"context"

	"github.com/gea-gov/gea/pkg/domain/model"
)

// CaseSource fetches case records from an external case management system
type CaseSource interface {
	FetchCases(ctx context.Context) ([]*model.ExternalCase, error)
}

// Notifier publishes summaries of background runs
type Notifier interface {
	NotifyImport(ctx context.Context, report *model.ImportReport) error
	NotifySync(ctx context.Context, report *model.SyncReport) error
}
