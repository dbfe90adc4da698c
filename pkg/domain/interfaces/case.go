package interfaces

import (
	"context"
	"time"

	"github.com/gea-gov/gea/pkg/domain/model"
)

// CaseRepository defines the interface for Case data access
type CaseRepository interface {
	// Create stores a case as given; OpenedAt and DueDate must already be set
	Create(ctx context.Context, c *model.Case) (*model.Case, error)

	Get(ctx context.Context, id int64) (*model.Case, error)

	// GetByProtocolNumber returns nil, nil if no case carries the number
	GetByProtocolNumber(ctx context.Context, protocolNumber string) (*model.Case, error)

	// GetByExternalID returns nil, nil if no case carries the external ID
	GetByExternalID(ctx context.Context, externalID string) (*model.Case, error)

	// List returns all cases ordered by ID
	List(ctx context.Context) ([]*model.Case, error)

	// Update overwrites the mutable fields of a case. OpenedAt, DueDate and CreatedAt
	// keep their stored values.
	Update(ctx context.Context, c *model.Case) (*model.Case, error)

	Delete(ctx context.Context, id int64) error

	// Complete marks every listed case that is not yet COMPLETED as COMPLETED with
	// CompletedAt set to at, in a single transaction. Unknown IDs are ignored.
	// Returns the number of cases that changed.
	Complete(ctx context.Context, ids []int64, at time.Time) (int, error)

	// UnassignUser clears AssigneeID on every case assigned to userID and returns
	// the number of cases changed
	UnassignUser(ctx context.Context, userID string) (int, error)
}
