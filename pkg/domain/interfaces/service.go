package interfaces

import (
	"context"

	"github.com/gea-gov/gea/pkg/domain/model"
)

// ServiceRepository defines the interface for catalog service data access
type ServiceRepository interface {
	// Create fails with ErrConflict when the name is taken and ErrInvalidReference
	// when the division or entity does not exist
	Create(ctx context.Context, s *model.Service) (*model.Service, error)
	Get(ctx context.Context, id int64) (*model.Service, error)
	GetByName(ctx context.Context, name string) (*model.Service, error)
	List(ctx context.Context) ([]*model.Service, error)
	Update(ctx context.Context, s *model.Service) (*model.Service, error)
	// Delete fails with ErrProtected while a case references the service
	Delete(ctx context.Context, id int64) error
}
