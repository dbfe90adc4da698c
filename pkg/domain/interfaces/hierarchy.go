package interfaces

import (
	"context"

	"github.com/gea-gov/gea/pkg/domain/model"
)

// EntityRepository defines the interface for Entity data access.
// Lookups by natural key return nil, nil when nothing matches.
type EntityRepository interface {
	Create(ctx context.Context, e *model.Entity) (*model.Entity, error)
	Get(ctx context.Context, id int64) (*model.Entity, error)
	GetByName(ctx context.Context, name string) (*model.Entity, error)
	// List returns all entities ordered by ID
	List(ctx context.Context) ([]*model.Entity, error)
	Update(ctx context.Context, e *model.Entity) (*model.Entity, error)
	// Delete fails with ErrProtected while a service references the entity
	Delete(ctx context.Context, id int64) error
}

// SecretariatRepository defines the interface for Secretariat data access
type SecretariatRepository interface {
	Create(ctx context.Context, s *model.Secretariat) (*model.Secretariat, error)
	Get(ctx context.Context, id int64) (*model.Secretariat, error)
	GetByName(ctx context.Context, name string) (*model.Secretariat, error)
	GetByAcronym(ctx context.Context, acronym string) (*model.Secretariat, error)
	List(ctx context.Context) ([]*model.Secretariat, error)
	Update(ctx context.Context, s *model.Secretariat) (*model.Secretariat, error)
	// Delete fails with ErrProtected while a department references the secretariat
	Delete(ctx context.Context, id int64) error
}

// DepartmentRepository defines the interface for Department data access
type DepartmentRepository interface {
	Create(ctx context.Context, d *model.Department) (*model.Department, error)
	Get(ctx context.Context, id int64) (*model.Department, error)
	// FindByName returns the department with the lowest ID matching name under the secretariat
	FindByName(ctx context.Context, secretariatID int64, name string) (*model.Department, error)
	List(ctx context.Context) ([]*model.Department, error)
	Update(ctx context.Context, d *model.Department) (*model.Department, error)
	Delete(ctx context.Context, id int64) error
}

// DivisionRepository defines the interface for Division data access
type DivisionRepository interface {
	Create(ctx context.Context, d *model.Division) (*model.Division, error)
	Get(ctx context.Context, id int64) (*model.Division, error)
	// FindByName returns the division with the lowest ID matching name under the department
	FindByName(ctx context.Context, departmentID int64, name string) (*model.Division, error)
	List(ctx context.Context) ([]*model.Division, error)
	Update(ctx context.Context, d *model.Division) (*model.Division, error)
	Delete(ctx context.Context, id int64) error
}
