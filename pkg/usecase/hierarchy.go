package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/gea-gov/gea/pkg/domain/interfaces"
	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/model/config"
	"github.com/m-mizutani/goerr/v2"
)

type HierarchyUseCase struct {
	repo interfaces.Repository
}

func NewHierarchyUseCase(repo interfaces.Repository) *HierarchyUseCase {
	return &HierarchyUseCase{repo: repo}
}

// Entities

func (uc *HierarchyUseCase) CreateEntity(ctx context.Context, e *model.Entity) (*model.Entity, error) {
	e.Name = strings.TrimSpace(e.Name)
	if err := e.Validate(); err != nil {
		return nil, err
	}
	created, err := uc.repo.Entity().Create(ctx, e)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create entity", goerr.V(model.NameKey, e.Name))
	}
	return created, nil
}

func (uc *HierarchyUseCase) GetEntity(ctx context.Context, id int64) (*model.Entity, error) {
	e, err := uc.repo.Entity().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get entity", goerr.V(model.IDKey, id))
	}
	return e, nil
}

func (uc *HierarchyUseCase) ListEntities(ctx context.Context, q model.ListQuery) ([]*model.Entity, error) {
	if err := checkFilters(model.ResourceEntities, q); err != nil {
		return nil, err
	}
	entities, err := uc.repo.Entity().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list entities")
	}
	out := make([]*model.Entity, 0, len(entities))
	for _, e := range entities {
		if q.Matches(e.Name) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (uc *HierarchyUseCase) UpdateEntity(ctx context.Context, e *model.Entity) (*model.Entity, error) {
	e.Name = strings.TrimSpace(e.Name)
	if err := e.Validate(); err != nil {
		return nil, err
	}
	updated, err := uc.repo.Entity().Update(ctx, e)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update entity", goerr.V(model.IDKey, e.ID))
	}
	return updated, nil
}

func (uc *HierarchyUseCase) DeleteEntity(ctx context.Context, id int64) error {
	if err := uc.repo.Entity().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete entity", goerr.V(model.IDKey, id))
	}
	return nil
}

// Secretariats

func (uc *HierarchyUseCase) CreateSecretariat(ctx context.Context, s *model.Secretariat) (*model.Secretariat, error) {
	s.Name = strings.TrimSpace(s.Name)
	s.Acronym = strings.TrimSpace(s.Acronym)
	if s.Acronym == "" {
		s.Acronym = model.DeriveAcronym(s.Name)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	created, err := uc.repo.Secretariat().Create(ctx, s)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create secretariat", goerr.V(model.NameKey, s.Name))
	}
	return created, nil
}

func (uc *HierarchyUseCase) GetSecretariat(ctx context.Context, id int64) (*model.Secretariat, error) {
	s, err := uc.repo.Secretariat().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get secretariat", goerr.V(model.IDKey, id))
	}
	return s, nil
}

func (uc *HierarchyUseCase) ListSecretariats(ctx context.Context, q model.ListQuery) ([]*model.Secretariat, error) {
	if err := checkFilters(model.ResourceSecretariats, q); err != nil {
		return nil, err
	}
	secretariats, err := uc.repo.Secretariat().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list secretariats")
	}
	out := make([]*model.Secretariat, 0, len(secretariats))
	for _, s := range secretariats {
		if q.Matches(s.Name, s.Acronym) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (uc *HierarchyUseCase) UpdateSecretariat(ctx context.Context, s *model.Secretariat) (*model.Secretariat, error) {
	s.Name = strings.TrimSpace(s.Name)
	s.Acronym = strings.TrimSpace(s.Acronym)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	updated, err := uc.repo.Secretariat().Update(ctx, s)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update secretariat", goerr.V(model.IDKey, s.ID))
	}
	return updated, nil
}

func (uc *HierarchyUseCase) DeleteSecretariat(ctx context.Context, id int64) error {
	if err := uc.repo.Secretariat().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete secretariat", goerr.V(model.IDKey, id))
	}
	return nil
}

// Departments

func (uc *HierarchyUseCase) CreateDepartment(ctx context.Context, d *model.Department) (*model.Department, error) {
	d.Name = strings.TrimSpace(d.Name)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	created, err := uc.repo.Department().Create(ctx, d)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create department", goerr.V(model.NameKey, d.Name))
	}
	return created, nil
}

func (uc *HierarchyUseCase) GetDepartment(ctx context.Context, id int64) (*model.Department, error) {
	d, err := uc.repo.Department().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get department", goerr.V(model.IDKey, id))
	}
	return d, nil
}

func (uc *HierarchyUseCase) ListDepartments(ctx context.Context, q model.ListQuery) ([]*model.Department, error) {
	if err := checkFilters(model.ResourceDepartments, q); err != nil {
		return nil, err
	}
	secretariatID, bySecretariat, err := idFilter(q, model.FilterSecretariat)
	if err != nil {
		return nil, err
	}

	departments, err := uc.repo.Department().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list departments")
	}
	out := make([]*model.Department, 0, len(departments))
	for _, d := range departments {
		if bySecretariat && d.SecretariatID != secretariatID {
			continue
		}
		if q.Matches(d.Name) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (uc *HierarchyUseCase) UpdateDepartment(ctx context.Context, d *model.Department) (*model.Department, error) {
	d.Name = strings.TrimSpace(d.Name)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	updated, err := uc.repo.Department().Update(ctx, d)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update department", goerr.V(model.IDKey, d.ID))
	}
	return updated, nil
}

func (uc *HierarchyUseCase) DeleteDepartment(ctx context.Context, id int64) error {
	if err := uc.repo.Department().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete department", goerr.V(model.IDKey, id))
	}
	return nil
}

// Divisions

func (uc *HierarchyUseCase) CreateDivision(ctx context.Context, d *model.Division) (*model.Division, error) {
	d.Name = strings.TrimSpace(d.Name)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	created, err := uc.repo.Division().Create(ctx, d)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create division", goerr.V(model.NameKey, d.Name))
	}
	return created, nil
}

func (uc *HierarchyUseCase) GetDivision(ctx context.Context, id int64) (*model.Division, error) {
	d, err := uc.repo.Division().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get division", goerr.V(model.IDKey, id))
	}
	return d, nil
}

func (uc *HierarchyUseCase) ListDivisions(ctx context.Context, q model.ListQuery) ([]*model.Division, error) {
	if err := checkFilters(model.ResourceDivisions, q); err != nil {
		return nil, err
	}
	secretariatID, bySecretariat, err := idFilter(q, model.FilterSecretariat)
	if err != nil {
		return nil, err
	}
	departmentID, byDepartment, err := idFilter(q, model.FilterDepartment)
	if err != nil {
		return nil, err
	}

	idx, err := loadHierarchyIndex(ctx, uc.repo, false)
	if err != nil {
		return nil, err
	}
	divisions, err := uc.repo.Division().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list divisions")
	}

	out := make([]*model.Division, 0, len(divisions))
	for _, d := range divisions {
		if byDepartment && d.DepartmentID != departmentID {
			continue
		}
		if bySecretariat {
			s := idx.secretariatOfDepartment(d.DepartmentID)
			if s == nil || s.ID != secretariatID {
				continue
			}
		}
		if q.Matches(d.Name) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (uc *HierarchyUseCase) UpdateDivision(ctx context.Context, d *model.Division) (*model.Division, error) {
	d.Name = strings.TrimSpace(d.Name)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	updated, err := uc.repo.Division().Update(ctx, d)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update division", goerr.V(model.IDKey, d.ID))
	}
	return updated, nil
}

func (uc *HierarchyUseCase) DeleteDivision(ctx context.Context, id int64) error {
	if err := uc.repo.Division().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete division", goerr.V(model.IDKey, id))
	}
	return nil
}

// getOrCreate returns the record found by find, creating it when absent. A conflict
// on create means a concurrent writer got there first, so the record is read again once.
func getOrCreate[T any](ctx context.Context, find func(context.Context) (*T, error), create func(context.Context) (*T, error)) (*T, bool, error) {
	found, err := find(ctx)
	if err != nil {
		return nil, false, err
	}
	if found != nil {
		return found, false, nil
	}

	created, err := create(ctx)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, model.ErrConflict) {
		return nil, false, err
	}

	found, findErr := find(ctx)
	if findErr != nil {
		return nil, false, findErr
	}
	if found == nil {
		return nil, false, err
	}
	return found, false, nil
}

// hierarchyResolver walks Entity → Secretariat → Department → Division by name,
// creating missing levels. Used by the importer and the external sync.
type hierarchyResolver struct {
	repo    interfaces.Repository
	catalog config.CatalogConfig
}

func (r *hierarchyResolver) entity(ctx context.Context, name string) (*model.Entity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	e, _, err := getOrCreate(ctx,
		func(ctx context.Context) (*model.Entity, error) {
			return r.repo.Entity().GetByName(ctx, name)
		},
		func(ctx context.Context) (*model.Entity, error) {
			return r.repo.Entity().Create(ctx, &model.Entity{Name: name})
		})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve entity", goerr.V(model.NameKey, name))
	}
	return e, nil
}

// division resolves the default Division under the named Secretariat. The acronym is
// only derived when the Secretariat is created.
func (r *hierarchyResolver) division(ctx context.Context, secretariatName string) (*model.Division, error) {
	secretariatName = strings.TrimSpace(secretariatName)

	secretariat, _, err := getOrCreate(ctx,
		func(ctx context.Context) (*model.Secretariat, error) {
			return r.repo.Secretariat().GetByName(ctx, secretariatName)
		},
		func(ctx context.Context) (*model.Secretariat, error) {
			s := &model.Secretariat{Name: secretariatName, Acronym: model.DeriveAcronym(secretariatName)}
			if err := s.Validate(); err != nil {
				return nil, err
			}
			return r.repo.Secretariat().Create(ctx, s)
		})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve secretariat", goerr.V(model.NameKey, secretariatName))
	}

	department, _, err := getOrCreate(ctx,
		func(ctx context.Context) (*model.Department, error) {
			return r.repo.Department().FindByName(ctx, secretariat.ID, r.catalog.DefaultDepartment)
		},
		func(ctx context.Context) (*model.Department, error) {
			return r.repo.Department().Create(ctx, &model.Department{
				SecretariatID: secretariat.ID,
				Name:          r.catalog.DefaultDepartment,
			})
		})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve department",
			goerr.V(model.NameKey, r.catalog.DefaultDepartment), goerr.V("secretariat_id", secretariat.ID))
	}

	division, _, err := getOrCreate(ctx,
		func(ctx context.Context) (*model.Division, error) {
			return r.repo.Division().FindByName(ctx, department.ID, r.catalog.DefaultDivision)
		},
		func(ctx context.Context) (*model.Division, error) {
			return r.repo.Division().Create(ctx, &model.Division{
				DepartmentID: department.ID,
				Name:         r.catalog.DefaultDivision,
			})
		})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve division",
			goerr.V(model.NameKey, r.catalog.DefaultDivision), goerr.V("department_id", department.ID))
	}

	return division, nil
}
