package memory

import (
	"context"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

func copyEntity(e *model.Entity) *model.Entity {
	c := *e
	return &c
}

func copySecretariat(s *model.Secretariat) *model.Secretariat {
	c := *s
	return &c
}

func copyDepartment(d *model.Department) *model.Department {
	c := *d
	return &c
}

func copyDivision(d *model.Division) *model.Division {
	c := *d
	return &c
}

type entityRepository struct {
	m *Memory
}

// entityNameTaken must be called with mu held
func (r *entityRepository) entityNameTaken(name string, exceptID int64) bool {
	for id, e := range r.m.entities {
		if id != exceptID && e.Name == name {
			return true
		}
	}
	return false
}

func (r *entityRepository) Create(ctx context.Context, e *model.Entity) (*model.Entity, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if r.entityNameTaken(e.Name, 0) {
		return nil, goerr.Wrap(model.ErrConflict, "entity name already exists", goerr.V(model.NameKey, e.Name))
	}

	ts := now()
	created := copyEntity(e)
	created.ID = r.m.allocID("entities")
	created.CreatedAt = ts
	created.UpdatedAt = ts
	r.m.entities[created.ID] = created
	return copyEntity(created), nil
}

func (r *entityRepository) Get(ctx context.Context, id int64) (*model.Entity, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	e, ok := r.m.entities[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "entity not found", goerr.V(model.IDKey, id))
	}
	return copyEntity(e), nil
}

func (r *entityRepository) GetByName(ctx context.Context, name string) (*model.Entity, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, id := range sortedIDs(r.m.entities) {
		if e := r.m.entities[id]; e.Name == name {
			return copyEntity(e), nil
		}
	}
	return nil, nil
}

func (r *entityRepository) List(ctx context.Context) ([]*model.Entity, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]*model.Entity, 0, len(r.m.entities))
	for _, id := range sortedIDs(r.m.entities) {
		out = append(out, copyEntity(r.m.entities[id]))
	}
	return out, nil
}

func (r *entityRepository) Update(ctx context.Context, e *model.Entity) (*model.Entity, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.entities[e.ID]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "entity not found", goerr.V(model.IDKey, e.ID))
	}
	if r.entityNameTaken(e.Name, e.ID) {
		return nil, goerr.Wrap(model.ErrConflict, "entity name already exists", goerr.V(model.NameKey, e.Name))
	}

	updated := copyEntity(e)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = now()
	r.m.entities[e.ID] = updated
	return copyEntity(updated), nil
}

func (r *entityRepository) Delete(ctx context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.entities[id]; !ok {
		return goerr.Wrap(model.ErrNotFound, "entity not found", goerr.V(model.IDKey, id))
	}
	for _, s := range r.m.services {
		if s.EntityID != nil && *s.EntityID == id {
			return goerr.Wrap(model.ErrProtected, "entity is referenced by a service",
				goerr.V(model.IDKey, id), goerr.V(model.ReferenceKey, s.ID))
		}
	}
	delete(r.m.entities, id)
	return nil
}

type secretariatRepository struct {
	m *Memory
}

// checkUnique must be called with mu held
func (r *secretariatRepository) checkUnique(s *model.Secretariat) error {
	for id, other := range r.m.secretariats {
		if id == s.ID {
			continue
		}
		if other.Name == s.Name {
			return goerr.Wrap(model.ErrConflict, "secretariat name already exists", goerr.V(model.NameKey, s.Name))
		}
		if other.Acronym == s.Acronym {
			return goerr.Wrap(model.ErrConflict, "secretariat acronym already exists", goerr.V("acronym", s.Acronym))
		}
	}
	return nil
}

func (r *secretariatRepository) Create(ctx context.Context, s *model.Secretariat) (*model.Secretariat, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	created := copySecretariat(s)
	created.ID = 0
	if err := r.checkUnique(created); err != nil {
		return nil, err
	}

	ts := now()
	created.ID = r.m.allocID("secretariats")
	created.CreatedAt = ts
	created.UpdatedAt = ts
	r.m.secretariats[created.ID] = created
	return copySecretariat(created), nil
}

func (r *secretariatRepository) Get(ctx context.Context, id int64) (*model.Secretariat, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	s, ok := r.m.secretariats[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "secretariat not found", goerr.V(model.IDKey, id))
	}
	return copySecretariat(s), nil
}

func (r *secretariatRepository) find(match func(*model.Secretariat) bool) *model.Secretariat {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, id := range sortedIDs(r.m.secretariats) {
		if s := r.m.secretariats[id]; match(s) {
			return copySecretariat(s)
		}
	}
	return nil
}

func (r *secretariatRepository) GetByName(ctx context.Context, name string) (*model.Secretariat, error) {
	return r.find(func(s *model.Secretariat) bool { return s.Name == name }), nil
}

func (r *secretariatRepository) GetByAcronym(ctx context.Context, acronym string) (*model.Secretariat, error) {
	return r.find(func(s *model.Secretariat) bool { return s.Acronym == acronym }), nil
}

func (r *secretariatRepository) List(ctx context.Context) ([]*model.Secretariat, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]*model.Secretariat, 0, len(r.m.secretariats))
	for _, id := range sortedIDs(r.m.secretariats) {
		out = append(out, copySecretariat(r.m.secretariats[id]))
	}
	return out, nil
}

func (r *secretariatRepository) Update(ctx context.Context, s *model.Secretariat) (*model.Secretariat, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.secretariats[s.ID]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "secretariat not found", goerr.V(model.IDKey, s.ID))
	}
	if err := r.checkUnique(s); err != nil {
		return nil, err
	}

	updated := copySecretariat(s)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = now()
	r.m.secretariats[s.ID] = updated
	return copySecretariat(updated), nil
}

func (r *secretariatRepository) Delete(ctx context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.secretariats[id]; !ok {
		return goerr.Wrap(model.ErrNotFound, "secretariat not found", goerr.V(model.IDKey, id))
	}
	for _, d := range r.m.departments {
		if d.SecretariatID == id {
			return goerr.Wrap(model.ErrProtected, "secretariat is referenced by a department",
				goerr.V(model.IDKey, id), goerr.V(model.ReferenceKey, d.ID))
		}
	}
	delete(r.m.secretariats, id)
	return nil
}

type departmentRepository struct {
	m *Memory
}

func (r *departmentRepository) Create(ctx context.Context, d *model.Department) (*model.Department, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.secretariats[d.SecretariatID]; !ok {
		return nil, goerr.Wrap(model.ErrInvalidReference, "secretariat does not exist",
			goerr.V(model.ReferenceKey, d.SecretariatID))
	}

	ts := now()
	created := copyDepartment(d)
	created.ID = r.m.allocID("departments")
	created.CreatedAt = ts
	created.UpdatedAt = ts
	r.m.departments[created.ID] = created
	return copyDepartment(created), nil
}

func (r *departmentRepository) Get(ctx context.Context, id int64) (*model.Department, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	d, ok := r.m.departments[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "department not found", goerr.V(model.IDKey, id))
	}
	return copyDepartment(d), nil
}

func (r *departmentRepository) FindByName(ctx context.Context, secretariatID int64, name string) (*model.Department, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, id := range sortedIDs(r.m.departments) {
		if d := r.m.departments[id]; d.SecretariatID == secretariatID && d.Name == name {
			return copyDepartment(d), nil
		}
	}
	return nil, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]*model.Department, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]*model.Department, 0, len(r.m.departments))
	for _, id := range sortedIDs(r.m.departments) {
		out = append(out, copyDepartment(r.m.departments[id]))
	}
	return out, nil
}

func (r *departmentRepository) Update(ctx context.Context, d *model.Department) (*model.Department, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.departments[d.ID]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "department not found", goerr.V(model.IDKey, d.ID))
	}
	if _, ok := r.m.secretariats[d.SecretariatID]; !ok {
		return nil, goerr.Wrap(model.ErrInvalidReference, "secretariat does not exist",
			goerr.V(model.ReferenceKey, d.SecretariatID))
	}

	updated := copyDepartment(d)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = now()
	r.m.departments[d.ID] = updated
	return copyDepartment(updated), nil
}

func (r *departmentRepository) Delete(ctx context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.departments[id]; !ok {
		return goerr.Wrap(model.ErrNotFound, "department not found", goerr.V(model.IDKey, id))
	}
	for _, d := range r.m.divisions {
		if d.DepartmentID == id {
			return goerr.Wrap(model.ErrProtected, "department is referenced by a division",
				goerr.V(model.IDKey, id), goerr.V(model.ReferenceKey, d.ID))
		}
	}
	delete(r.m.departments, id)
	return nil
}

type divisionRepository struct {
	m *Memory
}

func (r *divisionRepository) Create(ctx context.Context, d *model.Division) (*model.Division, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.departments[d.DepartmentID]; !ok {
		return nil, goerr.Wrap(model.ErrInvalidReference, "department does not exist",
			goerr.V(model.ReferenceKey, d.DepartmentID))
	}

	ts := now()
	created := copyDivision(d)
	created.ID = r.m.allocID("divisions")
	created.CreatedAt = ts
	created.UpdatedAt = ts
	r.m.divisions[created.ID] = created
	return copyDivision(created), nil
}

func (r *divisionRepository) Get(ctx context.Context, id int64) (*model.Division, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	d, ok := r.m.divisions[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "division not found", goerr.V(model.IDKey, id))
	}
	return copyDivision(d), nil
}

func (r *divisionRepository) FindByName(ctx context.Context, departmentID int64, name string) (*model.Division, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, id := range sortedIDs(r.m.divisions) {
		if d := r.m.divisions[id]; d.DepartmentID == departmentID && d.Name == name {
			return copyDivision(d), nil
		}
	}
	return nil, nil
}

func (r *divisionRepository) List(ctx context.Context) ([]*model.Division, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]*model.Division, 0, len(r.m.divisions))
	for _, id := range sortedIDs(r.m.divisions) {
		out = append(out, copyDivision(r.m.divisions[id]))
	}
	return out, nil
}

func (r *divisionRepository) Update(ctx context.Context, d *model.Division) (*model.Division, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.divisions[d.ID]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "division not found", goerr.V(model.IDKey, d.ID))
	}
	if _, ok := r.m.departments[d.DepartmentID]; !ok {
		return nil, goerr.Wrap(model.ErrInvalidReference, "department does not exist",
			goerr.V(model.ReferenceKey, d.DepartmentID))
	}

	updated := copyDivision(d)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = now()
	r.m.divisions[d.ID] = updated
	return copyDivision(updated), nil
}

func (r *divisionRepository) Delete(ctx context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.divisions[id]; !ok {
		return goerr.Wrap(model.ErrNotFound, "division not found", goerr.V(model.IDKey, id))
	}
	for _, s := range r.m.services {
		if s.DivisionID == id {
			return goerr.Wrap(model.ErrProtected, "division is referenced by a service",
				goerr.V(model.IDKey, id), goerr.V(model.ReferenceKey, s.ID))
		}
	}
	delete(r.m.divisions, id)
	return nil
}
