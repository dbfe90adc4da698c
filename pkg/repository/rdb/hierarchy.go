package rdb

import (
	"context"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

const entityColumns = "id, name, created_at, updated_at"

func scanEntity(row rowScanner) (*model.Entity, error) {
	var (
		e                    model.Entity
		createdAt, updatedAt dbTime
	)
	if err := row.Scan(&e.ID, &e.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	e.CreatedAt, e.UpdatedAt = createdAt.Time, updatedAt.Time
	return &e, nil
}

type entityRepository struct {
	db *DB
}

func (r *entityRepository) Create(ctx context.Context, e *model.Entity) (*model.Entity, error) {
	now := timestamp()
	id, err := r.db.insert(ctx,
		"INSERT INTO entities (name, created_at, updated_at) VALUES (?, ?, ?)",
		e.Name, now, now)
	if err != nil {
		return nil, goerr.Wrap(translate(err, model.ErrInvalidReference), "failed to create entity", goerr.V(model.NameKey, e.Name))
	}

	created := *e
	created.ID = id
	created.CreatedAt, created.UpdatedAt = now, now
	return &created, nil
}

func (r *entityRepository) Get(ctx context.Context, id int64) (*model.Entity, error) {
	e, err := getRow(ctx, r.db, scanEntity, "SELECT "+entityColumns+" FROM entities WHERE id = ?", id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get entity", goerr.V(model.IDKey, id))
	}
	if e == nil {
		return nil, goerr.Wrap(model.ErrNotFound, "entity not found", goerr.V(model.IDKey, id))
	}
	return e, nil
}

func (r *entityRepository) GetByName(ctx context.Context, name string) (*model.Entity, error) {
	e, err := getRow(ctx, r.db, scanEntity, "SELECT "+entityColumns+" FROM entities WHERE name = ?", name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get entity by name", goerr.V(model.NameKey, name))
	}
	return e, nil
}

func (r *entityRepository) List(ctx context.Context) ([]*model.Entity, error) {
	entities, err := listRows(ctx, r.db, scanEntity, "SELECT "+entityColumns+" FROM entities ORDER BY id")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list entities")
	}
	return entities, nil
}

func (r *entityRepository) Update(ctx context.Context, e *model.Entity) (*model.Entity, error) {
	res, err := r.db.exec(ctx, "UPDATE entities SET name = ?, updated_at = ? WHERE id = ?", e.Name, timestamp(), e.ID)
	if err != nil {
		return nil, goerr.Wrap(translate(err, model.ErrInvalidReference), "failed to update entity", goerr.V(model.IDKey, e.ID))
	}
	if err := requireAffected(res, "entity", e.ID); err != nil {
		return nil, err
	}
	return r.Get(ctx, e.ID)
}

func (r *entityRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.exec(ctx, "DELETE FROM entities WHERE id = ?", id)
	if err != nil {
		return goerr.Wrap(translate(err, model.ErrProtected), "failed to delete entity", goerr.V(model.IDKey, id))
	}
	return requireAffected(res, "entity", id)
}

const secretariatColumns = "id, name, acronym, created_at, updated_at"

func scanSecretariat(row rowScanner) (*model.Secretariat, error) {
	var (
		s                    model.Secretariat
		createdAt, updatedAt dbTime
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Acronym, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	s.CreatedAt, s.UpdatedAt = createdAt.Time, updatedAt.Time
	return &s, nil
}

type secretariatRepository struct {
	db *DB
}

func (r *secretariatRepository) Create(ctx context.Context, s *model.Secretariat) (*model.Secretariat, error) {
	now := timestamp()
	id, err := r.db.insert(ctx,
		"INSERT INTO secretariats (name, acronym, created_at, updated_at) VALUES (?, ?, ?, ?)",
		s.Name, s.Acronym, now, now)
	if err != nil {
		return nil, goerr.Wrap(translate(err, model.ErrInvalidReference), "failed to create secretariat",
			goerr.V(model.NameKey, s.Name), goerr.V("acronym", s.Acronym))
	}

	created := *s
	created.ID = id
	created.CreatedAt, created.UpdatedAt = now, now
	return &created, nil
}

func (r *secretariatRepository) Get(ctx context.Context, id int64) (*model.Secretariat, error) {
	s, err := getRow(ctx, r.db, scanSecretariat, "SELECT "+secretariatColumns+" FROM secretariats WHERE id = ?", id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get secretariat", goerr.V(model.IDKey, id))
	}
	if s == nil {
		return nil, goerr.Wrap(model.ErrNotFound, "secretariat not found", goerr.V(model.IDKey, id))
	}
	return s, nil
}

func (r *secretariatRepository) GetByName(ctx context.Context, name string) (*model.Secretariat, error) {
	s, err := getRow(ctx, r.db, scanSecretariat, "SELECT "+secretariatColumns+" FROM secretariats WHERE name = ?", name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get secretariat by name", goerr.V(model.NameKey, name))
	}
	return s, nil
}

func (r *secretariatRepository) GetByAcronym(ctx context.Context, acronym string) (*model.Secretariat, error) {
	s, err := getRow(ctx, r.db, scanSecretariat, "SELECT "+secretariatColumns+" FROM secretariats WHERE acronym = ?", acronym)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get secretariat by acronym", goerr.V("acronym", acronym))
	}
	return s, nil
}

func (r *secretariatRepository) List(ctx context.Context) ([]*model.Secretariat, error) {
	list, err := listRows(ctx, r.db, scanSecretariat, "SELECT "+secretariatColumns+" FROM secretariats ORDER BY id")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list secretariats")
	}
	return list, nil
}

func (r *secretariatRepository) Update(ctx context.Context, s *model.Secretariat) (*model.Secretariat, error) {
	res, err := r.db.exec(ctx,
		"UPDATE secretariats SET name = ?, acronym = ?, updated_at = ? WHERE id = ?",
		s.Name, s.Acronym, timestamp(), s.ID)
	if err != nil {
		return nil, goerr.Wrap(translate(err, model.ErrInvalidReference), "failed to update secretariat", goerr.V(model.IDKey, s.ID))
	}
	if err := requireAffected(res, "secretariat", s.ID); err != nil {
		return nil, err
	}
	return r.Get(ctx, s.ID)
}

func (r *secretariatRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.exec(ctx, "DELETE FROM secretariats WHERE id = ?", id)
	if err != nil {
		return goerr.Wrap(translate(err, model.ErrProtected), "failed to delete secretariat", goerr.V(model.IDKey, id))
	}
	return requireAffected(res, "secretariat", id)
}

const departmentColumns = "id, secretariat_id, name, created_at, updated_at"

func scanDepartment(row rowScanner) (*model.Department, error) {
	var (
		d                    model.Department
		createdAt, updatedAt dbTime
	)
	if err := row.Scan(&d.ID, &d.SecretariatID, &d.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	d.CreatedAt, d.UpdatedAt = createdAt.Time, updatedAt.Time
	return &d, nil
}

type departmentRepository struct {
	db *DB
}

func (r *departmentRepository) Create(ctx context.Context, d *model.Department) (*model.Department, error) {
	now := timestamp()
	id, err := r.db.insert(ctx,
		"INSERT INTO departments (secretariat_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		d.SecretariatID, d.Name, now, now)
	if err != nil {
		return nil, goerr.Wrap(translate(err, model.ErrInvalidReference), "failed to create department",
			goerr.V(model.NameKey, d.Name), goerr.V(model.ReferenceKey, d.SecretariatID))
	}

	created := *d
	created.ID = id
	created.CreatedAt, created.UpdatedAt = now, now
	return &created, nil
}

func (r *departmentRepository) Get(ctx context.Context, id int64) (*model.Department, error) {
	d, err := getRow(ctx, r.db, scanDepartment, "SELECT "+departmentColumns+" FROM departments WHERE id = ?", id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get department", goerr.V(model.IDKey, id))
	}
	if d == nil {
		return nil, goerr.Wrap(model.ErrNotFound, "department not found", goerr.V(model.IDKey, id))
	}
	return d, nil
}

func (r *departmentRepository) FindByName(ctx context.Context, secretariatID int64, name string) (*model.Department, error) {
	d, err := getRow(ctx, r.db, scanDepartment,
		"SELECT "+departmentColumns+" FROM departments WHERE secretariat_id = ? AND name = ? ORDER BY id LIMIT 1",
		secretariatID, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find department", goerr.V(model.NameKey, name), goerr.V(model.ReferenceKey, secretariatID))
	}
	return d, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]*model.Department, error) {
	list, err := listRows(ctx, r.db, scanDepartment, "SELECT "+departmentColumns+" FROM departments ORDER BY id")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list departments")
	}
	return list, nil
}

func (r *departmentRepository) Update(ctx context.Context, d *model.Department) (*model.Department, error) {
	res, err := r.db.exec(ctx,
		"UPDATE departments SET secretariat_id = ?, name = ?, updated_at = ? WHERE id = ?",
		d.SecretariatID, d.Name, timestamp(), d.ID)
	if err != nil {
		return nil, goerr.Wrap(translate(err, model.ErrInvalidReference), "failed to update department", goerr.V(model.IDKey, d.ID))
	}
	if err := requireAffected(res, "department", d.ID); err != nil {
		return nil, err
	}
	return r.Get(ctx, d.ID)
}

func (r *departmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.exec(ctx, "DELETE FROM departments WHERE id = ?", id)
	if err != nil {
		return goerr.Wrap(translate(err, model.ErrProtected), "failed to delete department", goerr.V(model.IDKey, id))
	}
	return requireAffected(res, "department", id)
}

const divisionColumns = "id, department_id, name, created_at, updated_at"

func scanDivision(row rowScanner) (*model.Division, error) {
	var (
		d                    model.Division
		createdAt, updatedAt dbTime
	)
	if err := row.Scan(&d.ID, &d.DepartmentID, &d.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	d.CreatedAt, d.UpdatedAt = createdAt.Time, updatedAt.Time
	return &d, nil
}

type divisionRepository struct {
	db *DB
}

func (r *divisionRepository) Create(ctx context.Context, d *model.Division) (*model.Division, error) {
	now := timestamp()
	id, err := r.db.insert(ctx,
		"INSERT INTO divisions (department_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		d.DepartmentID, d.Name, now, now)
	if err != nil {
		return nil, goerr.Wrap(translate(err, model.ErrInvalidReference), "failed to create division",
			goerr.V(model.NameKey, d.Name), goerr.V(model.ReferenceKey, d.DepartmentID))
	}

	created := *d
	created.ID = id
	created.CreatedAt, created.UpdatedAt = now, now
	return &created, nil
}

func (r *divisionRepository) Get(ctx context.Context, id int64) (*model.Division, error) {
	d, err := getRow(ctx, r.db, scanDivision, "SELECT "+divisionColumns+" FROM divisions WHERE id = ?", id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get division", goerr.V(model.IDKey, id))
	}
	if d == nil {
		return nil, goerr.Wrap(model.ErrNotFound, "division not found", goerr.V(model.IDKey, id))
	}
	return d, nil
}

func (r *divisionRepository) FindByName(ctx context.Context, departmentID int64, name string) (*model.Division, error) {
	d, err := getRow(ctx, r.db, scanDivision,
		"SELECT "+divisionColumns+" FROM divisions WHERE department_id = ? AND name = ? ORDER BY id LIMIT 1",
		departmentID, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find division", goerr.V(model.NameKey, name), goerr.V(model.ReferenceKey, departmentID))
	}
	return d, nil
}

func (r *divisionRepository) List(ctx context.Context) ([]*model.Division, error) {
	list, err := listRows(ctx, r.db, scanDivision, "SELECT "+divisionColumns+" FROM divisions ORDER BY id")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list divisions")
	}
	return list, nil
}

func (r *divisionRepository) Update(ctx context.Context, d *model.Division) (*model.Division, error) {
	res, err := r.db.exec(ctx,
		"UPDATE divisions SET department_id = ?, name = ?, updated_at = ? WHERE id = ?",
		d.DepartmentID, d.Name, timestamp(), d.ID)
	if err != nil {
		return nil, goerr.Wrap(translate(err, model.ErrInvalidReference), "failed to update division", goerr.V(model.IDKey, d.ID))
	}
	if err := requireAffected(res, "division", d.ID); err != nil {
		return nil, err
	}
	return r.Get(ctx, d.ID)
}

func (r *divisionRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.exec(ctx, "DELETE FROM divisions WHERE id = ?", id)
	if err != nil {
		return goerr.Wrap(translate(err, model.ErrProtected), "failed to delete division", goerr.V(model.IDKey, id))
	}
	return requireAffected(res, "division", id)
}
