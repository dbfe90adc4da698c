package firestore

import (
	"context"
	"time"

	"github.com/gea-gov/gea/pkg/domain/model"
)

type entityDoc struct {
	ID        int64     `firestore:"id"`
	Name      string    `firestore:"name"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (d *entityDoc) toModel() *model.Entity {
	return &model.Entity{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

var entityKind = kind[entityDoc]{
	collection: collectionEntities,
	label:      "entity",
	keys: func(d *entityDoc) []uniqueKey {
		return []uniqueKey{{kind: "entity_name", value: d.Name}}
	},
	refs:       noRefs[entityDoc],
	dependents: []dependent{{collection: collectionServices, field: "entity_id"}},
}

type entityRepository struct {
	f *Firestore
}

func (r *entityRepository) Create(ctx context.Context, e *model.Entity) (*model.Entity, error) {
	doc, err := entityKind.create(ctx, r.f, func(id int64, now time.Time) *entityDoc {
		return &entityDoc{ID: id, Name: e.Name, CreatedAt: now, UpdatedAt: now}
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *entityRepository) Get(ctx context.Context, id int64) (*model.Entity, error) {
	doc, err := entityKind.get(ctx, r.f, id)
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *entityRepository) GetByName(ctx context.Context, name string) (*model.Entity, error) {
	doc, err := entityKind.first(ctx, r.f.collection(collectionEntities).Where("name", "==", name),
		func(d *entityDoc) int64 { return d.ID })
	if err != nil || doc == nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *entityRepository) List(ctx context.Context) ([]*model.Entity, error) {
	docs, err := entityKind.list(ctx, r.f)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Entity, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (r *entityRepository) Update(ctx context.Context, e *model.Entity) (*model.Entity, error) {
	doc, err := entityKind.update(ctx, r.f, e.ID, func(old *entityDoc, now time.Time) *entityDoc {
		return &entityDoc{ID: old.ID, Name: e.Name, CreatedAt: old.CreatedAt, UpdatedAt: now}
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *entityRepository) Delete(ctx context.Context, id int64) error {
	return entityKind.delete(ctx, r.f, id)
}

type secretariatDoc struct {
	ID        int64     `firestore:"id"`
	Name      string    `firestore:"name"`
	Acronym   string    `firestore:"acronym"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (d *secretariatDoc) toModel() *model.Secretariat {
	return &model.Secretariat{ID: d.ID, Name: d.Name, Acronym: d.Acronym, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

var secretariatKind = kind[secretariatDoc]{
	collection: collectionSecretariats,
	label:      "secretariat",
	keys: func(d *secretariatDoc) []uniqueKey {
		return []uniqueKey{
			{kind: "secretariat_name", value: d.Name},
			{kind: "secretariat_acronym", value: d.Acronym},
		}
	},
	refs:       noRefs[secretariatDoc],
	dependents: []dependent{{collection: collectionDepartments, field: "secretariat_id"}},
}

type secretariatRepository struct {
	f *Firestore
}

func (r *secretariatRepository) Create(ctx context.Context, s *model.Secretariat) (*model.Secretariat, error) {
	doc, err := secretariatKind.create(ctx, r.f, func(id int64, now time.Time) *secretariatDoc {
		return &secretariatDoc{ID: id, Name: s.Name, Acronym: s.Acronym, CreatedAt: now, UpdatedAt: now}
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *secretariatRepository) Get(ctx context.Context, id int64) (*model.Secretariat, error) {
	doc, err := secretariatKind.get(ctx, r.f, id)
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *secretariatRepository) findBy(ctx context.Context, field, value string) (*model.Secretariat, error) {
	doc, err := secretariatKind.first(ctx, r.f.collection(collectionSecretariats).Where(field, "==", value),
		func(d *secretariatDoc) int64 { return d.ID })
	if err != nil || doc == nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *secretariatRepository) GetByName(ctx context.Context, name string) (*model.Secretariat, error) {
	return r.findBy(ctx, "name", name)
}

func (r *secretariatRepository) GetByAcronym(ctx context.Context, acronym string) (*model.Secretariat, error) {
	return r.findBy(ctx, "acronym", acronym)
}

func (r *secretariatRepository) List(ctx context.Context) ([]*model.Secretariat, error) {
	docs, err := secretariatKind.list(ctx, r.f)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Secretariat, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (r *secretariatRepository) Update(ctx context.Context, s *model.Secretariat) (*model.Secretariat, error) {
	doc, err := secretariatKind.update(ctx, r.f, s.ID, func(old *secretariatDoc, now time.Time) *secretariatDoc {
		return &secretariatDoc{ID: old.ID, Name: s.Name, Acronym: s.Acronym, CreatedAt: old.CreatedAt, UpdatedAt: now}
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *secretariatRepository) Delete(ctx context.Context, id int64) error {
	return secretariatKind.delete(ctx, r.f, id)
}

type departmentDoc struct {
	ID            int64     `firestore:"id"`
	SecretariatID int64     `firestore:"secretariat_id"`
	Name          string    `firestore:"name"`
	CreatedAt     time.Time `firestore:"created_at"`
	UpdatedAt     time.Time `firestore:"updated_at"`
}

func (d *departmentDoc) toModel() *model.Department {
	return &model.Department{ID: d.ID, SecretariatID: d.SecretariatID, Name: d.Name, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

var departmentKind = kind[departmentDoc]{
	collection: collectionDepartments,
	label:      "department",
	keys:       noKeys[departmentDoc],
	refs: func(d *departmentDoc) []reference {
		return []reference{{collection: collectionSecretariats, id: d.SecretariatID}}
	},
	dependents: []dependent{{collection: collectionDivisions, field: "department_id"}},
}

type departmentRepository struct {
	f *Firestore
}

func (r *departmentRepository) Create(ctx context.Context, d *model.Department) (*model.Department, error) {
	doc, err := departmentKind.create(ctx, r.f, func(id int64, now time.Time) *departmentDoc {
		return &departmentDoc{ID: id, SecretariatID: d.SecretariatID, Name: d.Name, CreatedAt: now, UpdatedAt: now}
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *departmentRepository) Get(ctx context.Context, id int64) (*model.Department, error) {
	doc, err := departmentKind.get(ctx, r.f, id)
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *departmentRepository) FindByName(ctx context.Context, secretariatID int64, name string) (*model.Department, error) {
	q := r.f.collection(collectionDepartments).Where("secretariat_id", "==", secretariatID).Where("name", "==", name)
	doc, err := departmentKind.first(ctx, q, func(d *departmentDoc) int64 { return d.ID })
	if err != nil || doc == nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *departmentRepository) List(ctx context.Context) ([]*model.Department, error) {
	docs, err := departmentKind.list(ctx, r.f)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Department, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (r *departmentRepository) Update(ctx context.Context, d *model.Department) (*model.Department, error) {
	doc, err := departmentKind.update(ctx, r.f, d.ID, func(old *departmentDoc, now time.Time) *departmentDoc {
		return &departmentDoc{ID: old.ID, SecretariatID: d.SecretariatID, Name: d.Name, CreatedAt: old.CreatedAt, UpdatedAt: now}
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *departmentRepository) Delete(ctx context.Context, id int64) error {
	return departmentKind.delete(ctx, r.f, id)
}

type divisionDoc struct {
	ID           int64     `firestore:"id"`
	DepartmentID int64     `firestore:"department_id"`
	Name         string    `firestore:"name"`
	CreatedAt    time.Time `firestore:"created_at"`
	UpdatedAt    time.Time `firestore:"updated_at"`
}

func (d *divisionDoc) toModel() *model.Division {
	return &model.Division{ID: d.ID, DepartmentID: d.DepartmentID, Name: d.Name, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

var divisionKind = kind[divisionDoc]{
	collection: collectionDivisions,
	label:      "division",
	keys:       noKeys[divisionDoc],
	refs: func(d *divisionDoc) []reference {
		return []reference{{collection: collectionDepartments, id: d.DepartmentID}}
	},
	dependents: []dependent{{collection: collectionServices, field: "division_id"}},
}

type divisionRepository struct {
	f *Firestore
}

func (r *divisionRepository) Create(ctx context.Context, d *model.Division) (*model.Division, error) {
	doc, err := divisionKind.create(ctx, r.f, func(id int64, now time.Time) *divisionDoc {
		return &divisionDoc{ID: id, DepartmentID: d.DepartmentID, Name: d.Name, CreatedAt: now, UpdatedAt: now}
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *divisionRepository) Get(ctx context.Context, id int64) (*model.Division, error) {
	doc, err := divisionKind.get(ctx, r.f, id)
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *divisionRepository) FindByName(ctx context.Context, departmentID int64, name string) (*model.Division, error) {
	q := r.f.collection(collectionDivisions).Where("department_id", "==", departmentID).Where("name", "==", name)
	doc, err := divisionKind.first(ctx, q, func(d *divisionDoc) int64 { return d.ID })
	if err != nil || doc == nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *divisionRepository) List(ctx context.Context) ([]*model.Division, error) {
	docs, err := divisionKind.list(ctx, r.f)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Division, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (r *divisionRepository) Update(ctx context.Context, d *model.Division) (*model.Division, error) {
	doc, err := divisionKind.update(ctx, r.f, d.ID, func(old *divisionDoc, now time.Time) *divisionDoc {
		return &divisionDoc{ID: old.ID, DepartmentID: d.DepartmentID, Name: d.Name, CreatedAt: old.CreatedAt, UpdatedAt: now}
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *divisionRepository) Delete(ctx context.Context, id int64) error {
	return divisionKind.delete(ctx, r.f, id)
}
