package memory

import (
	"context"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

func copyService(s *model.Service) *model.Service {
	c := *s
	if s.EntityID != nil {
		id := *s.EntityID
		c.EntityID = &id
	}
	return &c
}

type serviceRepository struct {
	m *Memory
}

// validate must be called with mu held
func (r *serviceRepository) validate(s *model.Service) error {
	for id, other := range r.m.services {
		if id != s.ID && other.Name == s.Name {
			return goerr.Wrap(model.ErrConflict, "service name already exists", goerr.V(model.NameKey, s.Name))
		}
	}
	if _, ok := r.m.divisions[s.DivisionID]; !ok {
		return goerr.Wrap(model.ErrInvalidReference, "division does not exist",
			goerr.V(model.ReferenceKey, s.DivisionID))
	}
	if s.EntityID != nil {
		if _, ok := r.m.entities[*s.EntityID]; !ok {
			return goerr.Wrap(model.ErrInvalidReference, "entity does not exist",
				goerr.V(model.ReferenceKey, *s.EntityID))
		}
	}
	return nil
}

func (r *serviceRepository) Create(ctx context.Context, s *model.Service) (*model.Service, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	created := copyService(s)
	created.ID = 0
	if err := r.validate(created); err != nil {
		return nil, err
	}

	ts := now()
	created.ID = r.m.allocID("services")
	created.CreatedAt = ts
	created.UpdatedAt = ts
	r.m.services[created.ID] = created
	return copyService(created), nil
}

func (r *serviceRepository) Get(ctx context.Context, id int64) (*model.Service, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	s, ok := r.m.services[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "service not found", goerr.V(model.IDKey, id))
	}
	return copyService(s), nil
}

func (r *serviceRepository) GetByName(ctx context.Context, name string) (*model.Service, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, id := range sortedIDs(r.m.services) {
		if s := r.m.services[id]; s.Name == name {
			return copyService(s), nil
		}
	}
	return nil, nil
}

func (r *serviceRepository) List(ctx context.Context) ([]*model.Service, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]*model.Service, 0, len(r.m.services))
	for _, id := range sortedIDs(r.m.services) {
		out = append(out, copyService(r.m.services[id]))
	}
	return out, nil
}

func (r *serviceRepository) Update(ctx context.Context, s *model.Service) (*model.Service, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.services[s.ID]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "service not found", goerr.V(model.IDKey, s.ID))
	}
	if err := r.validate(s); err != nil {
		return nil, err
	}

	updated := copyService(s)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = now()
	r.m.services[s.ID] = updated
	return copyService(updated), nil
}

func (r *serviceRepository) Delete(ctx context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.services[id]; !ok {
		return goerr.Wrap(model.ErrNotFound, "service not found", goerr.V(model.IDKey, id))
	}
	for _, c := range r.m.cases {
		if c.ServiceID == id {
			return goerr.Wrap(model.ErrProtected, "service is referenced by a case",
				goerr.V(model.IDKey, id), goerr.V(model.ReferenceKey, c.ID))
		}
	}
	delete(r.m.services, id)
	return nil
}
