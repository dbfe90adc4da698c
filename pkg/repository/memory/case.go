package memory

import (
	"context"
	"time"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// copyCase creates a deep copy of a case
func copyCase(c *model.Case) *model.Case {
	copied := *c
	if c.CompletedAt != nil {
		at := *c.CompletedAt
		copied.CompletedAt = &at
	}
	if c.Location != nil {
		loc := *c.Location
		copied.Location = &loc
	}
	return &copied
}

type caseRepository struct {
	m *Memory
}

// validate must be called with mu held
func (r *caseRepository) validate(c *model.Case) error {
	for id, other := range r.m.cases {
		if id == c.ID {
			continue
		}
		if c.ProtocolNumber != "" && other.ProtocolNumber == c.ProtocolNumber {
			return goerr.Wrap(model.ErrConflict, "protocol number already exists",
				goerr.V(model.ProtocolNumberKey, c.ProtocolNumber))
		}
		if c.ExternalID != "" && other.ExternalID == c.ExternalID {
			return goerr.Wrap(model.ErrConflict, "external ID already exists",
				goerr.V(model.ExternalIDKey, c.ExternalID))
		}
	}
	if _, ok := r.m.services[c.ServiceID]; !ok {
		return goerr.Wrap(model.ErrInvalidReference, "service does not exist",
			goerr.V(model.ReferenceKey, c.ServiceID))
	}
	return nil
}

func (r *caseRepository) Create(ctx context.Context, c *model.Case) (*model.Case, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	created := copyCase(c)
	created.ID = 0
	if err := r.validate(created); err != nil {
		return nil, err
	}

	ts := now()
	created.ID = r.m.allocID("cases")
	created.CreatedAt = ts
	created.UpdatedAt = ts
	r.m.cases[created.ID] = created
	return copyCase(created), nil
}

func (r *caseRepository) Get(ctx context.Context, id int64) (*model.Case, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	c, ok := r.m.cases[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "case not found", goerr.V(model.IDKey, id))
	}
	return copyCase(c), nil
}

func (r *caseRepository) find(match func(*model.Case) bool) *model.Case {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, id := range sortedIDs(r.m.cases) {
		if c := r.m.cases[id]; match(c) {
			return copyCase(c)
		}
	}
	return nil
}

func (r *caseRepository) GetByProtocolNumber(ctx context.Context, protocolNumber string) (*model.Case, error) {
	if protocolNumber == "" {
		return nil, nil
	}
	return r.find(func(c *model.Case) bool { return c.ProtocolNumber == protocolNumber }), nil
}

func (r *caseRepository) GetByExternalID(ctx context.Context, externalID string) (*model.Case, error) {
	if externalID == "" {
		return nil, nil
	}
	return r.find(func(c *model.Case) bool { return c.ExternalID == externalID }), nil
}

func (r *caseRepository) List(ctx context.Context) ([]*model.Case, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]*model.Case, 0, len(r.m.cases))
	for _, id := range sortedIDs(r.m.cases) {
		out = append(out, copyCase(r.m.cases[id]))
	}
	return out, nil
}

func (r *caseRepository) Update(ctx context.Context, c *model.Case) (*model.Case, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.cases[c.ID]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "case not found", goerr.V(model.IDKey, c.ID))
	}
	if err := r.validate(c); err != nil {
		return nil, err
	}

	updated := copyCase(c)
	updated.OpenedAt = existing.OpenedAt
	updated.DueDate = existing.DueDate
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = now()
	r.m.cases[c.ID] = updated
	return copyCase(updated), nil
}

func (r *caseRepository) Delete(ctx context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.cases[id]; !ok {
		return goerr.Wrap(model.ErrNotFound, "case not found", goerr.V(model.IDKey, id))
	}
	delete(r.m.cases, id)
	return nil
}

func (r *caseRepository) Complete(ctx context.Context, ids []int64, at time.Time) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	ts := now()
	count := 0
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		c, ok := r.m.cases[id]
		if !ok || c.Status == types.CaseStatusCompleted {
			continue
		}
		completedAt := at
		c.Status = types.CaseStatusCompleted
		c.CompletedAt = &completedAt
		c.UpdatedAt = ts
		count++
	}
	return count, nil
}

func (r *caseRepository) UnassignUser(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, nil
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	ts := now()
	count := 0
	for _, c := range r.m.cases {
		if c.AssigneeID == userID {
			c.AssigneeID = ""
			c.UpdatedAt = ts
			count++
		}
	}
	return count, nil
}
