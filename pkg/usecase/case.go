package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gea-gov/gea/pkg/domain/interfaces"
	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/gea-gov/gea/pkg/utils/logging"
	"github.com/gea-gov/gea/pkg/utils/metrics"
	"github.com/m-mizutani/goerr/v2"
)

type CaseUseCase struct {
	repo  interfaces.Repository
	clock func() time.Time
}

func NewCaseUseCase(repo interfaces.Repository, clock func() time.Time) *CaseUseCase {
	return &CaseUseCase{repo: repo, clock: clock}
}

// CreateCase opens a case. OpenedAt is now and the due date is derived from the
// service SLA at this moment; both are fixed for the life of the case.
func (uc *CaseUseCase) CreateCase(ctx context.Context, c *model.Case) (*model.Case, error) {
	uc.normalize(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	svc, err := uc.repo.Service().Get(ctx, c.ServiceID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(model.ErrInvalidReference, "case service does not exist",
				goerr.V(ServiceIDKey, c.ServiceID))
		}
		return nil, goerr.Wrap(err, "failed to get service", goerr.V(ServiceIDKey, c.ServiceID))
	}

	now := uc.clock()
	c.OpenedAt = now
	c.DueDate = model.DueDateFor(now, svc.MaxResolutionDays)

	created, err := uc.repo.Case().Create(ctx, c)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create case",
			goerr.V(ServiceIDKey, c.ServiceID), goerr.V(model.ProtocolNumberKey, c.ProtocolNumber))
	}

	logging.From(ctx).Info("case opened",
		"case_id", created.ID,
		"service_id", created.ServiceID,
		"due_date", created.DueDate.Format(time.DateOnly),
	)
	return created, nil
}

func (uc *CaseUseCase) GetCase(ctx context.Context, id int64) (*model.Case, error) {
	c, err := uc.repo.Case().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, id))
	}
	return c, nil
}

// UpdateCase overwrites the mutable fields of a case. Any status may follow any other.
func (uc *CaseUseCase) UpdateCase(ctx context.Context, c *model.Case) (*model.Case, error) {
	uc.normalize(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	current, err := uc.repo.Case().Get(ctx, c.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, c.ID))
	}
	if c.ServiceID != current.ServiceID {
		if _, err := uc.repo.Service().Get(ctx, c.ServiceID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, goerr.Wrap(model.ErrInvalidReference, "case service does not exist",
					goerr.V(CaseIDKey, c.ID), goerr.V(ServiceIDKey, c.ServiceID))
			}
			return nil, goerr.Wrap(err, "failed to get service", goerr.V(ServiceIDKey, c.ServiceID))
		}
	}

	c.OpenedAt = current.OpenedAt
	c.DueDate = current.DueDate
	if c.CompletedAt == nil {
		c.CompletedAt = current.CompletedAt
	}

	updated, err := uc.repo.Case().Update(ctx, c)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update case", goerr.V(CaseIDKey, c.ID))
	}
	return updated, nil
}

func (uc *CaseUseCase) DeleteCase(ctx context.Context, id int64) error {
	if err := uc.repo.Case().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete case", goerr.V(CaseIDKey, id))
	}
	return nil
}

// ListCases returns the cases matching the search term and the declared filters
func (uc *CaseUseCase) ListCases(ctx context.Context, q model.ListQuery) ([]*model.Case, error) {
	if err := checkFilters(model.ResourceCases, q); err != nil {
		return nil, err
	}

	match, err := uc.caseMatcher(ctx, q)
	if err != nil {
		return nil, err
	}

	cases, err := uc.repo.Case().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases")
	}

	out := make([]*model.Case, 0, len(cases))
	for _, c := range cases {
		if match(c) && q.Matches(c.ProtocolNumber, c.Requester) {
			out = append(out, c)
		}
	}
	return out, nil
}

// CompleteCases marks the given cases COMPLETED in one store transaction. Cases
// already completed and unknown IDs are left alone. Returns the number transitioned.
func (uc *CaseUseCase) CompleteCases(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	n, err := uc.repo.Case().Complete(ctx, ids, uc.clock())
	if err != nil {
		return 0, goerr.Wrap(err, "failed to complete cases", goerr.V("count", len(ids)))
	}
	metrics.RecordCasesCompleted(n)

	logging.From(ctx).Info("cases completed", "requested", len(ids), "completed", n)
	return n, nil
}

// UnassignUser clears the assignee on every case held by userID
func (uc *CaseUseCase) UnassignUser(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, goerr.Wrap(model.ErrValidation, "user id is required")
	}

	n, err := uc.repo.Case().UnassignUser(ctx, userID)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to unassign user", goerr.V("user_id", userID))
	}
	return n, nil
}

// DaysOpen reports the whole days a case has been open; ok is false for completed cases
func (uc *CaseUseCase) DaysOpen(c *model.Case) (int, bool) {
	return c.DaysOpen(uc.clock())
}

func (uc *CaseUseCase) normalize(c *model.Case) {
	c.Status = c.Status.Normalize()
	c.ProtocolNumber = strings.TrimSpace(c.ProtocolNumber)
	c.ExternalID = strings.TrimSpace(c.ExternalID)
	c.Requester = strings.TrimSpace(c.Requester)
}

func (uc *CaseUseCase) caseMatcher(ctx context.Context, q model.ListQuery) (func(*model.Case) bool, error) {
	var preds []func(*model.Case) bool

	if raw := q.Filter(model.FilterStatus); raw != "" {
		status, err := types.ParseCaseStatus(strings.ToUpper(raw))
		if err != nil {
			return nil, goerr.Wrap(model.ErrValidation, "invalid status filter", goerr.V(FilterKey, raw))
		}
		preds = append(preds, func(c *model.Case) bool { return c.Status == status })
	}

	if raw := q.Filter(model.FilterDue); raw != "" {
		pred, err := dueWindow(raw, uc.clock())
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}

	if id, ok, err := idFilter(q, model.FilterService); err != nil {
		return nil, err
	} else if ok {
		preds = append(preds, func(c *model.Case) bool { return c.ServiceID == id })
	}

	divisionID, byDivision, err := idFilter(q, model.FilterDivision)
	if err != nil {
		return nil, err
	}
	secretariatID, bySecretariat, err := idFilter(q, model.FilterSecretariat)
	if err != nil {
		return nil, err
	}
	if byDivision || bySecretariat {
		idx, err := loadHierarchyIndex(ctx, uc.repo, true)
		if err != nil {
			return nil, err
		}
		if byDivision {
			preds = append(preds, func(c *model.Case) bool {
				s, ok := idx.services[c.ServiceID]
				return ok && s.DivisionID == divisionID
			})
		}
		if bySecretariat {
			preds = append(preds, func(c *model.Case) bool {
				s := idx.secretariatOfService(c.ServiceID)
				return s != nil && s.ID == secretariatID
			})
		}
	}

	return func(c *model.Case) bool {
		for _, p := range preds {
			if !p(c) {
				return false
			}
		}
		return true
	}, nil
}

// dueWindow builds the predicate of a due filter value relative to now
func dueWindow(value string, now time.Time) (func(*model.Case) bool, error) {
	today := model.DateOf(now)

	switch strings.ToLower(value) {
	case model.DueOverdue:
		return func(c *model.Case) bool { return c.IsOverdue(today) }, nil
	case model.DueToday:
		return func(c *model.Case) bool { return c.DueDate.Equal(today) }, nil
	case model.DueWeek:
		end := today.AddDate(0, 0, 7)
		return func(c *model.Case) bool {
			return !c.DueDate.Before(today) && !c.DueDate.After(end)
		}, nil
	case model.DueMonth:
		return func(c *model.Case) bool {
			return c.DueDate.Year() == today.Year() && c.DueDate.Month() == today.Month()
		}, nil
	case model.DueYear:
		return func(c *model.Case) bool { return c.DueDate.Year() == today.Year() }, nil
	default:
		return nil, goerr.Wrap(model.ErrValidation, "invalid due filter", goerr.V(FilterKey, value))
	}
}

// IsOverdue reports whether an open case is past its due date today
func (uc *CaseUseCase) IsOverdue(c *model.Case) bool {
	return c.IsOverdue(uc.clock())
}
