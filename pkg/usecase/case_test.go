package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/gea-gov/gea/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestCaseUseCase_CreateCase(t *testing.T) {
	t.Run("derives due date from the service SLA", func(t *testing.T) {
		uc, _, clock := newUseCases(t)
		_, div := seedHierarchy(t, uc, "Secretaria de Saude", "SMS")
		svc := seedService(t, uc, div.ID, "Vacinação", 10)

		c := openCase(t, uc, svc.ID, "2024-0001")

		gt.Value(t, c.OpenedAt).Equal(clock.Now())
		gt.Value(t, c.DueDate).Equal(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
		gt.Value(t, c.Status).Equal(types.CaseStatusOpen)
		gt.Value(t, c.CompletedAt).Nil()
	})

	t.Run("due date is unaffected by a later SLA change", func(t *testing.T) {
		uc, _, _ := newUseCases(t)
		ctx := context.Background()
		_, div := seedHierarchy(t, uc, "Secretaria de Saude", "SMS")
		svc := seedService(t, uc, div.ID, "Vacinação", 10)
		c := openCase(t, uc, svc.ID, "2024-0001")

		svc.MaxResolutionDays = 2
		_, err := uc.Catalog.UpdateService(ctx, svc)
		gt.NoError(t, err).Required()

		c.Status = types.CaseStatusInReview
		_, err = uc.Case.UpdateCase(ctx, c)
		gt.NoError(t, err).Required()

		got, err := uc.Case.GetCase(ctx, c.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.DueDate).Equal(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
		gt.Value(t, got.Status).Equal(types.CaseStatusInReview)
	})

	t.Run("creating a completed case does not stamp completion", func(t *testing.T) {
		uc, _, _ := newUseCases(t)
		_, div := seedHierarchy(t, uc, "Secretaria de Saude", "SMS")
		svc := seedService(t, uc, div.ID, "Vacinação", 10)

		c, err := uc.Case.CreateCase(context.Background(), &model.Case{
			ServiceID: svc.ID,
			Requester: "João",
			Status:    types.CaseStatusCompleted,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, c.Status).Equal(types.CaseStatusCompleted)
		gt.Value(t, c.CompletedAt).Nil()
	})

	t.Run("unknown service is an invalid reference", func(t *testing.T) {
		uc, _, _ := newUseCases(t)

		_, err := uc.Case.CreateCase(context.Background(), &model.Case{ServiceID: 999, Requester: "João"})
		gt.Error(t, err).Is(model.ErrInvalidReference)
	})

	t.Run("missing requester fails validation", func(t *testing.T) {
		uc, _, _ := newUseCases(t)
		_, div := seedHierarchy(t, uc, "Secretaria de Saude", "SMS")
		svc := seedService(t, uc, div.ID, "Vacinação", 10)

		_, err := uc.Case.CreateCase(context.Background(), &model.Case{ServiceID: svc.ID})
		gt.Error(t, err).Is(model.ErrValidation)
	})

	t.Run("duplicate protocol number conflicts", func(t *testing.T) {
		uc, _, _ := newUseCases(t)
		_, div := seedHierarchy(t, uc, "Secretaria de Saude", "SMS")
		svc := seedService(t, uc, div.ID, "Vacinação", 10)
		openCase(t, uc, svc.ID, "2024-0001")

		_, err := uc.Case.CreateCase(context.Background(), &model.Case{
			ServiceID:      svc.ID,
			ProtocolNumber: "2024-0001",
			Requester:      "João",
		})
		gt.Error(t, err).Is(model.ErrConflict)
	})
}

func TestCaseUseCase_UpdateCase(t *testing.T) {
	t.Run("opened and due dates cannot be changed", func(t *testing.T) {
		uc, _, _ := newUseCases(t)
		ctx := context.Background()
		_, div := seedHierarchy(t, uc, "Secretaria de Obras", "SMO")
		svc := seedService(t, uc, div.ID, "Tapa-buraco", 15)
		c := openCase(t, uc, svc.ID, "")

		input := *c
		input.OpenedAt = c.OpenedAt.AddDate(-1, 0, 0)
		input.DueDate = c.DueDate.AddDate(1, 0, 0)
		input.Requester = "Ana"
		input.Status = types.CaseStatusCancelled

		updated, err := uc.Case.UpdateCase(ctx, &input)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.OpenedAt).Equal(c.OpenedAt)
		gt.Value(t, updated.DueDate).Equal(c.DueDate)
		gt.Value(t, updated.Requester).Equal("Ana")
		gt.Value(t, updated.Status).Equal(types.CaseStatusCancelled)
	})

	t.Run("any status may follow any other", func(t *testing.T) {
		uc, _, _ := newUseCases(t)
		ctx := context.Background()
		_, div := seedHierarchy(t, uc, "Secretaria de Obras", "SMO")
		svc := seedService(t, uc, div.ID, "Tapa-buraco", 15)
		c := openCase(t, uc, svc.ID, "")

		for _, status := range []types.CaseStatus{
			types.CaseStatusCancelled,
			types.CaseStatusOpen,
			types.CaseStatusPendingInfo,
			types.CaseStatusInReview,
		} {
			c.Status = status
			updated, err := uc.Case.UpdateCase(ctx, c)
			gt.NoError(t, err).Required()
			gt.Value(t, updated.Status).Equal(status)
		}
	})

	t.Run("unknown case is not found", func(t *testing.T) {
		uc, _, _ := newUseCases(t)
		_, div := seedHierarchy(t, uc, "Secretaria de Obras", "SMO")
		svc := seedService(t, uc, div.ID, "Tapa-buraco", 15)

		_, err := uc.Case.UpdateCase(context.Background(), &model.Case{ID: 42, ServiceID: svc.ID, Requester: "Ana"})
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}

func TestCaseUseCase_CompleteCases(t *testing.T) {
	uc, _, clock := newUseCases(t)
	ctx := context.Background()
	_, div := seedHierarchy(t, uc, "Secretaria de Obras", "SMO")
	svc := seedService(t, uc, div.ID, "Tapa-buraco", 15)
	c1 := openCase(t, uc, svc.ID, "P-1")
	c2 := openCase(t, uc, svc.ID, "P-2")
	c3 := openCase(t, uc, svc.ID, "P-3")

	clock.Advance(48 * time.Hour)
	completedAt := clock.Now()

	n, err := uc.Case.CompleteCases(ctx, []int64{c1.ID, c2.ID, 9999})
	gt.NoError(t, err).Required()
	gt.Number(t, n).Equal(2)

	clock.Advance(24 * time.Hour)

	n, err = uc.Case.CompleteCases(ctx, []int64{c1.ID, c2.ID})
	gt.NoError(t, err).Required()
	gt.Number(t, n).Equal(0)

	got, err := uc.Case.GetCase(ctx, c1.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Status).Equal(types.CaseStatusCompleted)
	gt.Value(t, got.CompletedAt).NotNil()
	gt.Value(t, got.CompletedAt.Equal(completedAt)).Equal(true)

	untouched, err := uc.Case.GetCase(ctx, c3.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, untouched.Status).Equal(types.CaseStatusOpen)

	n, err = uc.Case.CompleteCases(ctx, nil)
	gt.NoError(t, err)
	gt.Number(t, n).Equal(0)
}

func TestCaseUseCase_DaysOpen(t *testing.T) {
	uc, _, clock := newUseCases(t)
	ctx := context.Background()
	_, div := seedHierarchy(t, uc, "Secretaria de Obras", "SMO")
	svc := seedService(t, uc, div.ID, "Tapa-buraco", 15)
	c := openCase(t, uc, svc.ID, "")

	clock.Advance(3*24*time.Hour + 2*time.Hour)
	days, ok := uc.Case.DaysOpen(c)
	gt.Bool(t, ok).True()
	gt.Number(t, days).Equal(3)

	_, err := uc.Case.CompleteCases(ctx, []int64{c.ID})
	gt.NoError(t, err).Required()
	completed, err := uc.Case.GetCase(ctx, c.ID)
	gt.NoError(t, err).Required()

	_, ok = uc.Case.DaysOpen(completed)
	gt.Bool(t, ok).False()
}

func TestCaseUseCase_UnassignUser(t *testing.T) {
	uc, _, _ := newUseCases(t)
	ctx := context.Background()
	_, div := seedHierarchy(t, uc, "Secretaria de Obras", "SMO")
	svc := seedService(t, uc, div.ID, "Tapa-buraco", 15)

	for _, assignee := range []string{"U1", "U1", "U2"} {
		_, err := uc.Case.CreateCase(ctx, &model.Case{
			ServiceID:  svc.ID,
			Requester:  "Ana",
			AssigneeID: assignee,
		})
		gt.NoError(t, err).Required()
	}

	n, err := uc.Case.UnassignUser(ctx, "U1")
	gt.NoError(t, err).Required()
	gt.Number(t, n).Equal(2)

	cases, err := uc.Case.ListCases(ctx, model.ListQuery{})
	gt.NoError(t, err).Required()
	gt.Array(t, cases).Length(3)
	gt.Value(t, cases[0].AssigneeID).Equal("")
	gt.Value(t, cases[1].AssigneeID).Equal("")
	gt.Value(t, cases[2].AssigneeID).Equal("U2")

	_, err = uc.Case.UnassignUser(ctx, " ")
	gt.Error(t, err).Is(model.ErrValidation)
}

func TestCaseUseCase_ListCases(t *testing.T) {
	uc, _, clock := newUseCases(t)
	ctx := context.Background()
	health, healthDiv := seedHierarchy(t, uc, "Secretaria de Saude", "SMS")
	_, worksDiv := seedHierarchy(t, uc, "Secretaria de Obras", "SMO")
	vaccine := seedService(t, uc, healthDiv.ID, "Vacinação", 1)
	pothole := seedService(t, uc, worksDiv.ID, "Tapa-buraco", 60)

	early := openCase(t, uc, vaccine.ID, "A-100")
	clock.Advance(5 * 24 * time.Hour)
	late := openCase(t, uc, pothole.ID, "B-200")

	late.Status = types.CaseStatusPendingInfo
	_, err := uc.Case.UpdateCase(ctx, late)
	gt.NoError(t, err).Required()

	list := func(q model.ListQuery) []int64 {
		t.Helper()
		cases, err := uc.Case.ListCases(ctx, q)
		gt.NoError(t, err).Required()
		ids := make([]int64, 0, len(cases))
		for _, c := range cases {
			ids = append(ids, c.ID)
		}
		return ids
	}
	filter := func(key, value string) model.ListQuery {
		return model.ListQuery{Filters: map[string]string{key: value}}
	}

	gt.Array(t, list(model.ListQuery{})).Equal([]int64{early.ID, late.ID})
	gt.Array(t, list(model.ListQuery{Search: "b-2"})).Equal([]int64{late.ID})
	gt.Array(t, list(filter(model.FilterStatus, "pending_info"))).Equal([]int64{late.ID})
	gt.Array(t, list(filter(model.FilterDue, model.DueOverdue))).Equal([]int64{early.ID})
	gt.Array(t, list(filter(model.FilterSecretariat, itoa(health.ID)))).Equal([]int64{early.ID})
	gt.Array(t, list(filter(model.FilterDivision, itoa(worksDiv.ID)))).Equal([]int64{late.ID})
	gt.Array(t, list(filter(model.FilterService, itoa(vaccine.ID)))).Equal([]int64{early.ID})

	t.Run("invalid filters are rejected", func(t *testing.T) {
		for _, q := range []model.ListQuery{
			filter(model.FilterStatus, "ARCHIVED"),
			filter(model.FilterDue, "decade"),
			filter(model.FilterService, "abc"),
			filter(model.FilterEntity, "1"),
		} {
			_, err := uc.Case.ListCases(ctx, q)
			gt.Error(t, err).Is(model.ErrValidation)
		}
	})
}

func TestDueWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	open := func(due time.Time) *model.Case {
		return &model.Case{Status: types.CaseStatusOpen, DueDate: due}
	}

	tests := []struct {
		window string
		c      *model.Case
		want   bool
	}{
		{model.DueOverdue, open(day(2024, 3, 9)), true},
		{model.DueOverdue, open(day(2024, 3, 10)), false},
		{model.DueOverdue, &model.Case{Status: types.CaseStatusCompleted, DueDate: day(2024, 3, 1)}, false},
		{model.DueToday, open(day(2024, 3, 10)), true},
		{model.DueToday, open(day(2024, 3, 11)), false},
		{model.DueWeek, open(day(2024, 3, 17)), true},
		{model.DueWeek, open(day(2024, 3, 18)), false},
		{model.DueWeek, open(day(2024, 3, 9)), false},
		{model.DueMonth, open(day(2024, 3, 31)), true},
		{model.DueMonth, open(day(2024, 4, 1)), false},
		{model.DueYear, open(day(2024, 12, 31)), true},
		{model.DueYear, open(day(2025, 1, 1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.window+"/"+tt.c.DueDate.Format(time.DateOnly), func(t *testing.T) {
			pred, err := usecase.DueWindow(tt.window, now)
			gt.NoError(t, err).Required()
			gt.Value(t, pred(tt.c)).Equal(tt.want)
		})
	}

	_, err := usecase.DueWindow("fortnight", now)
	gt.Error(t, err).Is(model.ErrValidation)
}
