package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/gea-gov/gea/pkg/usecase"
	"github.com/m-mizutani/gt"
)

type fakeSource struct {
	records []*model.ExternalCase
	err     error
	calls   int
}

func (s *fakeSource) FetchCases(_ context.Context) ([]*model.ExternalCase, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func TestSyncUseCase_Run(t *testing.T) {
	t.Run("creates cases and their services", func(t *testing.T) {
		source := &fakeSource{records: []*model.ExternalCase{
			{ExternalID: "ext-1", ProtocolNumber: "2024/001", Secretariat: "Secretaria de Obras", ServiceName: "Tapa-buraco", Requester: "Ana"},
			{ExternalID: "ext-2", ProtocolNumber: "2024/002", Secretariat: "Secretaria de Obras", ServiceName: "Tapa-buraco", Requester: "Rui", Status: types.CaseStatusInReview},
		}}
		uc, repo, clock := newUseCases(t, usecase.WithCaseSource(source))
		ctx := context.Background()

		report, err := uc.Sync.Run(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, report.Fetched).Equal(2)
		gt.Number(t, report.Created).Equal(2)

		svc, err := repo.Service().GetByName(ctx, "Tapa-buraco")
		gt.NoError(t, err).Required()
		gt.Number(t, svc.MaxResolutionDays).Equal(30)

		c, err := repo.Case().GetByExternalID(ctx, "ext-1")
		gt.NoError(t, err).Required()
		gt.Value(t, c.Status).Equal(types.CaseStatusOpen)
		gt.Value(t, c.DueDate).Equal(model.DueDateFor(clock.Now(), 30))
	})

	t.Run("completed external records are created without a completion stamp", func(t *testing.T) {
		source := &fakeSource{records: []*model.ExternalCase{
			{ExternalID: "ext-9", Secretariat: "Obras", ServiceName: "Poda", Requester: "Lia", Status: types.CaseStatusCompleted},
		}}
		uc, repo, _ := newUseCases(t, usecase.WithCaseSource(source))
		ctx := context.Background()

		_, err := uc.Sync.Run(ctx)
		gt.NoError(t, err).Required()

		c, err := repo.Case().GetByExternalID(ctx, "ext-9")
		gt.NoError(t, err).Required()
		gt.Value(t, c.Status).Equal(types.CaseStatusCompleted)
		gt.Value(t, c.CompletedAt).Nil()
	})

	t.Run("updates existing cases by external id", func(t *testing.T) {
		source := &fakeSource{records: []*model.ExternalCase{
			{ExternalID: "ext-1", ProtocolNumber: "2024/001", Secretariat: "Obras", ServiceName: "Tapa-buraco", Requester: "Ana"},
		}}
		uc, repo, clock := newUseCases(t, usecase.WithCaseSource(source))
		ctx := context.Background()

		_, err := uc.Sync.Run(ctx)
		gt.NoError(t, err).Required()
		first, err := repo.Case().GetByExternalID(ctx, "ext-1")
		gt.NoError(t, err).Required()

		clock.Advance(72 * time.Hour)
		source.records[0].Status = types.CaseStatusPendingInfo
		source.records[0].RequestDetails = "Aguardando foto"

		report, err := uc.Sync.Run(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, report.Updated).Equal(1)
		gt.Number(t, report.Created).Equal(0)

		second, err := repo.Case().GetByExternalID(ctx, "ext-1")
		gt.NoError(t, err).Required()
		gt.Number(t, second.ID).Equal(first.ID)
		gt.Value(t, second.Status).Equal(types.CaseStatusPendingInfo)
		gt.Value(t, second.RequestDetails).Equal("Aguardando foto")
		gt.Value(t, second.DueDate).Equal(first.DueDate)
		gt.Value(t, second.OpenedAt.Equal(first.OpenedAt)).Equal(true)
	})

	t.Run("a bad record does not abort the run", func(t *testing.T) {
		source := &fakeSource{records: []*model.ExternalCase{
			{ExternalID: "ext-1", Secretariat: "Obras", ServiceName: "Tapa-buraco", Requester: "Ana"},
			{ExternalID: "ext-2", Secretariat: "Obras", ServiceName: "", Requester: "Rui"},
			{ExternalID: "ext-3", Secretariat: "Obras", ServiceName: "Tapa-buraco", Requester: "Lia", Status: types.CaseStatus("ARCHIVED")},
			{ExternalID: "ext-4", Secretariat: "Obras", ServiceName: "Tapa-buraco", Requester: "Léo"},
		}}
		uc, _, _ := newUseCases(t, usecase.WithCaseSource(source))

		report, err := uc.Sync.Run(context.Background())
		gt.NoError(t, err).Required()
		gt.Number(t, report.Created).Equal(2)
		gt.Number(t, report.Errored).Equal(2)
		gt.Value(t, report.Records[1].Outcome).Equal(model.SyncOutcomeError)
		gt.Value(t, report.Records[2].Outcome).Equal(model.SyncOutcomeError)
	})

	t.Run("fetch error aborts before any write", func(t *testing.T) {
		source := &fakeSource{err: errors.New("401 unauthorized")}
		uc, repo, _ := newUseCases(t, usecase.WithCaseSource(source))
		ctx := context.Background()

		_, err := uc.Sync.Run(ctx)
		gt.Value(t, err).NotNil()

		cases, err := repo.Case().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, cases).Length(0)
		secretariats, err := repo.Secretariat().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, secretariats).Length(0)
	})

	t.Run("requires a source", func(t *testing.T) {
		uc, _, _ := newUseCases(t)

		gt.Bool(t, uc.Sync.IsConfigured()).False()
		_, err := uc.Sync.Run(context.Background())
		gt.Error(t, err).Is(usecase.ErrSourceNotConfigured)
	})
}

func TestSyncUseCase_Notify(t *testing.T) {
	notifier := newRecordingNotifier()
	source := &fakeSource{}
	uc, _, _ := newUseCases(t, usecase.WithCaseSource(source), usecase.WithNotifier(notifier))

	report, err := uc.Sync.Run(context.Background())
	gt.NoError(t, err).Required()

	select {
	case got := <-notifier.syncs:
		gt.Value(t, got.RunID).Equal(report.RunID)
	case <-time.After(5 * time.Second):
		t.Fatal("sync notification was not sent")
	}
}
