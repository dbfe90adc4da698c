package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/gea-gov/gea/pkg/domain/interfaces"
	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/model/config"
	"github.com/gea-gov/gea/pkg/utils/async"
	"github.com/gea-gov/gea/pkg/utils/errutil"
	"github.com/gea-gov/gea/pkg/utils/logging"
	"github.com/gea-gov/gea/pkg/utils/metrics"
	"github.com/m-mizutani/goerr/v2"
)

type SyncUseCase struct {
	repo     interfaces.Repository
	source   interfaces.CaseSource
	resolver *hierarchyResolver
	catalog  config.CatalogConfig
	notifier interfaces.Notifier
	clock    func() time.Time
}

func NewSyncUseCase(repo interfaces.Repository, source interfaces.CaseSource, catalog config.CatalogConfig, notifier interfaces.Notifier, clock func() time.Time) *SyncUseCase {
	return &SyncUseCase{
		repo:     repo,
		source:   source,
		resolver: &hierarchyResolver{repo: repo, catalog: catalog},
		catalog:  catalog,
		notifier: notifier,
		clock:    clock,
	}
}

// IsConfigured reports whether an external case source is available
func (uc *SyncUseCase) IsConfigured() bool {
	return uc.source != nil
}

// Run pulls all case records from the external system and upserts them by external
// ID. A fetch failure aborts the run before any record is written; a failing record
// is reported and skipped.
func (uc *SyncUseCase) Run(ctx context.Context) (*model.SyncReport, error) {
	if uc.source == nil {
		return nil, goerr.Wrap(ErrSourceNotConfigured, "cannot run case sync")
	}

	report := model.NewSyncReport(uc.clock())
	logger := logging.From(ctx).With("run_id", report.RunID)
	ctx = logging.With(ctx, logger)

	records, err := uc.source.FetchCases(ctx)
	if err != nil {
		metrics.RecordSyncRun(false)
		return nil, goerr.Wrap(err, "failed to fetch external cases", goerr.V(RunIDKey, report.RunID))
	}
	report.Fetched = len(records)
	logger.Info("case sync started", "fetched", len(records))

	for _, rec := range records {
		if rec == nil {
			continue
		}
		result := uc.syncRecord(ctx, rec)
		report.Add(result)
		metrics.RecordSyncRecord(string(result.Outcome))
	}
	report.FinishedAt = uc.clock()
	metrics.RecordSyncRun(true)

	logger.Info("case sync finished",
		"created", report.Created,
		"updated", report.Updated,
		"errored", report.Errored,
	)

	if uc.notifier != nil {
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.notifier.NotifySync(ctx, report)
		})
	}
	return report, nil
}

func (uc *SyncUseCase) syncRecord(ctx context.Context, rec *model.ExternalCase) model.SyncRecordResult {
	result := model.SyncRecordResult{ExternalID: strings.TrimSpace(rec.ExternalID)}

	outcome, err := uc.upsertCase(ctx, rec)
	if err != nil {
		errutil.Handle(ctx, err, "failed to sync external case")
		result.Outcome = model.SyncOutcomeError
		result.Reason = err.Error()
		return result
	}
	result.Outcome = outcome
	return result
}

func (uc *SyncUseCase) upsertCase(ctx context.Context, rec *model.ExternalCase) (model.SyncOutcome, error) {
	externalID := strings.TrimSpace(rec.ExternalID)
	serviceName := strings.TrimSpace(rec.ServiceName)
	if externalID == "" {
		return "", goerr.Wrap(model.ErrValidation, "external case has no id")
	}
	if serviceName == "" || strings.TrimSpace(rec.Secretariat) == "" {
		return "", goerr.Wrap(model.ErrValidation, "external case has no service or secretariat",
			goerr.V(model.ExternalIDKey, externalID))
	}

	status := rec.Status.Normalize()

	existing, err := uc.repo.Case().GetByExternalID(ctx, externalID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to look up case", goerr.V(model.ExternalIDKey, externalID))
	}

	if existing != nil {
		existing.ProtocolNumber = strings.TrimSpace(rec.ProtocolNumber)
		existing.Requester = strings.TrimSpace(rec.Requester)
		existing.Status = status
		existing.RequestDetails = rec.RequestDetails
		if err := existing.Validate(); err != nil {
			return "", goerr.Wrap(err, "invalid external case", goerr.V(model.ExternalIDKey, externalID))
		}
		if _, err := uc.repo.Case().Update(ctx, existing); err != nil {
			return "", goerr.Wrap(err, "failed to update case",
				goerr.V(CaseIDKey, existing.ID), goerr.V(model.ExternalIDKey, externalID))
		}
		return model.SyncOutcomeUpdated, nil
	}

	division, err := uc.resolver.division(ctx, rec.Secretariat)
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve hierarchy", goerr.V(model.ExternalIDKey, externalID))
	}

	svc, _, err := getOrCreate(ctx,
		func(ctx context.Context) (*model.Service, error) {
			return uc.repo.Service().GetByName(ctx, serviceName)
		},
		func(ctx context.Context) (*model.Service, error) {
			return uc.repo.Service().Create(ctx, &model.Service{
				Name:              serviceName,
				DivisionID:        division.ID,
				MaxResolutionDays: uc.catalog.DefaultResolutionDays,
			})
		})
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve service",
			goerr.V(model.NameKey, serviceName), goerr.V(model.ExternalIDKey, externalID))
	}

	now := uc.clock()
	c := &model.Case{
		ExternalID:     externalID,
		ProtocolNumber: strings.TrimSpace(rec.ProtocolNumber),
		ServiceID:      svc.ID,
		Requester:      strings.TrimSpace(rec.Requester),
		Status:         status,
		RequestDetails: rec.RequestDetails,
		OpenedAt:       now,
		DueDate:        model.DueDateFor(now, svc.MaxResolutionDays),
	}
	if err := c.Validate(); err != nil {
		return "", goerr.Wrap(err, "invalid external case", goerr.V(model.ExternalIDKey, externalID))
	}
	if _, err := uc.repo.Case().Create(ctx, c); err != nil {
		return "", goerr.Wrap(err, "failed to create case", goerr.V(model.ExternalIDKey, externalID))
	}
	return model.SyncOutcomeCreated, nil
}
