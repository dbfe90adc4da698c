package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/gea-gov/gea/pkg/domain/interfaces"
	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/model/config"
	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/gea-gov/gea/pkg/utils/async"
	"github.com/gea-gov/gea/pkg/utils/logging"
	"github.com/gea-gov/gea/pkg/utils/metrics"
	"github.com/m-mizutani/goerr/v2"
)

const reasonMissingField = "missing field"

type ImportUseCase struct {
	repo     interfaces.Repository
	resolver *hierarchyResolver
	catalog  config.CatalogConfig
	notifier interfaces.Notifier
	clock    func() time.Time
}

func NewImportUseCase(repo interfaces.Repository, catalog config.CatalogConfig, notifier interfaces.Notifier, clock func() time.Time) *ImportUseCase {
	return &ImportUseCase{
		repo:     repo,
		resolver: &hierarchyResolver{repo: repo, catalog: catalog},
		catalog:  catalog,
		notifier: notifier,
		clock:    clock,
	}
}

// Import upserts catalog services from rows, keyed by title. A failing row is
// recorded in the report and the run continues with the next one. Running the same
// rows twice leaves the store unchanged.
func (uc *ImportUseCase) Import(ctx context.Context, layout types.ImportLayout, source string, rows []model.ImportRow) (*model.ImportReport, error) {
	if !layout.IsValid() {
		return nil, goerr.Wrap(model.ErrValidation, "invalid import layout", goerr.V("layout", layout))
	}

	report := model.NewImportReport(layout, source, uc.clock())
	logger := logging.From(ctx).With("run_id", report.RunID, "layout", layout.String())
	ctx = logging.With(ctx, logger)
	logger.Info("import started", "source", source, "rows", len(rows))

	for _, row := range rows {
		result := uc.importRow(ctx, layout, row)
		report.Add(result)
		metrics.RecordImportRow(layout.String(), string(result.Outcome))
	}
	report.FinishedAt = uc.clock()

	logger.Info("import finished",
		"created", report.Created,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"errored", report.Errored,
	)

	if uc.notifier != nil {
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.notifier.NotifyImport(ctx, report)
		})
	}
	return report, nil
}

func (uc *ImportUseCase) importRow(ctx context.Context, layout types.ImportLayout, row model.ImportRow) model.ImportRowResult {
	title := strings.TrimSpace(row.Title)
	result := model.ImportRowResult{Line: row.Line, Title: title}

	if title == "" || strings.TrimSpace(row.Secretariat) == "" {
		result.Outcome = model.ImportOutcomeSkipped
		result.Reason = reasonMissingField
		return result
	}

	outcome, err := uc.upsertService(ctx, layout, title, row)
	if err != nil {
		logging.From(ctx).Warn("import row failed",
			LineKey, row.Line,
			TitleKey, title,
			"error", err.Error(),
		)
		result.Outcome = model.ImportOutcomeError
		result.Reason = err.Error()
		return result
	}
	result.Outcome = outcome
	return result
}

func (uc *ImportUseCase) upsertService(ctx context.Context, layout types.ImportLayout, title string, row model.ImportRow) (model.ImportOutcome, error) {
	var entityID *int64
	if layout == types.ImportLayoutFull {
		entity, err := uc.resolver.entity(ctx, row.Entity)
		if err != nil {
			return "", err
		}
		if entity != nil {
			entityID = &entity.ID
		}
	}

	division, err := uc.resolver.division(ctx, row.Secretariat)
	if err != nil {
		return "", err
	}

	sla := row.MaxResolutionDays
	if sla <= 0 {
		sla = uc.catalog.DefaultResolutionDays
	}

	existing, err := uc.repo.Service().GetByName(ctx, title)
	if err != nil {
		return "", goerr.Wrap(err, "failed to look up service", goerr.V(model.NameKey, title))
	}

	if existing == nil {
		svc := &model.Service{
			Name:              title,
			DivisionID:        division.ID,
			MaxResolutionDays: sla,
			EntityID:          entityID,
		}
		if row.Metadata != nil {
			svc.ServiceMetadata = *row.Metadata
		}
		if err := svc.Validate(); err != nil {
			return "", err
		}
		if _, err := uc.repo.Service().Create(ctx, svc); err != nil {
			return "", goerr.Wrap(err, "failed to create service", goerr.V(model.NameKey, title))
		}
		return model.ImportOutcomeCreated, nil
	}

	existing.DivisionID = division.ID
	existing.MaxResolutionDays = sla
	if layout == types.ImportLayoutFull {
		existing.EntityID = entityID
		existing.ServiceMetadata = model.ServiceMetadata{}
		if row.Metadata != nil {
			existing.ServiceMetadata = *row.Metadata
		}
	}
	if err := existing.Validate(); err != nil {
		return "", err
	}
	if _, err := uc.repo.Service().Update(ctx, existing); err != nil {
		return "", goerr.Wrap(err, "failed to update service", goerr.V(ServiceIDKey, existing.ID))
	}
	return model.ImportOutcomeUpdated, nil
}
