package usecase

import (
	"context"
	"strings"

	"github.com/gea-gov/gea/pkg/domain/interfaces"
	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/model/config"
	"github.com/m-mizutani/goerr/v2"
)

type CatalogUseCase struct {
	repo    interfaces.Repository
	catalog config.CatalogConfig
}

func NewCatalogUseCase(repo interfaces.Repository, catalog config.CatalogConfig) *CatalogUseCase {
	return &CatalogUseCase{repo: repo, catalog: catalog}
}

// CreateService stores a catalog entry. A zero MaxResolutionDays takes the configured default.
func (uc *CatalogUseCase) CreateService(ctx context.Context, s *model.Service) (*model.Service, error) {
	uc.normalize(s)
	if err := s.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.repo.Service().Create(ctx, s)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create service", goerr.V(model.NameKey, s.Name))
	}
	return created, nil
}

func (uc *CatalogUseCase) GetService(ctx context.Context, id int64) (*model.Service, error) {
	s, err := uc.repo.Service().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get service", goerr.V(ServiceIDKey, id))
	}
	return s, nil
}

func (uc *CatalogUseCase) ListServices(ctx context.Context, q model.ListQuery) ([]*model.Service, error) {
	if err := checkFilters(model.ResourceServices, q); err != nil {
		return nil, err
	}
	divisionID, byDivision, err := idFilter(q, model.FilterDivision)
	if err != nil {
		return nil, err
	}
	secretariatID, bySecretariat, err := idFilter(q, model.FilterSecretariat)
	if err != nil {
		return nil, err
	}
	entityID, byEntity, err := idFilter(q, model.FilterEntity)
	if err != nil {
		return nil, err
	}

	var idx *hierarchyIndex
	if bySecretariat {
		if idx, err = loadHierarchyIndex(ctx, uc.repo, false); err != nil {
			return nil, err
		}
	}

	services, err := uc.repo.Service().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list services")
	}

	out := make([]*model.Service, 0, len(services))
	for _, s := range services {
		if byDivision && s.DivisionID != divisionID {
			continue
		}
		if byEntity && (s.EntityID == nil || *s.EntityID != entityID) {
			continue
		}
		if bySecretariat {
			sec := idx.secretariatOfDivision(s.DivisionID)
			if sec == nil || sec.ID != secretariatID {
				continue
			}
		}
		if q.Matches(s.Name, s.Description) {
			out = append(out, s)
		}
	}
	return out, nil
}

// UpdateService overwrites a catalog entry. Cases already opened keep their due date.
func (uc *CatalogUseCase) UpdateService(ctx context.Context, s *model.Service) (*model.Service, error) {
	uc.normalize(s)
	if err := s.Validate(); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Service().Update(ctx, s)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update service", goerr.V(ServiceIDKey, s.ID))
	}
	return updated, nil
}

func (uc *CatalogUseCase) DeleteService(ctx context.Context, id int64) error {
	if err := uc.repo.Service().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete service", goerr.V(ServiceIDKey, id))
	}
	return nil
}

func (uc *CatalogUseCase) normalize(s *model.Service) {
	s.Name = strings.TrimSpace(s.Name)
	if s.MaxResolutionDays == 0 {
		s.MaxResolutionDays = uc.catalog.DefaultResolutionDays
	}
}
