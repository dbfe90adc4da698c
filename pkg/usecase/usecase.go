package usecase

import (
	"time"

	"github.com/gea-gov/gea/pkg/domain/interfaces"
	"github.com/gea-gov/gea/pkg/domain/model/config"
)

type UseCases struct {
	repo     interfaces.Repository
	config   *config.AppConfig
	clock    func() time.Time
	notifier interfaces.Notifier
	source   interfaces.CaseSource

	Hierarchy *HierarchyUseCase
	Catalog   *CatalogUseCase
	Case      *CaseUseCase
	Import    *ImportUseCase
	Dashboard *DashboardUseCase
	Sync      *SyncUseCase
}

type Option func(*UseCases)

func WithConfig(cfg *config.AppConfig) Option {
	return func(uc *UseCases) {
		uc.config = cfg
	}
}

// WithClock replaces the wall clock used for case dates and dashboards
func WithClock(clock func() time.Time) Option {
	return func(uc *UseCases) {
		uc.clock = clock
	}
}

func WithNotifier(notifier interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

func WithCaseSource(source interfaces.CaseSource) Option {
	return func(uc *UseCases) {
		uc.source = source
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:   repo,
		config: config.Default(),
		clock:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Hierarchy = NewHierarchyUseCase(repo)
	uc.Catalog = NewCatalogUseCase(repo, uc.config.Catalog)
	uc.Case = NewCaseUseCase(repo, uc.clock)
	uc.Import = NewImportUseCase(repo, uc.config.Catalog, uc.notifier, uc.clock)
	uc.Dashboard = NewDashboardUseCase(repo, uc.config.Dashboard, uc.config.Analytics, uc.clock)
	uc.Sync = NewSyncUseCase(repo, uc.source, uc.config.Catalog, uc.notifier, uc.clock)

	return uc
}
