package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gea-gov/gea/pkg/domain/interfaces"
	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/model/config"
	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type DashboardUseCase struct {
	repo       interfaces.Repository
	dashboard  config.DashboardConfig
	analytics  config.AnalyticsConfig
	classifier *model.ChannelClassifier
	clock      func() time.Time
}

func NewDashboardUseCase(repo interfaces.Repository, dashboard config.DashboardConfig, analytics config.AnalyticsConfig, clock func() time.Time) *DashboardUseCase {
	return &DashboardUseCase{
		repo:       repo,
		dashboard:  dashboard,
		analytics:  analytics,
		classifier: model.NewChannelClassifier(analytics.ManualChannels),
		clock:      clock,
	}
}

// Operational builds the case KPIs shown on the main dashboard
func (uc *DashboardUseCase) Operational(ctx context.Context) (*model.OperationalDashboard, error) {
	idx, err := loadHierarchyIndex(ctx, uc.repo, true)
	if err != nil {
		return nil, err
	}
	cases, err := uc.repo.Case().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases")
	}

	now := uc.clock()
	today := model.DateOf(now)
	criticalEnd := today.AddDate(0, 0, uc.dashboard.CriticalWindowDays)

	result := &model.OperationalDashboard{
		GeneratedAt:    now,
		ByStatus:       model.Series{Labels: []string{}, Data: []int{}},
		CriticalCases:  []model.CaseSummary{},
		RecentActivity: []model.CaseSummary{},
	}

	byStatus := map[types.CaseStatus]int{}
	load := newCounter()
	var critical []*model.Case

	for _, c := range cases {
		status := c.Status.Normalize()
		if !status.IsOpen() {
			continue
		}
		result.TotalOpen++
		if c.IsOverdue(today) {
			result.TotalOverdue++
		}
		byStatus[status]++

		if s := idx.secretariatOfService(c.ServiceID); s != nil {
			load.add(s.Acronym)
		}
		if !c.DueDate.Before(today) && !c.DueDate.After(criticalEnd) {
			critical = append(critical, c)
		}
	}

	for _, status := range types.OpenCaseStatuses() {
		if n := byStatus[status]; n > 0 {
			result.ByStatus.Labels = append(result.ByStatus.Labels, status.Label())
			result.ByStatus.Data = append(result.ByStatus.Data, n)
		}
	}
	result.LoadBySecretariat = load.top(uc.dashboard.TopSecretariats)

	sort.SliceStable(critical, func(i, j int) bool {
		return critical[i].DueDate.Before(critical[j].DueDate)
	})
	for _, c := range limit(critical, uc.dashboard.CriticalLimit) {
		result.CriticalCases = append(result.CriticalCases, summarize(idx, c))
	}

	recent := make([]*model.Case, len(cases))
	copy(recent, cases)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].OpenedAt.After(recent[j].OpenedAt)
	})
	for _, c := range limit(recent, uc.dashboard.RecentLimit) {
		result.RecentActivity = append(result.RecentActivity, summarize(idx, c))
	}

	return result, nil
}

// Catalog builds the service catalog analytics
func (uc *DashboardUseCase) Catalog(ctx context.Context) (*model.CatalogAnalytics, error) {
	idx, err := loadHierarchyIndex(ctx, uc.repo, false)
	if err != nil {
		return nil, err
	}
	services, err := uc.repo.Service().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list services")
	}

	result := &model.CatalogAnalytics{
		GeneratedAt:   uc.clock(),
		TotalServices: len(services),
	}

	bySecretariat := newCounter()
	bySystemType := newCounter()
	byChannel := newCounter()

	for _, s := range services {
		if sec := idx.secretariatOfDivision(s.DivisionID); sec != nil {
			bySecretariat.add(sec.Acronym)
		}
		if t := strings.TrimSpace(s.SystemType); t != "" {
			bySystemType.add(t)
		}
		if uc.classifier.IsManual(s.RequestChannel) {
			result.TotalNonSystematized++
		} else {
			byChannel.add(strings.TrimSpace(s.RequestChannel))
		}
	}

	result.BySecretariat = bySecretariat.top(uc.analytics.TopSecretariats)
	result.BySystemType = bySystemType.byLabel()
	result.ByOperatingSystem = byChannel.top(uc.analytics.TopOperatingSystems)
	return result, nil
}

func summarize(idx *hierarchyIndex, c *model.Case) model.CaseSummary {
	return model.CaseSummary{
		ID:             c.ID,
		ProtocolNumber: c.ProtocolNumber,
		ServiceName:    idx.serviceName(c.ServiceID),
		Status:         c.Status.Normalize(),
		OpenedAt:       c.OpenedAt,
		DueDate:        c.DueDate,
	}
}

func limit[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// counter tallies labels keeping the order in which they were first seen
type counter struct {
	labels []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(label string) {
	if _, ok := c.counts[label]; !ok {
		c.labels = append(c.labels, label)
	}
	c.counts[label]++
}

// top returns the n largest counts, descending; ties keep first-seen order
func (c *counter) top(n int) model.Series {
	labels := make([]string, len(c.labels))
	copy(labels, c.labels)
	sort.SliceStable(labels, func(i, j int) bool {
		return c.counts[labels[i]] > c.counts[labels[j]]
	})
	return c.series(limit(labels, n))
}

// byLabel returns every count ordered by label ascending
func (c *counter) byLabel() model.Series {
	labels := make([]string, len(c.labels))
	copy(labels, c.labels)
	sort.Strings(labels)
	return c.series(labels)
}

func (c *counter) series(labels []string) model.Series {
	s := model.Series{Labels: []string{}, Data: []int{}}
	for _, l := range labels {
		s.Labels = append(s.Labels, l)
		s.Data = append(s.Data, c.counts[l])
	}
	return s
}
