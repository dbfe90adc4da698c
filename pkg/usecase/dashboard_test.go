package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestDashboardUseCase_Operational(t *testing.T) {
	uc, _, clock := newUseCases(t)
	ctx := context.Background()
	_, healthDiv := seedHierarchy(t, uc, "Secretaria de Saude", "SMS")
	_, worksDiv := seedHierarchy(t, uc, "Secretaria de Obras", "SMO")
	vaccine := seedService(t, uc, healthDiv.ID, "Vacinação", 2)
	pothole := seedService(t, uc, worksDiv.ID, "Tapa-buraco", 30)

	// opened 2024-03-10, due 2024-03-12
	overdue := openCase(t, uc, vaccine.ID, "P-1")
	clock.Advance(24 * time.Hour)
	// opened 2024-03-11, due 2024-03-13
	critical := openCase(t, uc, vaccine.ID, "P-2")
	clock.Advance(24 * time.Hour)
	// opened 2024-03-12, due 2024-04-11
	far := openCase(t, uc, pothole.ID, "P-3")
	clock.Advance(time.Hour)
	done := openCase(t, uc, pothole.ID, "P-4")

	far.Status = types.CaseStatusPendingInfo
	_, err := uc.Case.UpdateCase(ctx, far)
	gt.NoError(t, err).Required()
	_, err = uc.Case.CompleteCases(ctx, []int64{done.ID})
	gt.NoError(t, err).Required()

	// today is 2024-03-13
	clock.Advance(24 * time.Hour)

	dash, err := uc.Dashboard.Operational(ctx)
	gt.NoError(t, err).Required()

	gt.Number(t, dash.TotalOpen).Equal(3)
	gt.Number(t, dash.TotalOverdue).Equal(1)
	gt.Array(t, dash.ByStatus.Labels).Equal([]string{"Open", "Pending information"})
	gt.Array(t, dash.ByStatus.Data).Equal([]int{2, 1})
	gt.Array(t, dash.LoadBySecretariat.Labels).Equal([]string{"SMS", "SMO"})
	gt.Array(t, dash.LoadBySecretariat.Data).Equal([]int{2, 1})

	gt.Array(t, dash.CriticalCases).Length(1)
	gt.Number(t, dash.CriticalCases[0].ID).Equal(critical.ID)
	gt.Value(t, dash.CriticalCases[0].ServiceName).Equal("Vacinação")

	gt.Array(t, dash.RecentActivity).Length(4)
	gt.Number(t, dash.RecentActivity[0].ID).Equal(done.ID)
	gt.Number(t, dash.RecentActivity[3].ID).Equal(overdue.ID)
}

func TestDashboardUseCase_OperationalEmpty(t *testing.T) {
	uc, _, _ := newUseCases(t)

	dash, err := uc.Dashboard.Operational(context.Background())
	gt.NoError(t, err).Required()
	gt.Number(t, dash.TotalOpen).Equal(0)
	gt.Array(t, dash.ByStatus.Labels).Length(0)
	gt.Array(t, dash.CriticalCases).Length(0)
	gt.Array(t, dash.RecentActivity).Length(0)
}

func TestDashboardUseCase_Catalog(t *testing.T) {
	uc, _, _ := newUseCases(t)
	ctx := context.Background()
	_, healthDiv := seedHierarchy(t, uc, "Secretaria de Saude", "SMS")
	_, worksDiv := seedHierarchy(t, uc, "Secretaria de Obras", "SMO")

	services := []*model.Service{
		{DivisionID: worksDiv.ID, Name: "Alvará", ServiceMetadata: model.ServiceMetadata{RequestChannel: "1Doc", SystemType: "Web"}},
		{DivisionID: healthDiv.ID, Name: "Consulta", ServiceMetadata: model.ServiceMetadata{RequestChannel: "Presencial ou TELEFONE"}},
		{DivisionID: healthDiv.ID, Name: "Exame", ServiceMetadata: model.ServiceMetadata{RequestChannel: "", SystemType: "Desktop"}},
		{DivisionID: healthDiv.ID, Name: "Vacina", ServiceMetadata: model.ServiceMetadata{RequestChannel: "e-mail"}},
		{DivisionID: worksDiv.ID, Name: "Habite-se", ServiceMetadata: model.ServiceMetadata{RequestChannel: "1Doc", SystemType: "Web"}},
		{DivisionID: worksDiv.ID, Name: "Poda", ServiceMetadata: model.ServiceMetadata{RequestChannel: "Portal"}},
	}
	for _, s := range services {
		_, err := uc.Catalog.CreateService(ctx, s)
		gt.NoError(t, err).Required()
	}

	stats, err := uc.Dashboard.Catalog(ctx)
	gt.NoError(t, err).Required()

	gt.Number(t, stats.TotalServices).Equal(6)
	gt.Number(t, stats.TotalNonSystematized).Equal(3)
	gt.Array(t, stats.BySecretariat.Labels).Equal([]string{"SMO", "SMS"})
	gt.Array(t, stats.BySecretariat.Data).Equal([]int{3, 3})
	gt.Array(t, stats.BySystemType.Labels).Equal([]string{"Desktop", "Web"})
	gt.Array(t, stats.BySystemType.Data).Equal([]int{1, 2})
	gt.Array(t, stats.ByOperatingSystem.Labels).Equal([]string{"1Doc", "Portal"})
	gt.Array(t, stats.ByOperatingSystem.Data).Equal([]int{2, 1})
}
