package usecase_test

import (
	"context"
	"testing"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestHierarchyUseCase_Secretariat(t *testing.T) {
	t.Run("derives a missing acronym", func(t *testing.T) {
		uc, _, _ := newUseCases(t)

		sec, err := uc.Hierarchy.CreateSecretariat(context.Background(), &model.Secretariat{Name: "Secretaria de Educação"})
		gt.NoError(t, err).Required()
		gt.Value(t, sec.Acronym).Equal("SDE")
	})

	t.Run("blank name fails validation", func(t *testing.T) {
		uc, _, _ := newUseCases(t)

		_, err := uc.Hierarchy.CreateSecretariat(context.Background(), &model.Secretariat{Name: " "})
		gt.Error(t, err).Is(model.ErrValidation)
	})

	t.Run("duplicate acronym conflicts", func(t *testing.T) {
		uc, _, _ := newUseCases(t)
		ctx := context.Background()

		_, err := uc.Hierarchy.CreateSecretariat(ctx, &model.Secretariat{Name: "Saude", Acronym: "SMS"})
		gt.NoError(t, err).Required()
		_, err = uc.Hierarchy.CreateSecretariat(ctx, &model.Secretariat{Name: "Segurança", Acronym: "SMS"})
		gt.Error(t, err).Is(model.ErrConflict)
	})

	t.Run("referenced secretariat is protected", func(t *testing.T) {
		uc, _, _ := newUseCases(t)
		sec, _ := seedHierarchy(t, uc, "Saude", "SMS")

		err := uc.Hierarchy.DeleteSecretariat(context.Background(), sec.ID)
		gt.Error(t, err).Is(model.ErrProtected)
	})
}

func TestHierarchyUseCase_DeleteDivision(t *testing.T) {
	uc, _, _ := newUseCases(t)
	ctx := context.Background()
	_, div := seedHierarchy(t, uc, "Saude", "SMS")
	svc := seedService(t, uc, div.ID, "Consulta", 10)

	err := uc.Hierarchy.DeleteDivision(ctx, div.ID)
	gt.Error(t, err).Is(model.ErrProtected)

	_, err = uc.Hierarchy.GetDivision(ctx, div.ID)
	gt.NoError(t, err)

	gt.NoError(t, uc.Catalog.DeleteService(ctx, svc.ID)).Required()
	gt.NoError(t, uc.Hierarchy.DeleteDivision(ctx, div.ID))

	_, err = uc.Hierarchy.GetDivision(ctx, div.ID)
	gt.Error(t, err).Is(model.ErrNotFound)
}

func TestHierarchyUseCase_ListFilters(t *testing.T) {
	uc, _, _ := newUseCases(t)
	ctx := context.Background()
	health, healthDiv := seedHierarchy(t, uc, "Saude", "SMS")
	_, worksDiv := seedHierarchy(t, uc, "Obras", "SMO")

	departments, err := uc.Hierarchy.ListDepartments(ctx, model.ListQuery{
		Filters: map[string]string{model.FilterSecretariat: itoa(health.ID)},
	})
	gt.NoError(t, err).Required()
	gt.Array(t, departments).Length(1)
	gt.Number(t, departments[0].SecretariatID).Equal(health.ID)

	divisions, err := uc.Hierarchy.ListDivisions(ctx, model.ListQuery{
		Filters: map[string]string{model.FilterSecretariat: itoa(health.ID)},
	})
	gt.NoError(t, err).Required()
	gt.Array(t, divisions).Length(1)
	gt.Number(t, divisions[0].ID).Equal(healthDiv.ID)

	divisions, err = uc.Hierarchy.ListDivisions(ctx, model.ListQuery{Search: "obras"})
	gt.NoError(t, err).Required()
	gt.Array(t, divisions).Length(1)
	gt.Number(t, divisions[0].ID).Equal(worksDiv.ID)

	secretariats, err := uc.Hierarchy.ListSecretariats(ctx, model.ListQuery{Search: "smo"})
	gt.NoError(t, err).Required()
	gt.Array(t, secretariats).Length(1)

	_, err = uc.Hierarchy.ListEntities(ctx, model.ListQuery{
		Filters: map[string]string{model.FilterSecretariat: "1"},
	})
	gt.Error(t, err).Is(model.ErrValidation)
}

func TestHierarchyUseCase_Entity(t *testing.T) {
	uc, _, _ := newUseCases(t)
	ctx := context.Background()
	_, div := seedHierarchy(t, uc, "Saude", "SMS")

	entity, err := uc.Hierarchy.CreateEntity(ctx, &model.Entity{Name: " Fundação de Saúde "})
	gt.NoError(t, err).Required()
	gt.Value(t, entity.Name).Equal("Fundação de Saúde")

	_, err = uc.Hierarchy.CreateEntity(ctx, &model.Entity{Name: "Fundação de Saúde"})
	gt.Error(t, err).Is(model.ErrConflict)

	_, err = uc.Catalog.CreateService(ctx, &model.Service{DivisionID: div.ID, Name: "Exame", EntityID: &entity.ID})
	gt.NoError(t, err).Required()

	err = uc.Hierarchy.DeleteEntity(ctx, entity.ID)
	gt.Error(t, err).Is(model.ErrProtected)
}
