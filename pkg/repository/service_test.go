package repository_test

import (
	"context"
	"testing"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func runServiceRepositoryTest(t *testing.T, newRepo repoFactory) {
	t.Helper()

	t.Run("create and get keep metadata", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, _, div := seedDivision(t, repo)
		entity, err := repo.Entity().Create(ctx, &model.Entity{Name: "SEMAE"})
		gt.NoError(t, err).Required()

		created, err := repo.Service().Create(ctx, &model.Service{
			DivisionID:        div.ID,
			Name:              "Ligação de Água",
			Description:       "Nova ligação",
			MaxResolutionDays: 15,
			EntityID:          &entity.ID,
			ServiceMetadata: model.ServiceMetadata{
				ResponsibleOrgan:   "SEMAE",
				AttendanceChannels: "Presencial",
				RequestURL:         "https://example.org/agua",
				ServiceType:        "Serviço",
				RequestChannel:     "Portal",
				SystemType:         "1Doc",
			},
		})
		gt.NoError(t, err).Required()

		got, err := repo.Service().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Ligação de Água")
		gt.Number(t, got.MaxResolutionDays).Equal(15)
		gt.Value(t, got.EntityID).NotNil()
		gt.Value(t, *got.EntityID).Equal(entity.ID)
		gt.Value(t, got.ServiceMetadata).Equal(created.ServiceMetadata)

		byName, err := repo.Service().GetByName(ctx, "Ligação de Água")
		gt.NoError(t, err).Required()
		gt.Value(t, byName.ID).Equal(created.ID)
	})

	t.Run("name is unique", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		svc := seedService(t, repo, "Poda de Árvore", 30)
		_, err := repo.Service().Create(ctx, &model.Service{DivisionID: svc.DivisionID, Name: "Poda de Árvore", MaxResolutionDays: 10})
		gt.Error(t, err).Is(model.ErrConflict)
	})

	t.Run("division and entity must exist", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Service().Create(ctx, &model.Service{DivisionID: 777, Name: "X", MaxResolutionDays: 1})
		gt.Error(t, err).Is(model.ErrInvalidReference)

		_, _, div := seedDivision(t, repo)
		missing := int64(888)
		_, err = repo.Service().Create(ctx, &model.Service{DivisionID: div.ID, Name: "Y", MaxResolutionDays: 1, EntityID: &missing})
		gt.Error(t, err).Is(model.ErrInvalidReference)
	})

	t.Run("update replaces fields and can clear the entity", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, _, div := seedDivision(t, repo)
		entity, err := repo.Entity().Create(ctx, &model.Entity{Name: "Prefeitura"})
		gt.NoError(t, err).Required()
		svc, err := repo.Service().Create(ctx, &model.Service{DivisionID: div.ID, Name: "Alvará", MaxResolutionDays: 30, EntityID: &entity.ID})
		gt.NoError(t, err).Required()

		svc.MaxResolutionDays = 45
		svc.EntityID = nil
		svc.SystemType = "SEI"
		updated, err := repo.Service().Update(ctx, svc)
		gt.NoError(t, err).Required()
		gt.Number(t, updated.MaxResolutionDays).Equal(45)
		gt.Value(t, updated.EntityID).Nil()
		gt.Value(t, updated.SystemType).Equal("SEI")

		// no longer referenced
		gt.NoError(t, repo.Entity().Delete(ctx, entity.ID))
	})

	t.Run("referenced division and entity are protected", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, _, div := seedDivision(t, repo)
		entity, err := repo.Entity().Create(ctx, &model.Entity{Name: "Câmara"})
		gt.NoError(t, err).Required()
		_, err = repo.Service().Create(ctx, &model.Service{DivisionID: div.ID, Name: "Sessão", MaxResolutionDays: 5, EntityID: &entity.ID})
		gt.NoError(t, err).Required()

		gt.Error(t, repo.Division().Delete(ctx, div.ID)).Is(model.ErrProtected)
		gt.Error(t, repo.Entity().Delete(ctx, entity.ID)).Is(model.ErrProtected)

		stillThere, err := repo.Division().Get(ctx, div.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, stillThere.Name).Equal(div.Name)
		_, err = repo.Entity().Get(ctx, entity.ID)
		gt.NoError(t, err)
	})
}

func TestServiceRepository(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			runServiceRepositoryTest(t, b.factory)
		})
	}
}
