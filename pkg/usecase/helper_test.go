package usecase_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/repository/memory"
	"github.com/gea-gov/gea/pkg/usecase"
	"github.com/m-mizutani/gt"
)

// testClock is a settable clock shared by a test and the use cases under test
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newUseCases(t *testing.T, opts ...usecase.Option) (*usecase.UseCases, *memory.Memory, *testClock) {
	t.Helper()
	repo := memory.New()
	clock := newTestClock()
	opts = append([]usecase.Option{usecase.WithClock(clock.Now)}, opts...)
	return usecase.New(repo, opts...), repo, clock
}

// seedHierarchy creates a secretariat with one department and one division
func seedHierarchy(t *testing.T, uc *usecase.UseCases, name, acronym string) (*model.Secretariat, *model.Division) {
	t.Helper()
	ctx := context.Background()

	sec, err := uc.Hierarchy.CreateSecretariat(ctx, &model.Secretariat{Name: name, Acronym: acronym})
	gt.NoError(t, err).Required()
	dept, err := uc.Hierarchy.CreateDepartment(ctx, &model.Department{SecretariatID: sec.ID, Name: "Department of " + name})
	gt.NoError(t, err).Required()
	div, err := uc.Hierarchy.CreateDivision(ctx, &model.Division{DepartmentID: dept.ID, Name: "Division of " + name})
	gt.NoError(t, err).Required()

	return sec, div
}

func seedService(t *testing.T, uc *usecase.UseCases, divisionID int64, name string, sla int) *model.Service {
	t.Helper()
	svc, err := uc.Catalog.CreateService(context.Background(), &model.Service{
		DivisionID:        divisionID,
		Name:              name,
		MaxResolutionDays: sla,
	})
	gt.NoError(t, err).Required()
	return svc
}

func openCase(t *testing.T, uc *usecase.UseCases, serviceID int64, protocol string) *model.Case {
	t.Helper()
	c, err := uc.Case.CreateCase(context.Background(), &model.Case{
		ServiceID:      serviceID,
		ProtocolNumber: protocol,
		Requester:      "Maria Silva",
	})
	gt.NoError(t, err).Required()
	return c
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
