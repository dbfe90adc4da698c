package usecase

import (
	"context"

	"github.com/gea-gov/gea/pkg/domain/interfaces"
	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// hierarchyIndex resolves the Service → Division → Department → Secretariat chain
// for filters and dashboards.
type hierarchyIndex struct {
	secretariats map[int64]*model.Secretariat
	departments  map[int64]*model.Department
	divisions    map[int64]*model.Division
	services     map[int64]*model.Service
}

func loadHierarchyIndex(ctx context.Context, repo interfaces.Repository, withServices bool) (*hierarchyIndex, error) {
	secretariats, err := repo.Secretariat().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list secretariats")
	}
	departments, err := repo.Department().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list departments")
	}
	divisions, err := repo.Division().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list divisions")
	}

	idx := &hierarchyIndex{
		secretariats: make(map[int64]*model.Secretariat, len(secretariats)),
		departments:  make(map[int64]*model.Department, len(departments)),
		divisions:    make(map[int64]*model.Division, len(divisions)),
		services:     map[int64]*model.Service{},
	}
	for _, s := range secretariats {
		idx.secretariats[s.ID] = s
	}
	for _, d := range departments {
		idx.departments[d.ID] = d
	}
	for _, d := range divisions {
		idx.divisions[d.ID] = d
	}

	if withServices {
		services, err := repo.Service().List(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list services")
		}
		for _, s := range services {
			idx.services[s.ID] = s
		}
	}
	return idx, nil
}

func (x *hierarchyIndex) secretariatOfDepartment(departmentID int64) *model.Secretariat {
	d, ok := x.departments[departmentID]
	if !ok {
		return nil
	}
	return x.secretariats[d.SecretariatID]
}

func (x *hierarchyIndex) secretariatOfDivision(divisionID int64) *model.Secretariat {
	d, ok := x.divisions[divisionID]
	if !ok {
		return nil
	}
	return x.secretariatOfDepartment(d.DepartmentID)
}

func (x *hierarchyIndex) secretariatOfService(serviceID int64) *model.Secretariat {
	s, ok := x.services[serviceID]
	if !ok {
		return nil
	}
	return x.secretariatOfDivision(s.DivisionID)
}

func (x *hierarchyIndex) serviceName(serviceID int64) string {
	if s, ok := x.services[serviceID]; ok {
		return s.Name
	}
	return ""
}
