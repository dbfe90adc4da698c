package http

import (
	"time"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/gea-gov/gea/pkg/usecase"
)

type entityJSON struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

func entityResource(uc *usecase.HierarchyUseCase) resource[model.Entity, entityJSON] {
	return resource[model.Entity, entityJSON]{
		name:   model.ResourceEntities,
		list:   uc.ListEntities,
		get:    uc.GetEntity,
		create: uc.CreateEntity,
		update: uc.UpdateEntity,
		remove: uc.DeleteEntity,
		encode: func(e *model.Entity) entityJSON {
			return entityJSON{ID: e.ID, Name: e.Name, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
		},
		decode: func(id int64, d entityJSON) *model.Entity {
			return &model.Entity{ID: id, Name: d.Name}
		},
	}
}

type secretariatJSON struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Acronym   string    `json:"acronym"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

func secretariatResource(uc *usecase.HierarchyUseCase) resource[model.Secretariat, secretariatJSON] {
	return resource[model.Secretariat, secretariatJSON]{
		name:   model.ResourceSecretariats,
		list:   uc.ListSecretariats,
		get:    uc.GetSecretariat,
		create: uc.CreateSecretariat,
		update: uc.UpdateSecretariat,
		remove: uc.DeleteSecretariat,
		encode: func(s *model.Secretariat) secretariatJSON {
			return secretariatJSON{ID: s.ID, Name: s.Name, Acronym: s.Acronym, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}
		},
		decode: func(id int64, d secretariatJSON) *model.Secretariat {
			return &model.Secretariat{ID: id, Name: d.Name, Acronym: d.Acronym}
		},
	}
}

type departmentJSON struct {
	ID            int64     `json:"id"`
	SecretariatID int64     `json:"secretariat_id"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
	UpdatedAt     time.Time `json:"updated_at,omitzero"`
}

func departmentResource(uc *usecase.HierarchyUseCase) resource[model.Department, departmentJSON] {
	return resource[model.Department, departmentJSON]{
		name:   model.ResourceDepartments,
		list:   uc.ListDepartments,
		get:    uc.GetDepartment,
		create: uc.CreateDepartment,
		update: uc.UpdateDepartment,
		remove: uc.DeleteDepartment,
		encode: func(d *model.Department) departmentJSON {
			return departmentJSON{ID: d.ID, SecretariatID: d.SecretariatID, Name: d.Name, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
		},
		decode: func(id int64, d departmentJSON) *model.Department {
			return &model.Department{ID: id, SecretariatID: d.SecretariatID, Name: d.Name}
		},
	}
}

type divisionJSON struct {
	ID           int64     `json:"id"`
	DepartmentID int64     `json:"department_id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"`
}

func divisionResource(uc *usecase.HierarchyUseCase) resource[model.Division, divisionJSON] {
	return resource[model.Division, divisionJSON]{
		name:   model.ResourceDivisions,
		list:   uc.ListDivisions,
		get:    uc.GetDivision,
		create: uc.CreateDivision,
		update: uc.UpdateDivision,
		remove: uc.DeleteDivision,
		encode: func(d *model.Division) divisionJSON {
			return divisionJSON{ID: d.ID, DepartmentID: d.DepartmentID, Name: d.Name, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
		},
		decode: func(id int64, d divisionJSON) *model.Division {
			return &model.Division{ID: id, DepartmentID: d.DepartmentID, Name: d.Name}
		},
	}
}

type serviceJSON struct {
	ID                 int64     `json:"id"`
	DivisionID         int64     `json:"division_id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	MaxResolutionDays  int       `json:"max_resolution_days"`
	EntityID           *int64    `json:"entity_id"`
	ResponsibleOrgan   string    `json:"responsible_organ"`
	AttendanceChannels string    `json:"attendance_channels"`
	RequestURL         string    `json:"request_url"`
	ServiceType        string    `json:"service_type"`
	RequestChannel     string    `json:"request_channel"`
	SystemType         string    `json:"system_type"`
	CreatedAt          time.Time `json:"created_at,omitzero"`
	UpdatedAt          time.Time `json:"updated_at,omitzero"`
}

func serviceResource(uc *usecase.CatalogUseCase) resource[model.Service, serviceJSON] {
	return resource[model.Service, serviceJSON]{
		name:   model.ResourceServices,
		list:   uc.ListServices,
		get:    uc.GetService,
		create: uc.CreateService,
		update: uc.UpdateService,
		remove: uc.DeleteService,
		encode: func(s *model.Service) serviceJSON {
			return serviceJSON{
				ID:                 s.ID,
				DivisionID:         s.DivisionID,
				Name:               s.Name,
				Description:        s.Description,
				MaxResolutionDays:  s.MaxResolutionDays,
				EntityID:           s.EntityID,
				ResponsibleOrgan:   s.ResponsibleOrgan,
				AttendanceChannels: s.AttendanceChannels,
				RequestURL:         s.RequestURL,
				ServiceType:        s.ServiceType,
				RequestChannel:     s.RequestChannel,
				SystemType:         s.SystemType,
				CreatedAt:          s.CreatedAt,
				UpdatedAt:          s.UpdatedAt,
			}
		},
		decode: func(id int64, d serviceJSON) *model.Service {
			return &model.Service{
				ID:                id,
				DivisionID:        d.DivisionID,
				Name:              d.Name,
				Description:       d.Description,
				MaxResolutionDays: d.MaxResolutionDays,
				EntityID:          d.EntityID,
				ServiceMetadata: model.ServiceMetadata{
					ResponsibleOrgan:   d.ResponsibleOrgan,
					AttendanceChannels: d.AttendanceChannels,
					RequestURL:         d.RequestURL,
					ServiceType:        d.ServiceType,
					RequestChannel:     d.RequestChannel,
					SystemType:         d.SystemType,
				},
			}
		},
	}
}

type locationJSON struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// caseJSON carries read-only fields (dates, days open) that are ignored on write
type caseJSON struct {
	ID             int64            `json:"id"`
	ProtocolNumber string           `json:"protocol_number"`
	ExternalID     string           `json:"external_id"`
	ServiceID      int64            `json:"service_id"`
	Requester      string           `json:"requester"`
	Status         types.CaseStatus `json:"status"`
	AssigneeID     string           `json:"assignee_id"`
	RequestDetails string           `json:"request_details"`
	Location       *locationJSON    `json:"location"`
	OpenedAt       time.Time        `json:"opened_at,omitzero"`
	DueDate        string           `json:"due_date,omitempty"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
	DaysOpen       *int             `json:"days_open,omitempty"`
	Overdue        bool             `json:"overdue"`
	CreatedAt      time.Time        `json:"created_at,omitzero"`
	UpdatedAt      time.Time        `json:"updated_at,omitzero"`
}

func caseResource(uc *usecase.CaseUseCase) resource[model.Case, caseJSON] {
	return resource[model.Case, caseJSON]{
		name:   model.ResourceCases,
		list:   uc.ListCases,
		get:    uc.GetCase,
		create: uc.CreateCase,
		update: uc.UpdateCase,
		remove: uc.DeleteCase,
		encode: func(c *model.Case) caseJSON {
			out := caseJSON{
				ID:             c.ID,
				ProtocolNumber: c.ProtocolNumber,
				ExternalID:     c.ExternalID,
				ServiceID:      c.ServiceID,
				Requester:      c.Requester,
				Status:         c.Status,
				AssigneeID:     c.AssigneeID,
				RequestDetails: c.RequestDetails,
				OpenedAt:       c.OpenedAt,
				CompletedAt:    c.CompletedAt,
				CreatedAt:      c.CreatedAt,
				UpdatedAt:      c.UpdatedAt,
			}
			if !c.DueDate.IsZero() {
				out.DueDate = c.DueDate.Format(time.DateOnly)
			}
			if c.Location != nil {
				out.Location = &locationJSON{Latitude: c.Location.Latitude, Longitude: c.Location.Longitude}
			}
			if days, ok := uc.DaysOpen(c); ok {
				out.DaysOpen = &days
			}
			out.Overdue = uc.IsOverdue(c)
			return out
		},
		decode: func(id int64, d caseJSON) *model.Case {
			c := &model.Case{
				ID:             id,
				ProtocolNumber: d.ProtocolNumber,
				ExternalID:     d.ExternalID,
				ServiceID:      d.ServiceID,
				Requester:      d.Requester,
				Status:         d.Status,
				AssigneeID:     d.AssigneeID,
				RequestDetails: d.RequestDetails,
			}
			if d.Location != nil {
				c.Location = &model.GeoPoint{Latitude: d.Location.Latitude, Longitude: d.Location.Longitude}
			}
			return c
		},
	}
}
