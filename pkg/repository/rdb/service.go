package rdb

import (
	"context"
	"database/sql"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

const serviceColumns = "id, division_id, name, description, max_resolution_days, entity_id, " +
	"responsible_organ, attendance_channels, request_url, service_type, request_channel, system_type, " +
	"created_at, updated_at"

func scanService(row rowScanner) (*model.Service, error) {
	var (
		s                    model.Service
		entityID             sql.NullInt64
		createdAt, updatedAt dbTime
	)
	if err := row.Scan(&s.ID, &s.DivisionID, &s.Name, &s.Description, &s.MaxResolutionDays, &entityID,
		&s.ResponsibleOrgan, &s.AttendanceChannels, &s.RequestURL, &s.ServiceType, &s.RequestChannel, &s.SystemType,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}
	s.EntityID = int64Ptr(entityID)
	s.CreatedAt, s.UpdatedAt = createdAt.Time, updatedAt.Time
	return &s, nil
}

type serviceRepository struct {
	db *DB
}

func (r *serviceRepository) Create(ctx context.Context, s *model.Service) (*model.Service, error) {
	now := timestamp()
	id, err := r.db.insert(ctx,
		"INSERT INTO services (division_id, name, description, max_resolution_days, entity_id, "+
			"responsible_organ, attendance_channels, request_url, service_type, request_channel, system_type, "+
			"created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.DivisionID, s.Name, s.Description, s.MaxResolutionDays, nullInt64(s.EntityID),
		s.ResponsibleOrgan, s.AttendanceChannels, s.RequestURL, s.ServiceType, s.RequestChannel, s.SystemType,
		now, now)
	if err != nil {
		return nil, goerr.Wrap(translate(err, model.ErrInvalidReference), "failed to create service", goerr.V(model.NameKey, s.Name))
	}
	return r.Get(ctx, id)
}

func (r *serviceRepository) Get(ctx context.Context, id int64) (*model.Service, error) {
	s, err := getRow(ctx, r.db, scanService, "SELECT "+serviceColumns+" FROM services WHERE id = ?", id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get service", goerr.V(model.IDKey, id))
	}
	if s == nil {
		return nil, goerr.Wrap(model.ErrNotFound, "service not found", goerr.V(model.IDKey, id))
	}
	return s, nil
}

func (r *serviceRepository) GetByName(ctx context.Context, name string) (*model.Service, error) {
	s, err := getRow(ctx, r.db, scanService, "SELECT "+serviceColumns+" FROM services WHERE name = ?", name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get service by name", goerr.V(model.NameKey, name))
	}
	return s, nil
}

func (r *serviceRepository) List(ctx context.Context) ([]*model.Service, error) {
	list, err := listRows(ctx, r.db, scanService, "SELECT "+serviceColumns+" FROM services ORDER BY id")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list services")
	}
	return list, nil
}

func (r *serviceRepository) Update(ctx context.Context, s *model.Service) (*model.Service, error) {
	res, err := r.db.exec(ctx,
		"UPDATE services SET division_id = ?, name = ?, description = ?, max_resolution_days = ?, entity_id = ?, "+
			"responsible_organ = ?, attendance_channels = ?, request_url = ?, service_type = ?, request_channel = ?, "+
			"system_type = ?, updated_at = ? WHERE id = ?",
		s.DivisionID, s.Name, s.Description, s.MaxResolutionDays, nullInt64(s.EntityID),
		s.ResponsibleOrgan, s.AttendanceChannels, s.RequestURL, s.ServiceType, s.RequestChannel,
		s.SystemType, timestamp(), s.ID)
	if err != nil {
		return nil, goerr.Wrap(translate(err, model.ErrInvalidReference), "failed to update service", goerr.V(model.IDKey, s.ID))
	}
	if err := requireAffected(res, "service", s.ID); err != nil {
		return nil, err
	}
	return r.Get(ctx, s.ID)
}

func (r *serviceRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.exec(ctx, "DELETE FROM services WHERE id = ?", id)
	if err != nil {
		return goerr.Wrap(translate(err, model.ErrProtected), "failed to delete service", goerr.V(model.IDKey, id))
	}
	return requireAffected(res, "service", id)
}
