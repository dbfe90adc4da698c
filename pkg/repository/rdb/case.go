package rdb

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const caseColumns = "id, protocol_number, external_id, service_id, requester, opened_at, due_date, completed_at, " +
	"status, assignee_id, request_details, latitude, longitude, created_at, updated_at"

func scanCase(row rowScanner) (*model.Case, error) {
	var (
		c                              model.Case
		protocol, externalID, assignee sql.NullString
		openedAt, dueDate, completedAt dbTime
		createdAt, updatedAt           dbTime
		latitude, longitude            sql.NullFloat64
		status                         string
	)
	if err := row.Scan(&c.ID, &protocol, &externalID, &c.ServiceID, &c.Requester, &openedAt, &dueDate, &completedAt,
		&status, &assignee, &c.RequestDetails, &latitude, &longitude, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	c.ProtocolNumber = protocol.String
	c.ExternalID = externalID.String
	c.AssigneeID = assignee.String
	c.Status = types.CaseStatus(status)
	c.OpenedAt = openedAt.Time
	c.DueDate = model.DateOf(dueDate.Time)
	c.CompletedAt = completedAt.ptr()
	if latitude.Valid && longitude.Valid {
		c.Location = &model.GeoPoint{Latitude: latitude.Float64, Longitude: longitude.Float64}
	}
	c.CreatedAt, c.UpdatedAt = createdAt.Time, updatedAt.Time
	return &c, nil
}

func locationArgs(p *model.GeoPoint) (any, any) {
	if p == nil {
		return nil, nil
	}
	return p.Latitude, p.Longitude
}

type caseRepository struct {
	db *DB
}

func (r *caseRepository) Create(ctx context.Context, c *model.Case) (*model.Case, error) {
	now := timestamp()
	lat, lng := locationArgs(c.Location)
	id, err := r.db.insert(ctx,
		"INSERT INTO cases (protocol_number, external_id, service_id, requester, opened_at, due_date, completed_at, "+
			"status, assignee_id, request_details, latitude, longitude, created_at, updated_at) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		nullString(c.ProtocolNumber), nullString(c.ExternalID), c.ServiceID, c.Requester,
		c.OpenedAt.UTC().Truncate(time.Microsecond), model.DateOf(c.DueDate), nullTime(c.CompletedAt),
		string(c.Status), nullString(c.AssigneeID), c.RequestDetails, lat, lng, now, now)
	if err != nil {
		return nil, goerr.Wrap(translate(err, model.ErrInvalidReference), "failed to create case",
			goerr.V(model.ProtocolNumberKey, c.ProtocolNumber), goerr.V(model.ReferenceKey, c.ServiceID))
	}
	return r.Get(ctx, id)
}

func (r *caseRepository) Get(ctx context.Context, id int64) (*model.Case, error) {
	c, err := getRow(ctx, r.db, scanCase, "SELECT "+caseColumns+" FROM cases WHERE id = ?", id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(model.IDKey, id))
	}
	if c == nil {
		return nil, goerr.Wrap(model.ErrNotFound, "case not found", goerr.V(model.IDKey, id))
	}
	return c, nil
}

func (r *caseRepository) GetByProtocolNumber(ctx context.Context, protocolNumber string) (*model.Case, error) {
	if protocolNumber == "" {
		return nil, nil
	}
	c, err := getRow(ctx, r.db, scanCase, "SELECT "+caseColumns+" FROM cases WHERE protocol_number = ?", protocolNumber)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case by protocol number", goerr.V(model.ProtocolNumberKey, protocolNumber))
	}
	return c, nil
}

func (r *caseRepository) GetByExternalID(ctx context.Context, externalID string) (*model.Case, error) {
	if externalID == "" {
		return nil, nil
	}
	c, err := getRow(ctx, r.db, scanCase, "SELECT "+caseColumns+" FROM cases WHERE external_id = ?", externalID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case by external ID", goerr.V(model.ExternalIDKey, externalID))
	}
	return c, nil
}

func (r *caseRepository) List(ctx context.Context) ([]*model.Case, error) {
	list, err := listRows(ctx, r.db, scanCase, "SELECT "+caseColumns+" FROM cases ORDER BY id")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases")
	}
	return list, nil
}

func (r *caseRepository) Update(ctx context.Context, c *model.Case) (*model.Case, error) {
	lat, lng := locationArgs(c.Location)
	res, err := r.db.exec(ctx,
		"UPDATE cases SET protocol_number = ?, external_id = ?, service_id = ?, requester = ?, completed_at = ?, "+
			"status = ?, assignee_id = ?, request_details = ?, latitude = ?, longitude = ?, updated_at = ? WHERE id = ?",
		nullString(c.ProtocolNumber), nullString(c.ExternalID), c.ServiceID, c.Requester, nullTime(c.CompletedAt),
		string(c.Status), nullString(c.AssigneeID), c.RequestDetails, lat, lng, timestamp(), c.ID)
	if err != nil {
		return nil, goerr.Wrap(translate(err, model.ErrInvalidReference), "failed to update case", goerr.V(model.IDKey, c.ID))
	}
	if err := requireAffected(res, "case", c.ID); err != nil {
		return nil, err
	}
	return r.Get(ctx, c.ID)
}

func (r *caseRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.exec(ctx, "DELETE FROM cases WHERE id = ?", id)
	if err != nil {
		return goerr.Wrap(translate(err, model.ErrProtected), "failed to delete case", goerr.V(model.IDKey, id))
	}
	return requireAffected(res, "case", id)
}

func (r *caseRepository) Complete(ctx context.Context, ids []int64, at time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, 0, len(ids)+4)
	args = append(args, string(types.CaseStatusCompleted), at.UTC().Truncate(time.Microsecond), timestamp())
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, string(types.CaseStatusCompleted))

	res, err := r.db.exec(ctx,
		"UPDATE cases SET status = ?, completed_at = ?, updated_at = ? WHERE id IN ("+placeholders+") AND status <> ?",
		args...)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to complete cases", goerr.V("ids", ids))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to read affected rows")
	}
	return int(n), nil
}

func (r *caseRepository) UnassignUser(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, nil
	}
	res, err := r.db.exec(ctx, "UPDATE cases SET assignee_id = NULL, updated_at = ? WHERE assignee_id = ?", timestamp(), userID)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to unassign user", goerr.V("user_id", userID))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to read affected rows")
	}
	return int(n), nil
}
