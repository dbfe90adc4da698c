package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genproto/googleapis/type/latlng"
)

type caseDoc struct {
	ID             int64          `firestore:"id"`
	ProtocolNumber string         `firestore:"protocol_number"`
	ExternalID     string         `firestore:"external_id"`
	ServiceID      int64          `firestore:"service_id"`
	Requester      string         `firestore:"requester"`
	OpenedAt       time.Time      `firestore:"opened_at"`
	DueDate        time.Time      `firestore:"due_date"`
	CompletedAt    *time.Time     `firestore:"completed_at"`
	Status         string         `firestore:"status"`
	AssigneeID     string         `firestore:"assignee_id"`
	RequestDetails string         `firestore:"request_details"`
	Location       *latlng.LatLng `firestore:"location"`
	CreatedAt      time.Time      `firestore:"created_at"`
	UpdatedAt      time.Time      `firestore:"updated_at"`
}

func newCaseDoc(c *model.Case, id int64) *caseDoc {
	d := &caseDoc{
		ID:             id,
		ProtocolNumber: c.ProtocolNumber,
		ExternalID:     c.ExternalID,
		ServiceID:      c.ServiceID,
		Requester:      c.Requester,
		OpenedAt:       c.OpenedAt.UTC().Truncate(time.Microsecond),
		DueDate:        model.DateOf(c.DueDate),
		Status:         string(c.Status),
		AssigneeID:     c.AssigneeID,
		RequestDetails: c.RequestDetails,
	}
	if c.CompletedAt != nil {
		at := c.CompletedAt.UTC().Truncate(time.Microsecond)
		d.CompletedAt = &at
	}
	if c.Location != nil {
		d.Location = &latlng.LatLng{Latitude: c.Location.Latitude, Longitude: c.Location.Longitude}
	}
	return d
}

func (d *caseDoc) toModel() *model.Case {
	c := &model.Case{
		ID:             d.ID,
		ProtocolNumber: d.ProtocolNumber,
		ExternalID:     d.ExternalID,
		ServiceID:      d.ServiceID,
		Requester:      d.Requester,
		OpenedAt:       d.OpenedAt.UTC(),
		DueDate:        model.DateOf(d.DueDate.UTC()),
		Status:         types.CaseStatus(d.Status),
		AssigneeID:     d.AssigneeID,
		RequestDetails: d.RequestDetails,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if d.CompletedAt != nil {
		at := d.CompletedAt.UTC()
		c.CompletedAt = &at
	}
	if d.Location != nil {
		c.Location = &model.GeoPoint{Latitude: d.Location.Latitude, Longitude: d.Location.Longitude}
	}
	return c
}

var caseKind = kind[caseDoc]{
	collection: collectionCases,
	label:      "case",
	keys: func(d *caseDoc) []uniqueKey {
		var keys []uniqueKey
		if d.ProtocolNumber != "" {
			keys = append(keys, uniqueKey{kind: "case_protocol_number", value: d.ProtocolNumber})
		}
		if d.ExternalID != "" {
			keys = append(keys, uniqueKey{kind: "case_external_id", value: d.ExternalID})
		}
		return keys
	},
	refs: func(d *caseDoc) []reference {
		return []reference{{collection: collectionServices, id: d.ServiceID}}
	},
}

type caseRepository struct {
	f *Firestore
}

func (r *caseRepository) Create(ctx context.Context, c *model.Case) (*model.Case, error) {
	doc, err := caseKind.create(ctx, r.f, func(id int64, now time.Time) *caseDoc {
		d := newCaseDoc(c, id)
		d.CreatedAt, d.UpdatedAt = now, now
		return d
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *caseRepository) Get(ctx context.Context, id int64) (*model.Case, error) {
	doc, err := caseKind.get(ctx, r.f, id)
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *caseRepository) findBy(ctx context.Context, field, value string) (*model.Case, error) {
	if value == "" {
		return nil, nil
	}
	doc, err := caseKind.first(ctx, r.f.collection(collectionCases).Where(field, "==", value),
		func(d *caseDoc) int64 { return d.ID })
	if err != nil || doc == nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *caseRepository) GetByProtocolNumber(ctx context.Context, protocolNumber string) (*model.Case, error) {
	return r.findBy(ctx, "protocol_number", protocolNumber)
}

func (r *caseRepository) GetByExternalID(ctx context.Context, externalID string) (*model.Case, error) {
	return r.findBy(ctx, "external_id", externalID)
}

func (r *caseRepository) List(ctx context.Context) ([]*model.Case, error) {
	docs, err := caseKind.list(ctx, r.f)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Case, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (r *caseRepository) Update(ctx context.Context, c *model.Case) (*model.Case, error) {
	doc, err := caseKind.update(ctx, r.f, c.ID, func(old *caseDoc, now time.Time) *caseDoc {
		d := newCaseDoc(c, old.ID)
		d.OpenedAt = old.OpenedAt
		d.DueDate = old.DueDate
		d.CreatedAt = old.CreatedAt
		d.UpdatedAt = now
		return d
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *caseRepository) Delete(ctx context.Context, id int64) error {
	return caseKind.delete(ctx, r.f, id)
}

func (r *caseRepository) Complete(ctx context.Context, ids []int64, at time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	seen := make(map[int64]bool, len(ids))
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			refs = append(refs, r.f.doc(collectionCases, id))
		}
	}
	completedAt := at.UTC().Truncate(time.Microsecond)

	var count int
	err := r.f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		count = 0
		snaps, err := tx.GetAll(refs)
		if err != nil {
			return goerr.Wrap(err, "failed to get cases")
		}

		now := timestamp()
		for _, snap := range snaps {
			if !snap.Exists() {
				continue
			}
			var d caseDoc
			if err := snap.DataTo(&d); err != nil {
				return goerr.Wrap(err, "failed to decode case", goerr.V("doc_id", snap.Ref.ID))
			}
			if d.Status == string(types.CaseStatusCompleted) {
				continue
			}
			if err := tx.Update(snap.Ref, []firestore.Update{
				{Path: "status", Value: string(types.CaseStatusCompleted)},
				{Path: "completed_at", Value: completedAt},
				{Path: "updated_at", Value: now},
			}); err != nil {
				return goerr.Wrap(err, "failed to complete case", goerr.V(model.IDKey, d.ID))
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to complete cases")
	}
	return count, nil
}

func (r *caseRepository) UnassignUser(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, nil
	}

	var count int
	err := r.f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snaps, err := tx.Documents(r.f.collection(collectionCases).Where("assignee_id", "==", userID)).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query assigned cases", goerr.V("user_id", userID))
		}

		now := timestamp()
		for _, snap := range snaps {
			if err := tx.Update(snap.Ref, []firestore.Update{
				{Path: "assignee_id", Value: ""},
				{Path: "updated_at", Value: now},
			}); err != nil {
				return goerr.Wrap(err, "failed to unassign case", goerr.V("doc_id", snap.Ref.ID))
			}
		}
		count = len(snaps)
		return nil
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to unassign user")
	}
	return count, nil
}
