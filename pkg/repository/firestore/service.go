package firestore

import (
	"context"
	"time"

	"github.com/gea-gov/gea/pkg/domain/model"
)

type serviceDoc struct {
	ID                 int64     `firestore:"id"`
	DivisionID         int64     `firestore:"division_id"`
	Name               string    `firestore:"name"`
	Description        string    `firestore:"description"`
	MaxResolutionDays  int       `firestore:"max_resolution_days"`
	EntityID           *int64    `firestore:"entity_id"`
	ResponsibleOrgan   string    `firestore:"responsible_organ"`
	AttendanceChannels string    `firestore:"attendance_channels"`
	RequestURL         string    `firestore:"request_url"`
	ServiceType        string    `firestore:"service_type"`
	RequestChannel     string    `firestore:"request_channel"`
	SystemType         string    `firestore:"system_type"`
	CreatedAt          time.Time `firestore:"created_at"`
	UpdatedAt          time.Time `firestore:"updated_at"`
}

func newServiceDoc(s *model.Service, id int64, createdAt, updatedAt time.Time) *serviceDoc {
	return &serviceDoc{
		ID:                 id,
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
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}
}

func (d *serviceDoc) toModel() *model.Service {
	return &model.Service{
		ID:                d.ID,
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
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

var serviceKind = kind[serviceDoc]{
	collection: collectionServices,
	label:      "service",
	keys: func(d *serviceDoc) []uniqueKey {
		return []uniqueKey{{kind: "service_name", value: d.Name}}
	},
	refs: func(d *serviceDoc) []reference {
		refs := []reference{{collection: collectionDivisions, id: d.DivisionID}}
		if d.EntityID != nil {
			refs = append(refs, reference{collection: collectionEntities, id: *d.EntityID})
		}
		return refs
	},
	dependents: []dependent{{collection: collectionCases, field: "service_id"}},
}

type serviceRepository struct {
	f *Firestore
}

func (r *serviceRepository) Create(ctx context.Context, s *model.Service) (*model.Service, error) {
	doc, err := serviceKind.create(ctx, r.f, func(id int64, now time.Time) *serviceDoc {
		return newServiceDoc(s, id, now, now)
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *serviceRepository) Get(ctx context.Context, id int64) (*model.Service, error) {
	doc, err := serviceKind.get(ctx, r.f, id)
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *serviceRepository) GetByName(ctx context.Context, name string) (*model.Service, error) {
	doc, err := serviceKind.first(ctx, r.f.collection(collectionServices).Where("name", "==", name),
		func(d *serviceDoc) int64 { return d.ID })
	if err != nil || doc == nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *serviceRepository) List(ctx context.Context) ([]*model.Service, error) {
	docs, err := serviceKind.list(ctx, r.f)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Service, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (r *serviceRepository) Update(ctx context.Context, s *model.Service) (*model.Service, error) {
	doc, err := serviceKind.update(ctx, r.f, s.ID, func(old *serviceDoc, now time.Time) *serviceDoc {
		return newServiceDoc(s, old.ID, old.CreatedAt, now)
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *serviceRepository) Delete(ctx context.Context, id int64) error {
	return serviceKind.delete(ctx, r.f, id)
}
