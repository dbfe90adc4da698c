package firestore

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gea-gov/gea/pkg/domain/interfaces"
	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionEntities     = "entities"
	collectionSecretariats = "secretariats"
	collectionDepartments  = "departments"
	collectionDivisions    = "divisions"
	collectionServices     = "services"
	collectionCases        = "cases"
	collectionCounters     = "counters"
	collectionUniqueKeys   = "unique_keys"
)

type Firestore struct {
	client           *firestore.Client
	collectionPrefix string

	entity      *entityRepository
	secretariat *secretariatRepository
	department  *departmentRepository
	division    *divisionRepository
	service     *serviceRepository
	caseRepo    *caseRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{client: client}
	f.entity = &entityRepository{f: f}
	f.secretariat = &secretariatRepository{f: f}
	f.department = &departmentRepository{f: f}
	f.division = &divisionRepository{f: f}
	f.service = &serviceRepository{f: f}
	f.caseRepo = &caseRepository{f: f}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Entity() interfaces.EntityRepository {
	return f.entity
}

func (f *Firestore) Secretariat() interfaces.SecretariatRepository {
	return f.secretariat
}

func (f *Firestore) Department() interfaces.DepartmentRepository {
	return f.department
}

func (f *Firestore) Division() interfaces.DivisionRepository {
	return f.division
}

func (f *Firestore) Service() interfaces.ServiceRepository {
	return f.service
}

func (f *Firestore) Case() interfaces.CaseRepository {
	return f.caseRepo
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func (f *Firestore) collection(name string) *firestore.CollectionRef {
	if f.collectionPrefix != "" {
		return f.client.Collection(f.collectionPrefix + "_" + name)
	}
	return f.client.Collection(name)
}

func (f *Firestore) doc(collection string, id int64) *firestore.DocumentRef {
	return f.collection(collection).Doc(fmt.Sprintf("%d", id))
}

func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// nextID reads and advances the per-collection counter. It only reads; the returned
// write must be applied after every other read of the transaction.
func (f *Firestore) nextID(tx *firestore.Transaction, collection string) (int64, func() error, error) {
	counterRef := f.collection(collectionCounters).Doc(collection)

	doc, err := tx.Get(counterRef)
	if err != nil {
		if isNotFound(err) {
			return 1, func() error {
				return tx.Set(counterRef, map[string]interface{}{"value": int64(1)})
			}, nil
		}
		return 0, nil, goerr.Wrap(err, "failed to get counter", goerr.V("collection", collection))
	}

	currentValue, err := doc.DataAt("value")
	if err != nil {
		return 0, nil, goerr.Wrap(err, "failed to get counter value")
	}
	val, ok := currentValue.(int64)
	if !ok {
		return 0, nil, goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
	}

	next := val + 1
	return next, func() error {
		return tx.Update(counterRef, []firestore.Update{{Path: "value", Value: next}})
	}, nil
}

// uniqueKey is a value that may be held by at most one document of a kind
type uniqueKey struct {
	kind  string
	value string
}

type claimDoc struct {
	Kind    string `firestore:"kind"`
	Value   string `firestore:"value"`
	OwnerID int64  `firestore:"owner_id"`
}

func (f *Firestore) claimRef(key uniqueKey) *firestore.DocumentRef {
	return f.collection(collectionUniqueKeys).Doc(key.kind + "_" + base64.RawURLEncoding.EncodeToString([]byte(key.value)))
}

// checkClaims fails with ErrConflict if any key is held by a document other than ownerID
func (f *Firestore) checkClaims(tx *firestore.Transaction, keys []uniqueKey, ownerID int64) error {
	for _, key := range keys {
		snap, err := tx.Get(f.claimRef(key))
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return goerr.Wrap(err, "failed to read unique key", goerr.V("kind", key.kind))
		}
		var claim claimDoc
		if err := snap.DataTo(&claim); err != nil {
			return goerr.Wrap(err, "failed to decode unique key", goerr.V("kind", key.kind))
		}
		if claim.OwnerID != ownerID {
			return goerr.Wrap(model.ErrConflict, key.kind+" already exists", goerr.V("value", key.value))
		}
	}
	return nil
}

// writeClaims releases keys no longer held and claims the current ones
func (f *Firestore) writeClaims(tx *firestore.Transaction, oldKeys, newKeys []uniqueKey, ownerID int64) error {
	current := make(map[uniqueKey]bool, len(newKeys))
	for _, key := range newKeys {
		current[key] = true
	}
	for _, key := range oldKeys {
		if current[key] {
			continue
		}
		if err := tx.Delete(f.claimRef(key)); err != nil {
			return goerr.Wrap(err, "failed to release unique key", goerr.V("kind", key.kind))
		}
	}
	for _, key := range newKeys {
		if err := tx.Set(f.claimRef(key), claimDoc{Kind: key.kind, Value: key.value, OwnerID: ownerID}); err != nil {
			return goerr.Wrap(err, "failed to claim unique key", goerr.V("kind", key.kind))
		}
	}
	return nil
}

// reference is a parent document that must exist
type reference struct {
	collection string
	id         int64
}

func (f *Firestore) checkReferences(tx *firestore.Transaction, refs []reference) error {
	for _, ref := range refs {
		if _, err := tx.Get(f.doc(ref.collection, ref.id)); err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrInvalidReference, "referenced document does not exist",
					goerr.V("collection", ref.collection), goerr.V(model.ReferenceKey, ref.id))
			}
			return goerr.Wrap(err, "failed to read referenced document", goerr.V("collection", ref.collection))
		}
	}
	return nil
}

// dependent names a collection whose documents point at the one being deleted
type dependent struct {
	collection string
	field      string
}

func (f *Firestore) checkDependents(tx *firestore.Transaction, id int64, deps []dependent) error {
	for _, dep := range deps {
		iter := tx.Documents(f.collection(dep.collection).Where(dep.field, "==", id).Limit(1))
		_, err := iter.Next()
		iter.Stop()
		if err == iterator.Done {
			continue
		}
		if err != nil {
			return goerr.Wrap(err, "failed to query dependents", goerr.V("collection", dep.collection))
		}
		return goerr.Wrap(model.ErrProtected, "document is referenced",
			goerr.V(model.IDKey, id), goerr.V("collection", dep.collection))
	}
	return nil
}

// kind describes how documents of one collection are stored and constrained
type kind[D any] struct {
	collection string
	label      string
	keys       func(*D) []uniqueKey
	refs       func(*D) []reference
	dependents []dependent
}

func (k kind[D]) create(ctx context.Context, f *Firestore, build func(id int64, now time.Time) *D) (*D, error) {
	var created *D
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		id, commitCounter, err := f.nextID(tx, k.collection)
		if err != nil {
			return err
		}
		doc := build(id, timestamp())
		keys := k.keys(doc)
		if err := f.checkClaims(tx, keys, id); err != nil {
			return err
		}
		if err := f.checkReferences(tx, k.refs(doc)); err != nil {
			return err
		}

		if err := commitCounter(); err != nil {
			return goerr.Wrap(err, "failed to advance counter")
		}
		if err := tx.Create(f.doc(k.collection, id), doc); err != nil {
			return goerr.Wrap(err, "failed to create "+k.label, goerr.V(model.IDKey, id))
		}
		if err := f.writeClaims(tx, nil, keys, id); err != nil {
			return err
		}
		created = doc
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create "+k.label)
	}
	return created, nil
}

func (k kind[D]) get(ctx context.Context, f *Firestore, id int64) (*D, error) {
	snap, err := f.doc(k.collection, id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(model.ErrNotFound, k.label+" not found", goerr.V(model.IDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get "+k.label, goerr.V(model.IDKey, id))
	}
	var d D
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode "+k.label, goerr.V(model.IDKey, id))
	}
	return &d, nil
}

func (k kind[D]) update(ctx context.Context, f *Firestore, id int64, apply func(old *D, now time.Time) *D) (*D, error) {
	var updated *D
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := f.doc(k.collection, id)
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrNotFound, k.label+" not found", goerr.V(model.IDKey, id))
			}
			return goerr.Wrap(err, "failed to get "+k.label, goerr.V(model.IDKey, id))
		}
		var old D
		if err := snap.DataTo(&old); err != nil {
			return goerr.Wrap(err, "failed to decode "+k.label, goerr.V(model.IDKey, id))
		}

		doc := apply(&old, timestamp())
		keys := k.keys(doc)
		if err := f.checkClaims(tx, keys, id); err != nil {
			return err
		}
		if err := f.checkReferences(tx, k.refs(doc)); err != nil {
			return err
		}

		if err := tx.Set(ref, doc); err != nil {
			return goerr.Wrap(err, "failed to update "+k.label, goerr.V(model.IDKey, id))
		}
		if err := f.writeClaims(tx, k.keys(&old), keys, id); err != nil {
			return err
		}
		updated = doc
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update "+k.label)
	}
	return updated, nil
}

func (k kind[D]) delete(ctx context.Context, f *Firestore, id int64) error {
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := f.doc(k.collection, id)
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrNotFound, k.label+" not found", goerr.V(model.IDKey, id))
			}
			return goerr.Wrap(err, "failed to get "+k.label, goerr.V(model.IDKey, id))
		}
		var old D
		if err := snap.DataTo(&old); err != nil {
			return goerr.Wrap(err, "failed to decode "+k.label, goerr.V(model.IDKey, id))
		}
		if err := f.checkDependents(tx, id, k.dependents); err != nil {
			return err
		}

		if err := tx.Delete(ref); err != nil {
			return goerr.Wrap(err, "failed to delete "+k.label, goerr.V(model.IDKey, id))
		}
		return f.writeClaims(tx, k.keys(&old), nil, id)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete "+k.label)
	}
	return nil
}

// query decodes every document matched by q
func (k kind[D]) query(ctx context.Context, q firestore.Query) ([]*D, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*D
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate "+k.collection)
		}
		var d D
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode "+k.label, goerr.V("doc_id", snap.Ref.ID))
		}
		out = append(out, &d)
	}
	return out, nil
}

func (k kind[D]) list(ctx context.Context, f *Firestore) ([]*D, error) {
	return k.query(ctx, f.collection(k.collection).OrderBy("id", firestore.Asc))
}

// first returns the match with the lowest ID, or nil
func (k kind[D]) first(ctx context.Context, q firestore.Query, idOf func(*D) int64) (*D, error) {
	docs, err := k.query(ctx, q)
	if err != nil {
		return nil, err
	}
	var best *D
	for _, d := range docs {
		if best == nil || idOf(d) < idOf(best) {
			best = d
		}
	}
	return best, nil
}

func noKeys[D any](*D) []uniqueKey { return nil }

func noRefs[D any](*D) []reference { return nil }
