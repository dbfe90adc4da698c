package http

import (
	"context"
	"net/http"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/go-chi/chi/v5"
)

// resource wires the CRUD operations of one record type to /api/{name}. M is the
// domain model and D its JSON representation.
type resource[M, D any] struct {
	name   string
	list   func(ctx context.Context, q model.ListQuery) ([]*M, error)
	get    func(ctx context.Context, id int64) (*M, error)
	create func(ctx context.Context, m *M) (*M, error)
	update func(ctx context.Context, m *M) (*M, error)
	remove func(ctx context.Context, id int64) error
	encode func(m *M) D
	decode func(id int64, d D) *M
}

func mountResource[M, D any](r chi.Router, res resource[M, D]) {
	r.Route("/"+res.name, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			items, err := res.list(r.Context(), listQuery(r))
			if err != nil {
				handleError(w, r, err)
				return
			}
			out := make([]D, 0, len(items))
			for _, m := range items {
				out = append(out, res.encode(m))
			}
			writeJSON(r.Context(), w, http.StatusOK, map[string]any{"items": out})
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var body D
			if err := decodeJSON(r, &body); err != nil {
				handleError(w, r, err)
				return
			}
			created, err := res.create(r.Context(), res.decode(0, body))
			if err != nil {
				handleError(w, r, err)
				return
			}
			writeJSON(r.Context(), w, http.StatusCreated, res.encode(created))
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathID(r)
			if err != nil {
				handleError(w, r, err)
				return
			}
			m, err := res.get(r.Context(), id)
			if err != nil {
				handleError(w, r, err)
				return
			}
			writeJSON(r.Context(), w, http.StatusOK, res.encode(m))
		})

		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathID(r)
			if err != nil {
				handleError(w, r, err)
				return
			}
			var body D
			if err := decodeJSON(r, &body); err != nil {
				handleError(w, r, err)
				return
			}
			updated, err := res.update(r.Context(), res.decode(id, body))
			if err != nil {
				handleError(w, r, err)
				return
			}
			writeJSON(r.Context(), w, http.StatusOK, res.encode(updated))
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathID(r)
			if err != nil {
				handleError(w, r, err)
				return
			}
			if err := res.remove(r.Context(), id); err != nil {
				handleError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})
}
