package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/service/tabular"
	"github.com/gea-gov/gea/pkg/usecase"
	"github.com/gea-gov/gea/pkg/utils/errutil"
	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
)

const maxJSONBodyBytes = 1 << 20

// statusOf maps domain errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConflict), errors.Is(err, model.ErrProtected):
		return http.StatusConflict
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrInvalidReference),
		errors.Is(err, tabular.ErrUnsupportedFormat),
		errors.Is(err, tabular.ErrMissingColumn),
		errors.Is(err, tabular.ErrEmptySheet):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrSourceNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxJSONBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return goerr.Wrap(model.ErrValidation, "invalid JSON body", goerr.V("cause", err.Error()))
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, goerr.Wrap(model.ErrValidation, "invalid id", goerr.V("id", raw))
	}
	return id, nil
}

// listQuery reads "q" as the search term and every other parameter as a filter
func listQuery(r *http.Request) model.ListQuery {
	q := model.ListQuery{Filters: map[string]string{}}
	for key, values := range r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		if key == "q" {
			q.Search = values[0]
			continue
		}
		q.Filters[key] = values[0]
	}
	return q
}
