package usecase

import (
	"strconv"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// checkFilters rejects filter keys the resource does not declare
func checkFilters(resource string, q model.ListQuery) error {
	d, ok := model.LookupDescriptor(resource)
	if !ok {
		return goerr.New("unknown resource", goerr.V("resource", resource))
	}
	for key, value := range q.Filters {
		if value == "" {
			continue
		}
		if !d.HasFilter(key) {
			return goerr.Wrap(model.ErrValidation, "filter is not supported",
				goerr.V("resource", resource), goerr.V(FilterKey, key))
		}
	}
	return nil
}

// idFilter parses a filter holding a numeric ID; ok is false when the filter is unset
func idFilter(q model.ListQuery, key string) (id int64, ok bool, err error) {
	raw := q.Filter(key)
	if raw == "" {
		return 0, false, nil
	}
	id, err = strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, goerr.Wrap(model.ErrValidation, "filter must be a numeric ID",
			goerr.V(FilterKey, key), goerr.V("value", raw))
	}
	return id, true, nil
}
