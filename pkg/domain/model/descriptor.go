package model

import "strings"

// Resource names exposed by the admin API
const (
	ResourceEntities     = "entities"
	ResourceSecretariats = "secretariats"
	ResourceDepartments  = "departments"
	ResourceDivisions    = "divisions"
	ResourceServices     = "services"
	ResourceCases        = "cases"
)

// Filter keys accepted by ListQuery
const (
	FilterStatus      = "status"
	FilterDue         = "due"
	FilterSecretariat = "secretariat"
	FilterDepartment  = "department"
	FilterDivision    = "division"
	FilterService     = "service"
	FilterEntity      = "entity"
)

// Due-window values for FilterDue
const (
	DueOverdue = "overdue"
	DueToday   = "today"
	DueWeek    = "week"
	DueMonth   = "month"
	DueYear    = "year"
)

// Descriptor declares how a record type is listed, searched and filtered by
// administrative tooling.
type Descriptor struct {
	Name         string   `json:"name"`
	Label        string   `json:"label"`
	Columns      []string `json:"columns"`
	Filters      []string `json:"filters"`
	SearchFields []string `json:"search_fields"`
}

// HasFilter reports whether key is a declared filter
func (d Descriptor) HasFilter(key string) bool {
	for _, f := range d.Filters {
		if f == key {
			return true
		}
	}
	return false
}

var descriptors = []Descriptor{
	{
		Name:         ResourceEntities,
		Label:        "Entity",
		Columns:      []string{"name"},
		SearchFields: []string{"name"},
	},
	{
		Name:         ResourceSecretariats,
		Label:        "Secretariat",
		Columns:      []string{"name", "acronym"},
		SearchFields: []string{"name", "acronym"},
	},
	{
		Name:         ResourceDepartments,
		Label:        "Department",
		Columns:      []string{"name", "secretariat"},
		Filters:      []string{FilterSecretariat},
		SearchFields: []string{"name"},
	},
	{
		Name:         ResourceDivisions,
		Label:        "Division",
		Columns:      []string{"name", "department"},
		Filters:      []string{FilterSecretariat, FilterDepartment},
		SearchFields: []string{"name"},
	},
	{
		Name:         ResourceServices,
		Label:        "Service",
		Columns:      []string{"name", "division", "max_resolution_days"},
		Filters:      []string{FilterDivision, FilterSecretariat, FilterEntity},
		SearchFields: []string{"name", "description"},
	},
	{
		Name:         ResourceCases,
		Label:        "Case",
		Columns:      []string{"protocol_number", "service", "requester", "opened_at", "due_date", "status"},
		Filters:      []string{FilterStatus, FilterDue, FilterSecretariat, FilterDivision, FilterService},
		SearchFields: []string{"protocol_number", "requester"},
	},
}

// Descriptors returns all resource descriptors in display order
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// LookupDescriptor returns the descriptor registered under name
func LookupDescriptor(name string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// ListQuery narrows a listing by free-text search and exact-match filters
type ListQuery struct {
	Search  string
	Filters map[string]string
}

// Filter returns the trimmed value of a filter, or empty if unset
func (q ListQuery) Filter(key string) string {
	if q.Filters == nil {
		return ""
	}
	return strings.TrimSpace(q.Filters[key])
}

// Matches reports whether any of the values contains the search term, case-insensitively.
// An empty search matches everything.
func (q ListQuery) Matches(values ...string) bool {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	if term == "" {
		return true
	}
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}
