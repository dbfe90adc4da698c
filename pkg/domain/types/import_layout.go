package types

import "github.com/m-mizutani/goerr/v2"

// ImportLayout selects how catalog import rows are read from a tabular file
type ImportLayout string

const (
	// ImportLayoutSimple reads positional columns: title, responsible organisation.
	ImportLayoutSimple ImportLayout = "simple"
	// ImportLayoutFull reads header-named columns with the complete service metadata.
	ImportLayoutFull ImportLayout = "full"
)

func (l ImportLayout) IsValid() bool {
	return l == ImportLayoutSimple || l == ImportLayoutFull
}

func (l ImportLayout) String() string {
	return string(l)
}

// ParseImportLayout parses a layout name; empty means full.
func ParseImportLayout(s string) (ImportLayout, error) {
	if s == "" {
		return ImportLayoutFull, nil
	}
	layout := ImportLayout(s)
	if !layout.IsValid() {
		return "", goerr.New("invalid import layout", goerr.V("layout", s))
	}
	return layout, nil
}
