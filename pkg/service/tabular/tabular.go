// Package tabular reads catalog spreadsheets (CSV or XLSX) into import rows.
package tabular

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/gea-gov/gea/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrUnsupportedFormat = goerr.New("unsupported spreadsheet format")
	ErrMissingColumn     = goerr.New("required column is missing")
	ErrEmptySheet        = goerr.New("spreadsheet has no rows")
	ErrInvalidObjectURL  = goerr.New("invalid storage object url")
)

// Format of a spreadsheet file
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf infers the format from a file name extension
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", goerr.Wrap(ErrUnsupportedFormat, "unknown file extension", goerr.V("file", name))
	}
}

type options struct {
	sheet string
}

type Option func(*options)

// WithSheet selects the XLSX worksheet to read. The first sheet is used by default.
func WithSheet(name string) Option {
	return func(o *options) {
		o.sheet = name
	}
}

// ReadFile opens path and reads it with the given layout. A gs://bucket/object
// path is fetched from Cloud Storage with application default credentials.
func ReadFile(ctx context.Context, path string, layout types.ImportLayout, opts ...Option) ([]model.ImportRow, error) {
	if IsObjectURL(path) {
		return readObject(ctx, path, layout, opts...)
	}

	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open spreadsheet", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	return Read(f, format, layout, opts...)
}

// Read parses a spreadsheet stream into import rows
func Read(r io.Reader, format Format, layout types.ImportLayout, opts ...Option) ([]model.ImportRow, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var records [][]string
	var err error
	switch format {
	case FormatCSV:
		records, err = readCSV(r)
	case FormatXLSX:
		records, err = readXLSX(r, o.sheet)
	default:
		return nil, goerr.Wrap(ErrUnsupportedFormat, "cannot read spreadsheet", goerr.V("format", format))
	}
	if err != nil {
		return nil, err
	}

	switch layout {
	case types.ImportLayoutSimple:
		return mapSimple(records), nil
	case types.ImportLayoutFull:
		return mapFull(records)
	default:
		return nil, goerr.New("invalid import layout", goerr.V("layout", layout))
	}
}
