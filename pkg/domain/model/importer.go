package model

import (
	"time"

	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/google/uuid"
)

// ImportRow is one record of a catalog spreadsheet, already mapped from columns.
type ImportRow struct {
	Line        int // 1-based line in the source file, header included
	Title       string
	Secretariat string
	Entity      string
	// MaxResolutionDays is zero when the row does not carry a deadline column.
	MaxResolutionDays int
	// Metadata is nil for the simple layout, which only tracks the division and SLA.
	Metadata *ServiceMetadata
}

// ImportOutcome classifies what happened to a row
type ImportOutcome string

const (
	ImportOutcomeCreated ImportOutcome = "created"
	ImportOutcomeUpdated ImportOutcome = "updated"
	ImportOutcomeSkipped ImportOutcome = "skipped"
	ImportOutcomeError   ImportOutcome = "error"
)

// ImportRowResult records the outcome of a single row
type ImportRowResult struct {
	Line    int
	Title   string
	Outcome ImportOutcome
	Reason  string
}

// ImportReport summarises an import run
type ImportReport struct {
	RunID      string
	Layout     types.ImportLayout
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Created    int
	Updated    int
	Skipped    int
	Errored    int
	Rows       []ImportRowResult
}

// NewImportReport starts a report with a fresh run ID
func NewImportReport(layout types.ImportLayout, source string, startedAt time.Time) *ImportReport {
	return &ImportReport{
		RunID:     uuid.NewString(),
		Layout:    layout,
		Source:    source,
		StartedAt: startedAt,
		Rows:      []ImportRowResult{},
	}
}

// Add records a row result and updates the counters
func (r *ImportReport) Add(result ImportRowResult) {
	switch result.Outcome {
	case ImportOutcomeCreated:
		r.Created++
	case ImportOutcomeUpdated:
		r.Updated++
	case ImportOutcomeSkipped:
		r.Skipped++
	case ImportOutcomeError:
		r.Errored++
	}
	r.Rows = append(r.Rows, result)
}

// Titles returns the titles of rows with the given outcome, in input order
func (r *ImportReport) Titles(outcome ImportOutcome) []string {
	var titles []string
	for _, row := range r.Rows {
		if row.Outcome == outcome {
			titles = append(titles, row.Title)
		}
	}
	return titles
}
