package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/gea-gov/gea/pkg/service/tabular"
	"github.com/gea-gov/gea/pkg/utils/safe"
	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
)

func (s *Server) completeCasesHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []int64 `json:"ids"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	n, err := s.uc.Case.CompleteCases(r.Context(), body.IDs)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, map[string]int{"completed": n})
}

func (s *Server) unassignUserHandler(w http.ResponseWriter, r *http.Request) {
	n, err := s.uc.Case.UnassignUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, map[string]int{"cleared": n})
}

type seriesJSON struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

func toSeries(s model.Series) seriesJSON {
	out := seriesJSON{Labels: s.Labels, Data: s.Data}
	if out.Labels == nil {
		out.Labels = []string{}
	}
	if out.Data == nil {
		out.Data = []int{}
	}
	return out
}

type caseSummaryJSON struct {
	ID             int64            `json:"id"`
	ProtocolNumber string           `json:"protocol_number"`
	ServiceName    string           `json:"service_name"`
	Status         types.CaseStatus `json:"status"`
	StatusLabel    string           `json:"status_label"`
	OpenedAt       time.Time        `json:"opened_at"`
	DueDate        string           `json:"due_date"`
}

func toSummaries(items []model.CaseSummary) []caseSummaryJSON {
	out := make([]caseSummaryJSON, 0, len(items))
	for _, c := range items {
		out = append(out, caseSummaryJSON{
			ID:             c.ID,
			ProtocolNumber: c.ProtocolNumber,
			ServiceName:    c.ServiceName,
			Status:         c.Status,
			StatusLabel:    c.Status.Label(),
			OpenedAt:       c.OpenedAt,
			DueDate:        c.DueDate.Format(time.DateOnly),
		})
	}
	return out
}

func (s *Server) operationalDashboardHandler(w http.ResponseWriter, r *http.Request) {
	dash, err := s.uc.Dashboard.Operational(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, struct {
		GeneratedAt       time.Time         `json:"generated_at"`
		TotalOpen         int               `json:"total_open"`
		TotalOverdue      int               `json:"total_overdue"`
		ByStatus          seriesJSON        `json:"by_status"`
		LoadBySecretariat seriesJSON        `json:"load_by_secretariat"`
		CriticalCases     []caseSummaryJSON `json:"critical_cases"`
		RecentActivity    []caseSummaryJSON `json:"recent_activity"`
	}{
		GeneratedAt:       dash.GeneratedAt,
		TotalOpen:         dash.TotalOpen,
		TotalOverdue:      dash.TotalOverdue,
		ByStatus:          toSeries(dash.ByStatus),
		LoadBySecretariat: toSeries(dash.LoadBySecretariat),
		CriticalCases:     toSummaries(dash.CriticalCases),
		RecentActivity:    toSummaries(dash.RecentActivity),
	})
}

func (s *Server) catalogDashboardHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.uc.Dashboard.Catalog(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, struct {
		GeneratedAt          time.Time  `json:"generated_at"`
		TotalServices        int        `json:"total_services"`
		TotalNonSystematized int        `json:"total_non_systematized"`
		BySecretariat        seriesJSON `json:"by_secretariat"`
		BySystemType         seriesJSON `json:"by_system_type"`
		ByOperatingSystem    seriesJSON `json:"by_operating_system"`
	}{
		GeneratedAt:          stats.GeneratedAt,
		TotalServices:        stats.TotalServices,
		TotalNonSystematized: stats.TotalNonSystematized,
		BySecretariat:        toSeries(stats.BySecretariat),
		BySystemType:         toSeries(stats.BySystemType),
		ByOperatingSystem:    toSeries(stats.ByOperatingSystem),
	})
}

type importRowJSON struct {
	Line    int                 `json:"line"`
	Title   string              `json:"title"`
	Outcome model.ImportOutcome `json:"outcome"`
	Reason  string              `json:"reason,omitempty"`
}

func (s *Server) importHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	layout, err := types.ParseImportLayout(r.URL.Query().Get("layout"))
	if err != nil {
		handleError(w, r, goerr.Wrap(model.ErrValidation, err.Error()))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		handleError(w, r, goerr.Wrap(model.ErrValidation, "invalid multipart upload", goerr.V("cause", err.Error())))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, goerr.Wrap(model.ErrValidation, "file field is required", goerr.V("cause", err.Error())))
		return
	}
	defer safe.Close(ctx, file)

	format, err := tabular.FormatOf(header.Filename)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var opts []tabular.Option
	if sheet := strings.TrimSpace(r.URL.Query().Get("sheet")); sheet != "" {
		opts = append(opts, tabular.WithSheet(sheet))
	}

	rows, err := tabular.Read(file, format, layout, opts...)
	if err != nil {
		handleError(w, r, goerr.Wrap(err, "failed to read spreadsheet", goerr.V("file", header.Filename)))
		return
	}

	report, err := s.uc.Import.Import(ctx, layout, header.Filename, rows)
	if err != nil {
		handleError(w, r, err)
		return
	}

	results := make([]importRowJSON, 0, len(report.Rows))
	for _, row := range report.Rows {
		results = append(results, importRowJSON{Line: row.Line, Title: row.Title, Outcome: row.Outcome, Reason: row.Reason})
	}

	writeJSON(ctx, w, http.StatusOK, struct {
		RunID      string             `json:"run_id"`
		Layout     types.ImportLayout `json:"layout"`
		Source     string             `json:"source"`
		StartedAt  time.Time          `json:"started_at"`
		FinishedAt time.Time          `json:"finished_at"`
		Created    int                `json:"created"`
		Updated    int                `json:"updated"`
		Skipped    int                `json:"skipped"`
		Errored    int                `json:"errored"`
		Rows       []importRowJSON    `json:"rows"`
	}{
		RunID:      report.RunID,
		Layout:     report.Layout,
		Source:     report.Source,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Created:    report.Created,
		Updated:    report.Updated,
		Skipped:    report.Skipped,
		Errored:    report.Errored,
		Rows:       results,
	})
}
