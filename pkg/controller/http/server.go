package http

import (
	"net/http"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxUploadBytes bounds the size of an uploaded catalog spreadsheet
const DefaultMaxUploadBytes = 32 << 20

type Server struct {
	router         *chi.Mux
	uc             *usecase.UseCases
	maxUploadBytes int64
	enableMetrics  bool
}

type Options func(*Server)

func WithMaxUploadBytes(n int64) Options {
	return func(s *Server) {
		s.maxUploadBytes = n
	}
}

// WithMetrics exposes the Prometheus registry at /metrics
func WithMetrics(enabled bool) Options {
	return func(s *Server) {
		s.enableMetrics = enabled
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:         r,
		uc:             uc,
		maxUploadBytes: DefaultMaxUploadBytes,
		enableMetrics:  true,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	if s.enableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/descriptors", descriptorsHandler)

		mountResource(r, entityResource(uc.Hierarchy))
		mountResource(r, secretariatResource(uc.Hierarchy))
		mountResource(r, departmentResource(uc.Hierarchy))
		mountResource(r, divisionResource(uc.Hierarchy))
		mountResource(r, serviceResource(uc.Catalog))

		// registered before the generic case routes so "complete" is not read as an ID
		r.Post("/cases/complete", s.completeCasesHandler)
		mountResource(r, caseResource(uc.Case))

		r.Delete("/users/{id}/assignments", s.unassignUserHandler)

		r.Get("/dashboard", s.operationalDashboardHandler)
		r.Get("/dashboard/services", s.catalogDashboardHandler)

		r.Post("/import", s.importHandler)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func descriptorsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string][]model.Descriptor{
		"descriptors": model.Descriptors(),
	})
}
