package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickwarner/pubreport/internal/config"
	"github.com/patrickwarner/pubreport/internal/middleware"
	"github.com/patrickwarner/pubreport/internal/observability"
	"github.com/patrickwarner/pubreport/internal/report"
	"github.com/patrickwarner/pubreport/internal/session"

	"go.uber.org/zap"
)

// Server groups dependencies for HTTP handlers.
type Server struct {
	Logger   *zap.Logger
	Reports  *report.Service
	Sessions session.Resolver
	Metrics  observability.MetricsRegistry
	Config   config.Config
	pages    *pages
}

// NewServer constructs a Server and parses the page templates.
func NewServer(logger *zap.Logger, reports *report.Service, sessions session.Resolver, metrics observability.MetricsRegistry, cfg config.Config) (*Server, error) {
	p, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return &Server{
		Logger:   logger,
		Reports:  reports,
		Sessions: sessions,
		Metrics:  metrics,
		Config:   cfg,
		pages:    p,
	}, nil
}

// Router registers the report screen routes. Every request passes through the
// trace logger and the session resolver before reaching a handler.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/posts/{id}/report", s.ReportPageHandler).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id}/report", s.ReportSubmitHandler).Methods(http.MethodPost)
	r.HandleFunc("/posts/{id}/preview", s.PreviewHandler).Methods(http.MethodGet)
	r.HandleFunc("/report", s.ReportPageHandler).Methods(http.MethodGet)
	r.HandleFunc("/report", s.ReportSubmitHandler).Methods(http.MethodPost)
	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(http.FileServerFS(staticFS))
	r.NotFoundHandler = http.HandlerFunc(s.NotFoundHandler)

	var h http.Handler = r
	h = middleware.WithSession(s.Sessions, s.Logger)(h)
	h = middleware.WithTraceLogger(s.Logger)(h)
	return h
}

func (s *Server) logger(r *http.Request) *zap.Logger {
	return middleware.LoggerFromRequest(r, s.Logger)
}

func (s *Server) observe(endpoint, method string, status int, start time.Time) {
	s.Metrics.IncrementRequests(endpoint, method, fmt.Sprint(status))
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
}

// routeID returns the publication id from the path, falling back to the
// ?id= query parameter.
func routeID(r *http.Request) string {
	if id := mux.Vars(r)["id"]; id != "" {
		return id
	}
	return r.URL.Query().Get("id")
}
