package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/wildfire-data/internal/adapter/boundary"
	"github.com/couchcryptid/wildfire-data/internal/domain"
	"github.com/couchcryptid/wildfire-data/internal/observability"
)

// DatasetStore is the read side of the loader: the served dataset, the
// boundary documents, and whether loading has finished.
type DatasetStore interface {
	sharedobs.ReadinessChecker
	Dataset() (*domain.Dataset, bool)
	Boundaries() *boundary.Set
}

// Server exposes health, readiness, metrics, and the dataset API.
type Server struct {
	httpServer *http.Server
	store      DatasetStore
	geocoder   domain.Geocoder
	metrics    *observability.Metrics
	logger     *slog.Logger
	styles     styleCache
}

// NewServer creates the HTTP server. geocoder may be nil, in which case
// series responses carry no place label.
func NewServer(addr string, store DatasetStore, geocoder domain.Geocoder, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:    store,
		geocoder: geocoder,
		metrics:  metrics,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(store))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("GET /api/days", s.instrument(s.handleDays))
	mux.Handle("GET /api/days/{index}/points", s.instrument(s.handleDayPoints))
	mux.Handle("GET /api/series", s.instrument(s.handleSeries))
	mux.Handle("GET /api/scatter", s.instrument(s.handleScatter))
	mux.Handle("GET /api/boundaries/{name}", s.instrument(s.handleBoundary))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument counts requests by route pattern and status code.
func (s *Server) instrument(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.metrics.APIRequests.WithLabelValues(r.Pattern, strconv.Itoa(rec.status)).Inc()
		if rec.status >= http.StatusInternalServerError {
			s.logger.Error("api request failed", "route", r.Pattern, "status", rec.status)
		}
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
