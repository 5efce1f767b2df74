package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

// Figure requests share one token bucket.
const (
	figureRPS   = 20
	figureBurst = 40
)

// FigureSource provides the latest rendered station map.
type FigureSource interface {
	Figure() (svgData, points []byte, ok bool)
}

// Server exposes the rendered map alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /, /stations.geojson, /healthz,
// /readyz, and /metrics routes.
func NewServer(addr string, figures FigureSource, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Browser map clients load the station points from other origins.
	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}).Handler(mux)

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	limiter := rate.NewLimiter(rate.Limit(figureRPS), figureBurst)
	mux.Handle("GET /{$}", limit(limiter, handleMap(figures)))
	mux.Handle("GET /stations.geojson", limit(limiter, handlePoints(figures)))
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

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

func handleMap(figures FigureSource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		svgData, _, ok := figures.Figure()
		if !ok {
			http.Error(w, "map not rendered yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(svgData) //nolint:errcheck // best-effort response
	}
}

func handlePoints(figures FigureSource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_, points, ok := figures.Figure()
		if !ok {
			http.Error(w, "map not rendered yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write(points) //nolint:errcheck // best-effort response
	}
}

// limit rejects requests with 429 once the limiter's burst is spent.
func limit(l *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow() {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
