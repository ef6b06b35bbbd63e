// Package server wires the engine's HTTP surface: the gateway routes the
// mobile shell calls, plus health and metrics endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/halcyonworks/primevault/internal/accrual"
	"github.com/halcyonworks/primevault/internal/handler"
	"github.com/halcyonworks/primevault/internal/logger"
	"github.com/halcyonworks/primevault/internal/metrics"
	"github.com/halcyonworks/primevault/internal/progression"
	"github.com/halcyonworks/primevault/internal/session"
)

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance routing the gateway endpoints
func NewServer(port int, accrualCoord *accrual.Coordinator, progressionCoord *progression.Coordinator, sess *session.Session, readiness ...handler.HealthChecker) *Server {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(readiness...))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	accrualHandler := handler.NewAccrualHandler(accrualCoord)
	progressionHandler := handler.NewProgressionHandler(progressionCoord, sess)
	runeHandler := handler.NewRuneHandler(sess)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/accrual", func(r chi.Router) {
			r.Post("/refresh", accrualHandler.Refresh)
			r.Get("/projection", accrualHandler.Projection)
			r.Post("/claim", accrualHandler.Claim)
		})

		r.Route("/prime", func(r chi.Router) {
			r.Post("/levelup", progressionHandler.LevelUp)
			r.Post("/levelup/preview", progressionHandler.PreviewLevelUp)
		})

		r.Route("/ability", func(r chi.Router) {
			r.Post("/quote", progressionHandler.QuoteUpgrade)
			r.Post("/upgrade", progressionHandler.Upgrade)
		})

		r.Route("/runes", func(r chi.Router) {
			r.Post("/equip", runeHandler.Equip)
			r.Post("/unequip", runeHandler.Unequip)
			r.Get("/synergy", runeHandler.Synergy)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info("Request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength)

		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info("Server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
