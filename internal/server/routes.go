package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/j-veylop/kpi-dashboard-tui/internal/logger"
)

// Routes returns the router for the HTTP surface.
//
//   - GET  /health
//   - GET  /catalog
//   - GET  /catalog/{technology}
//   - POST /tools/getKPI
//   - POST /stats
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", h.Health)

	r.Route("/catalog", func(sr chi.Router) {
		sr.Get("/", h.Catalog)
		sr.Get("/{technology}", h.Technology)
	})

	r.Post("/tools/getKPI", h.GetKPI)
	r.Post("/stats", h.Stats)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, "not found", http.StatusNotFound)
	})

	return r
}

// requestLogger logs one line per request through the application logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
