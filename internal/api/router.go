package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/Topsis/internal/metrics"
	"github.com/MikeSquared-Agency/Topsis/internal/runner"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
)

const requestsPerMinute = 120

// NewRouter builds the ranking API. s may be nil, in which case the run
// history routes answer 503.
func NewRouter(rn *runner.Runner, s store.Store, maxBodyBytes int64, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(requestsPerMinute))

	rank := NewRankHandler(rn, maxBodyBytes, logger)
	runs := NewRunsHandler(s)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/rank", rank.Rank)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/runs", runs.List)
			r.Get("/runs/{id}", runs.Get)
		})
	})

	return r
}

func NewMetricsRouter(m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", m.Handler())
	return r
}
