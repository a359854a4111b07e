package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewHandler serves liveness, readiness and Prometheus metrics for the
// batch process.
func NewHandler(db *pgxpool.Pool, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		if err := db.Ping(ctx); err != nil {
			logger.Warn("Health check DB ping failed", zap.Error(err))
			status = http.StatusServiceUnavailable
			body = map[string]string{"status": "degraded", "db": err.Error()}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
