package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger is implemented by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisPinger reports the health of the Redis connection.
type RedisPinger func(ctx context.Context) error

// HealthHandler handles health check requests.
type HealthHandler struct {
	db    Pinger
	redis RedisPinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, redis RedisPinger) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redis,
	}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "postgres unhealthy", err.Error())
		return
	}

	redisStatus := "disabled"
	if h.redis != nil {
		if err := h.redis(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unhealthy", err.Error())
			return
		}
		redisStatus = "ok"
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"postgres": "ok",
		"redis":    redisStatus,
	})
}
