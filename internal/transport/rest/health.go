package rest

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/frahmantamala/task-gamification/internal/core/worker"
	"github.com/frahmantamala/task-gamification/internal/transport"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checkedAt"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus   `json:"status"`
	Message    string         `json:"message,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CheckedAt  time.Time      `json:"checkedAt"`
	DurationMs int64          `json:"durationMs"`
}

type PoolStats interface {
	Stats() worker.Stats
}

type HealthHandler struct {
	*transport.BaseHandler
	db   *sql.DB
	pool PoolStats
}

func NewHealthHandler(baseHandler *transport.BaseHandler, db *sql.DB, pool PoolStats) *HealthHandler {
	return &HealthHandler{BaseHandler: baseHandler, db: db, pool: pool}
}

// Ping only says the process is up.
func (h *HealthHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// Health checks the database and reports the activity queue. A queue that
// drops work degrades the service but does not fail it.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)

	db := CheckEntry{
		Status:     HealthHealthy,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		db.Status = HealthUnhealthy
		db.Message = err.Error()
	}

	resp := HealthResponse{
		Status:     db.Status,
		CheckedAt:  time.Now(),
		Components: map[string]CheckEntry{"database": db},
	}

	if h.pool != nil {
		stats := h.pool.Stats()
		queue := CheckEntry{
			Status:    HealthHealthy,
			CheckedAt: time.Now(),
			Details: map[string]any{
				"submitted": stats.Submitted,
				"dropped":   stats.Dropped,
				"completed": stats.Completed,
				"failed":    stats.Failed,
			},
		}
		if stats.Dropped > 0 {
			queue.Status = HealthDegraded
			queue.Message = "activity jobs were dropped"
			if resp.Status == HealthHealthy {
				resp.Status = HealthDegraded
			}
		}
		resp.Components["activity_queue"] = queue
	}

	status := http.StatusOK
	if resp.Status == HealthUnhealthy {
		status = http.StatusServiceUnavailable
	}
	h.WriteJSON(w, status, resp)
}
