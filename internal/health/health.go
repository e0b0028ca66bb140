package health

import (
	"context"
	"net/http"
	"time"

	"vyapar-backend/pkg/utils"
)

// Pinger is the slice of pgxpool.Pool the checker needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db      Pinger
	started time.Time
}

func NewHealthChecker(db Pinger) *HealthChecker {
	return &HealthChecker{db: db, started: time.Now()}
}

// Handler is the liveness probe: reports status and uptime, degraded
// when the database is unreachable.
func (h *HealthChecker) Handler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := "ok"
	dbStatus := "ok"
	code := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		status = "degraded"
		dbStatus = err.Error()
		code = http.StatusServiceUnavailable
	}

	utils.RespondJSON(w, code, map[string]interface{}{
		"status":         status,
		"database":       dbStatus,
		"uptime_seconds": int(time.Since(h.started).Seconds()),
	})
}

// Ready is the readiness probe: 200 only when the database answers a
// ping, so traffic is held back until the pool is usable.
func (h *HealthChecker) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		utils.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
