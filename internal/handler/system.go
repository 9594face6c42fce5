package handler

import (
	"net/http"
	"time"

	"github.com/mealbridge/api/internal/database"
)

// SystemHandler serves health and readiness probes
type SystemHandler struct {
	db      database.Database
	started time.Time
	version string
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db database.Database, version string) *SystemHandler {
	return &SystemHandler{db: db, started: time.Now(), version: version}
}

// Health handles GET /healthz. It always returns 200 while the process is up.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}

// Ready handles GET /readyz. It returns 503 when the database is unreachable.
func (h *SystemHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "degraded",
			"error":  "database unreachable",
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ready"})
}
