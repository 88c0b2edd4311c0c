package handler

import (
	"log/slog"
	"net/http"

	"github.com/givers/contact-api/internal/repository"
)

type healthResponse struct {
	Status string `json:"status"`
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	db repository.DB
}

// NewHealthHandler creates a HealthHandler. db may be nil when persistence is
// disabled.
func NewHealthHandler(db repository.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health always reports ok. The database is pinged when configured but a
// failed ping does not change the response.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			slog.DebugContext(r.Context(), "health: database ping failed", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
