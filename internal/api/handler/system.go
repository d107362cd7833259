package handler

import (
	"context"
	"net/http"

	"github.com/streakd/streakd/internal/api/response"
	"github.com/streakd/streakd/internal/domain"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler handles system-level operations.
type SystemHandler struct {
	db Pinger
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{db: db}
}

// Health handles GET /v1/health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			response.Error(w, domain.NewInternalError(err))
			return
		}
	}
	response.OK(w, map[string]string{"status": "ok"})
}
