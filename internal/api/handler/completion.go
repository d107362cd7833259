package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/streakd/streakd/internal/api/middleware"
	"github.com/streakd/streakd/internal/api/request"
	"github.com/streakd/streakd/internal/api/response"
	"github.com/streakd/streakd/internal/domain"
	"github.com/streakd/streakd/internal/service"
)

// CompletionHandler handles marking habits done and reading stats.
type CompletionHandler struct {
	completions *service.CompletionService
	stats       *service.StatsService
}

// NewCompletionHandler creates a new CompletionHandler.
func NewCompletionHandler(completions *service.CompletionService, stats *service.StatsService) *CompletionHandler {
	return &CompletionHandler{completions: completions, stats: stats}
}

// CompleteHabit handles POST /v1/habits/{id}/complete.
// The body is optional.
func (h *CompletionHandler) CompleteHabit(w http.ResponseWriter, r *http.Request) {
	var req request.CompleteHabitRequest
	if err := request.DecodeJSON(r, &req); err != nil && !errors.Is(err, request.ErrEmptyBody) {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	result, err := h.completions.Complete(r.Context(), service.CompleteInput{
		HabitID:    chi.URLParam(r, "id"),
		UserID:     middleware.GetUserID(r.Context()),
		Reflection: req.Reflection,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, result)
}

// Stats handles GET /v1/habits/stats.
func (h *CompletionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.ForUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, stats)
}
