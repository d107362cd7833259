package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/streakd/streakd/internal/api/middleware"
	"github.com/streakd/streakd/internal/api/request"
	"github.com/streakd/streakd/internal/api/response"
	"github.com/streakd/streakd/internal/domain"
	"github.com/streakd/streakd/internal/service"
)

// HabitHandler handles habit CRUD operations.
type HabitHandler struct {
	habits *service.HabitService
}

// NewHabitHandler creates a new HabitHandler.
func NewHabitHandler(habits *service.HabitService) *HabitHandler {
	return &HabitHandler{habits: habits}
}

// CreateHabit handles POST /v1/habits.
func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	var req request.CreateHabitRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	habit, err := h.habits.Create(r.Context(), middleware.GetUserID(r.Context()), service.CreateHabitInput{
		Name:         req.Name,
		Description:  req.Description,
		Cadence:      domain.Cadence(req.Cadence),
		ReminderTime: req.ReminderTime,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, habit)
}

// GetHabit handles GET /v1/habits/{id}.
func (h *HabitHandler) GetHabit(w http.ResponseWriter, r *http.Request) {
	habit, err := h.habits.Get(r.Context(), chi.URLParam(r, "id"), middleware.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, habit)
}

// ListHabits handles GET /v1/habits.
func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	pagination := request.ParsePagination(r)

	habits, total, err := h.habits.List(r.Context(), middleware.GetUserID(r.Context()), pagination.Page, pagination.PerPage)
	if err != nil {
		response.Error(w, err)
		return
	}

	if habits == nil {
		habits = []*domain.Habit{}
	}

	response.Paginated(w, habits, pagination.Page, pagination.PerPage, total)
}

// UpdateHabit handles PATCH /v1/habits/{id}.
func (h *HabitHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateHabitRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	input := service.UpdateHabitInput{
		Name:         req.Name,
		Description:  req.Description,
		ReminderTime: req.ReminderTime,
	}
	if req.Cadence != nil {
		cadence := domain.Cadence(*req.Cadence)
		input.Cadence = &cadence
	}

	habit, err := h.habits.Update(r.Context(), chi.URLParam(r, "id"), middleware.GetUserID(r.Context()), input)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, habit)
}

// DeleteHabit handles DELETE /v1/habits/{id}.
func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	if err := h.habits.Delete(r.Context(), chi.URLParam(r, "id"), middleware.GetUserID(r.Context())); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}

// ListCompletions handles GET /v1/habits/{id}/completions.
func (h *HabitHandler) ListCompletions(w http.ResponseWriter, r *http.Request) {
	pagination := request.ParsePagination(r)

	completions, total, err := h.habits.ListCompletions(r.Context(),
		chi.URLParam(r, "id"), middleware.GetUserID(r.Context()),
		pagination.Page, pagination.PerPage)
	if err != nil {
		response.Error(w, err)
		return
	}

	if completions == nil {
		completions = []*domain.Completion{}
	}

	response.Paginated(w, completions, pagination.Page, pagination.PerPage, total)
}
