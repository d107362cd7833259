package handler

import (
	"net/http"

	"github.com/streakd/streakd/internal/api/middleware"
	"github.com/streakd/streakd/internal/api/request"
	"github.com/streakd/streakd/internal/api/response"
	"github.com/streakd/streakd/internal/domain"
	"github.com/streakd/streakd/internal/service"
)

// UserHandler handles user registration and the current user's profile.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register handles POST /v1/users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterUserRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterUserInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, user)
}

// Me handles GET /v1/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, user.Progress())
}

// DeleteMe handles DELETE /v1/users/me.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}
