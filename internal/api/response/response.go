package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/streakd/streakd/internal/domain"
	"github.com/streakd/streakd/internal/logger"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains error details.
type ErrorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// PaginationMeta contains pagination metadata.
type PaginationMeta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// PaginatedResponse wraps data with pagination metadata.
type PaginatedResponse struct {
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to encode response", "err", err)
	}
}

// Error sends an error response based on the domain error. Non-domain errors
// become INTERNAL_ERROR; causes of internal errors are logged, never sent.
func Error(w http.ResponseWriter, err error) {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		domainErr = domain.NewInternalError(err)
	}

	status := StatusFor(domainErr.Code)
	if status == http.StatusInternalServerError {
		logger.Error("internal error", "err", domainErr.Err)
	}

	JSON(w, status, ErrorResponse{
		Error: ErrorBody{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Context: domainErr.Context,
		},
	})
}

// Paginated sends a paginated JSON response.
func Paginated(w http.ResponseWriter, data interface{}, page, perPage, total int) {
	totalPages := total / perPage
	if total%perPage > 0 {
		totalPages++
	}

	JSON(w, http.StatusOK, PaginatedResponse{
		Data: data,
		Pagination: PaginationMeta{
			Page:       page,
			PerPage:    perPage,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// Created sends a 201 Created response with JSON body.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// OK sends a 200 OK response with JSON body.
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// NoContent sends a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// StatusFor maps a domain error code to its HTTP status.
func StatusFor(code domain.ErrorCode) int {
	switch code {
	case domain.ErrCodeHabitNotFound, domain.ErrCodeUserNotFound:
		return http.StatusNotFound
	case domain.ErrCodeAlreadyCompleted, domain.ErrCodeUserExists:
		return http.StatusConflict
	case domain.ErrCodeValidationFailed:
		return http.StatusBadRequest
	case domain.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
