package request

import "strings"

// RegisterUserRequest represents a request to register a user.
type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Validate validates the register user request.
func (r *RegisterUserRequest) Validate() []string {
	var errors []string

	if strings.TrimSpace(r.Username) == "" {
		errors = append(errors, "username is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		errors = append(errors, "email is required")
	}

	return errors
}
