package handler

import "github.com/wastemap/platform-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role"     validate:"omitempty,oneof=citizen worker admin superadmin"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string          `json:"token,omitempty"`
	User  *domain.Account `json:"user,omitempty"`
	// MustChangePassword signals the client to route into the forced
	// password-change flow before anything else.
	MustChangePassword bool `json:"must_change_password,omitempty"`
}

type requestResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type operatorResetRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type resetRequestItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	RequestedAt string `json:"requested_at"`
}

type resetRequestsResponse struct {
	Requests []resetRequestItem `json:"requests"`
	Total    int                `json:"total"`
}
