package dto

import "github.com/tellerdesk/support-portal/internal/domain"

// SignupRequest payload for new portal users.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints. The token itself only
// travels in the session cookie.
type AuthResponse struct {
	Success bool              `json:"success"`
	User    domain.PublicUser `json:"user"`
}
