package domain

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	apperrors "github.com/tellerdesk/support-portal/pkg/util/errorutil"
)

// Role describes what a portal user does. It is informational; no route is gated on it.
type Role string

const (
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User is a portal account. PasswordHash never leaves the service layer.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	ProfilePic   string
	IsOnboarded  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the subset of User that may be returned to callers.
type PublicUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	Role        Role   `json:"role"`
	ProfilePic  string `json:"profilePic"`
	IsOnboarded bool   `json:"isOnboarded"`
}

// Public strips credential material.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.Role,
		ProfilePic:  u.ProfilePic,
		IsOnboarded: u.IsOnboarded,
	}
}

// Registration is the normalized signup input.
type Registration struct {
	Email    string
	Password string
	FullName string
	Role     Role
}

// ValidateRegistration checks signup input and applies the role default.
func ValidateRegistration(email, password, fullName, role string) (Registration, error) {
	reg := Registration{
		Email:    NormalizeEmail(email),
		Password: password,
		FullName: strings.TrimSpace(fullName),
		Role:     Role(strings.ToLower(strings.TrimSpace(role))),
	}
	if reg.Email == "" || reg.Password == "" || reg.FullName == "" {
		return Registration{}, apperrors.NewValidationError("All fields are required", nil)
	}
	if len(reg.Password) < MinPasswordLength {
		return Registration{}, apperrors.NewValidationError(
			fmt.Sprintf("Password must be at least %d characters", MinPasswordLength), nil)
	}
	if !emailPattern.MatchString(reg.Email) {
		return Registration{}, apperrors.NewValidationError("Invalid email format", nil)
	}
	switch reg.Role {
	case "":
		reg.Role = RoleAgent
	case RoleAgent, RoleAdmin:
	default:
		return Registration{}, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	return reg, nil
}

// NormalizeEmail trims and lower-cases an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RandomAvatar picks one of the hosted placeholder avatars.
func RandomAvatar() string {
	return fmt.Sprintf("https://avatar.iran.liara.run/public/boy/%d.png", rand.Intn(100)+1)
}
