package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/tellerdesk/support-portal/internal/auth"
	"github.com/tellerdesk/support-portal/internal/config"
	"github.com/tellerdesk/support-portal/internal/domain"
	"github.com/tellerdesk/support-portal/internal/repository"
	apperrors "github.com/tellerdesk/support-portal/pkg/util/errorutil"
)

// AuthService coordinates signup, login, logout and session checks.
type AuthService struct {
	users       repository.UserRepository
	revocations auth.RevocationStore
	tokenMgr    *auth.TokenManager
	bcryptCost  int
	logger      *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	Revocations auth.RevocationStore
	Logger      *zap.Logger
}

// RegisterInput is the raw signup payload.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// Session is the outcome of a successful signup or login.
type Session struct {
	User      domain.PublicUser
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:       deps.UserRepo,
		revocations: deps.Revocations,
		tokenMgr:    auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL()),
		bcryptCost:  cfg.BcryptCost,
		logger:      logger,
	}
}

// Register creates a new portal account and opens a session for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	reg, err := domain.ValidateRegistration(in.Email, in.Password, in.FullName, in.Role)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, reg.Email); err == nil {
		return nil, emailTaken()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(reg.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:        reg.Email,
		PasswordHash: hash,
		FullName:     reg.FullName,
		Role:         reg.Role,
		ProfilePic:   domain.RandomAvatar(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, emailTaken()
		}
		return nil, apperrors.NewInternalError(err)
	}

	return s.issue(user)
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			auth.BurnComparison(password, s.bcryptCost)
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	return s.issue(user)
}

// Logout revokes the presented token when it is still valid. It never fails.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if token == "" || s.revocations == nil {
		return
	}
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.logger.Warn("session revocation failed", zap.String("user_id", claims.UserID), zap.Error(err))
	}
}

// CheckSession returns the public identity behind an authenticated principal.
func (s *AuthService) CheckSession(ctx context.Context, principal *auth.Principal) (domain.PublicUser, error) {
	if principal == nil {
		return domain.PublicUser{}, apperrors.NewUnauthorized("not authenticated")
	}
	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.PublicUser{}, apperrors.NewUnauthorized("user not found")
		}
		return domain.PublicUser{}, apperrors.NewInternalError(err)
	}
	return user.Public(), nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user.Public(), Token: token, ExpiresAt: exp}, nil
}

func emailTaken() error {
	return apperrors.NewDuplicate("Email already exists, please use a different one", nil)
}
