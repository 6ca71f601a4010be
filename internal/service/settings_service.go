package service

import (
	"context"
	"errors"

	"github.com/tellerdesk/support-portal/internal/domain"
	"github.com/tellerdesk/support-portal/internal/repository"
	apperrors "github.com/tellerdesk/support-portal/pkg/util/errorutil"
)

// SettingsService reads and replaces per-user preference documents.
type SettingsService struct {
	settings repository.SettingsRepository
}

// NewSettingsService constructs the service.
func NewSettingsService(settings repository.SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// Get returns the caller's settings, or nil when none were ever saved.
func (s *SettingsService) Get(ctx context.Context, userID string) (*domain.Settings, error) {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.NewInternalError(err)
	}
	return settings, nil
}

// Update replaces the caller's whole settings document, creating it on first
// use. Nested groups missing from doc are stored as zero values, not merged.
func (s *SettingsService) Update(ctx context.Context, userID string, doc domain.Settings) (*domain.Settings, error) {
	if userID == "" {
		return nil, apperrors.NewUnauthorized("not authenticated")
	}
	doc.UserID = userID
	if err := s.settings.Upsert(ctx, &doc); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &doc, nil
}
