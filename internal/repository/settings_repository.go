package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tellerdesk/support-portal/internal/domain"
)

// SettingsRepository stores one preference document per user.
type SettingsRepository interface {
	Get(ctx context.Context, userID string) (*domain.Settings, error)
	// Upsert replaces the stored document for settings.UserID or creates it.
	Upsert(ctx context.Context, settings *domain.Settings) error
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository returns a Postgres-backed implementation; nested groups live in JSONB columns.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

func (r *settingsRepository) Get(ctx context.Context, userID string) (*domain.Settings, error) {
	if !validID(userID) {
		return nil, ErrNotFound
	}
	const query = `
        SELECT user_id, notifications, contact, business_hours, security, updated_at
        FROM settings WHERE user_id=$1`

	var settings domain.Settings
	groups := make([][]byte, 4)
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&settings.UserID,
		&groups[0],
		&groups[1],
		&groups[2],
		&groups[3],
		&settings.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	if err := decodeSettingsGroups(&settings, groups); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, settings *domain.Settings) error {
	const query = `
        INSERT INTO settings (user_id, notifications, contact, business_hours, security, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        ON CONFLICT (user_id) DO UPDATE SET
            notifications=EXCLUDED.notifications,
            contact=EXCLUDED.contact,
            business_hours=EXCLUDED.business_hours,
            security=EXCLUDED.security,
            updated_at=EXCLUDED.updated_at
        RETURNING updated_at`

	groups, err := encodeSettingsGroups(settings)
	if err != nil {
		return err
	}
	err = r.pool.QueryRow(ctx, query,
		settings.UserID,
		groups[0],
		groups[1],
		groups[2],
		groups[3],
	).Scan(&settings.UpdatedAt)
	return mapPgError(err)
}

// settingsGroups lists the JSONB-backed groups in column order.
func settingsGroups(settings *domain.Settings) []any {
	return []any{&settings.Notifications, &settings.Contact, &settings.BusinessHours, &settings.Security}
}

func encodeSettingsGroups(settings *domain.Settings) ([][]byte, error) {
	groups := settingsGroups(settings)
	encoded := make([][]byte, len(groups))
	for i, group := range groups {
		raw, err := json.Marshal(group)
		if err != nil {
			return nil, fmt.Errorf("encode settings group %d: %w", i, err)
		}
		encoded[i] = raw
	}
	return encoded, nil
}

// decodeSettingsGroups fills the groups from raw JSONB; a NULL column keeps the zero value.
func decodeSettingsGroups(settings *domain.Settings, raw [][]byte) error {
	groups := settingsGroups(settings)
	if len(raw) != len(groups) {
		return fmt.Errorf("settings: want %d groups, got %d", len(groups), len(raw))
	}
	for i, group := range groups {
		if len(raw[i]) == 0 {
			continue
		}
		if err := json.Unmarshal(raw[i], group); err != nil {
			return fmt.Errorf("decode settings group %d: %w", i, err)
		}
	}
	return nil
}
