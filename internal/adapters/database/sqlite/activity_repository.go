package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tnvirji/pharmapos/internal/apperrors"
	"github.com/tnvirji/pharmapos/internal/core/domain"
	portsrepo "github.com/tnvirji/pharmapos/internal/core/ports/repositories"
)

// ActivityRepository is the SQLite implementation for the audit trail
// and replicated settings.
type ActivityRepository struct{}

// NewActivityRepository creates the activity repository.
func NewActivityRepository() portsrepo.ActivityRepository {
	return &ActivityRepository{}
}

func (r *ActivityRepository) SaveActivity(ctx context.Context, q sqlx.ExtContext, entry domain.ActivityLog) error {
	query := `
		INSERT INTO activity_log (activity_id, action, entity, entity_id, detail, created_at)
		VALUES (:activity_id, :action, :entity, :entity_id, :detail, :created_at);
	`
	if _, err := sqlx.NamedExecContext(ctx, q, query, entry); err != nil {
		return fmt.Errorf("failed to save activity %s: %w", entry.ActivityID, err)
	}
	return nil
}

func (r *ActivityRepository) ListActivities(ctx context.Context, q sqlx.ExtContext, limit, offset int) ([]domain.ActivityLog, error) {
	entries := []domain.ActivityLog{}
	err := sqlx.SelectContext(ctx, q, &entries,
		`SELECT * FROM activity_log ORDER BY created_at DESC LIMIT ? OFFSET ?;`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return entries, nil
}

func (r *ActivityRepository) SaveSetting(ctx context.Context, q sqlx.ExtContext, setting domain.Setting) error {
	query := `
		INSERT INTO settings (setting_key, setting_value, updated_at)
		VALUES (:setting_key, :setting_value, :updated_at)
		ON CONFLICT (setting_key) DO UPDATE SET
			setting_value = excluded.setting_value,
			updated_at = excluded.updated_at;
	`
	if _, err := sqlx.NamedExecContext(ctx, q, query, setting); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", setting.Key, err)
	}
	return nil
}

func (r *ActivityRepository) FindSetting(ctx context.Context, q sqlx.ExtContext, key string) (*domain.Setting, error) {
	var setting domain.Setting
	err := sqlx.GetContext(ctx, q, &setting, `SELECT * FROM settings WHERE setting_key = ?;`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find setting %s: %w", key, err)
	}
	return &setting, nil
}
