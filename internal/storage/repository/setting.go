package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vintedwatch/internal/model"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// SettingRepository implements model.SettingRepository on PostgreSQL.
type SettingRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewSettingRepository creates a new settings repository.
func NewSettingRepository(db *bun.DB, logger *zap.Logger) *SettingRepository {
	return &SettingRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns a setting value, or the empty string when the key is absent.
func (r *SettingRepository) Get(key string) (string, error) {
	ctx := context.Background()
	setting := new(model.Setting)

	err := r.db.NewSelect().
		Model(setting).
		Where("key = ?", key).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to query setting %q: %w", key, err)
	}

	return setting.Value, nil
}

// Set inserts or updates a setting value.
func (r *SettingRepository) Set(key, value string) error {
	ctx := context.Background()

	setting := &model.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	_, err := r.db.NewInsert().
		Model(setting).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to upsert setting %q: %w", key, err)
	}

	r.logger.Debug("Setting updated", zap.String("key", key))
	return nil
}
