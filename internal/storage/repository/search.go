// Package repository contains the database repositories.
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

// SearchRepository implements model.SearchRepository on PostgreSQL.
type SearchRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewSearchRepository creates a new search repository.
func NewSearchRepository(db *bun.DB, logger *zap.Logger) *SearchRepository {
	return &SearchRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID returns a search by id, or nil when not found.
func (r *SearchRepository) GetByID(id int) (*model.Search, error) {
	ctx := context.Background()
	search := new(model.Search)

	err := r.db.NewSelect().
		Model(search).
		Where("search_id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query search by ID: %w", err)
	}

	return search, nil
}

// GetByUser returns all searches owned by a Discord user.
func (r *SearchRepository) GetByUser(userID string) ([]model.Search, error) {
	ctx := context.Background()
	var searches []model.Search

	err := r.db.NewSelect().
		Model(&searches).
		Where("user_id = ?", userID).
		Order("search_id ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to query searches by user: %w", err)
	}

	return searches, nil
}

// GetEnabled returns all enabled searches.
func (r *SearchRepository) GetEnabled() ([]model.Search, error) {
	ctx := context.Background()
	var searches []model.Search

	err := r.db.NewSelect().
		Model(&searches).
		Where("enabled = ?", true).
		Order("search_id ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to query enabled searches: %w", err)
	}

	return searches, nil
}

// GetAll returns every saved search.
func (r *SearchRepository) GetAll() ([]model.Search, error) {
	ctx := context.Background()
	var searches []model.Search

	err := r.db.NewSelect().
		Model(&searches).
		Order("search_id ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to query searches: %w", err)
	}

	return searches, nil
}

// Create inserts a new search and fills in its generated id.
func (r *SearchRepository) Create(search *model.Search) error {
	ctx := context.Background()

	if err := search.Validate(); err != nil {
		return fmt.Errorf("invalid search: %w", err)
	}

	search.CreatedAt = time.Now()
	search.UpdatedAt = search.CreatedAt

	_, err := r.db.NewInsert().
		Model(search).
		Returning("search_id").
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to insert search: %w", err)
	}

	r.logger.Debug("Search created",
		zap.Int("search_id", search.SearchID),
		zap.String("user_id", search.UserID),
		zap.String("keyword", search.Keyword))

	return nil
}

// Update saves changes to an existing search.
func (r *SearchRepository) Update(search *model.Search) error {
	ctx := context.Background()

	if err := search.Validate(); err != nil {
		return fmt.Errorf("invalid search: %w", err)
	}

	search.UpdatedAt = time.Now()

	res, err := r.db.NewUpdate().
		Model(search).
		WherePK().
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update search: %w", err)
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("search %d not found", search.SearchID)
	}

	return nil
}

// Delete removes a search by id.
func (r *SearchRepository) Delete(id int) error {
	ctx := context.Background()

	res, err := r.db.NewDelete().
		Model((*model.Search)(nil)).
		Where("search_id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete search: %w", err)
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("search %d not found", id)
	}

	return nil
}

// TouchLastRun records when a search was last processed.
func (r *SearchRepository) TouchLastRun(id int, at time.Time) error {
	ctx := context.Background()

	_, err := r.db.NewUpdate().
		Model((*model.Search)(nil)).
		Set("last_run = ?", at).
		Set("updated_at = ?", at).
		Where("search_id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to touch last_run: %w", err)
	}

	return nil
}
