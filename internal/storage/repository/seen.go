package repository

import (
	"context"
	"fmt"
	"time"

	"vintedwatch/internal/model"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// SeenListingRepository implements model.SeenListingRepository on PostgreSQL.
type SeenListingRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewSeenListingRepository creates a new seen listing repository.
func NewSeenListingRepository(db *bun.DB, logger *zap.Logger) *SeenListingRepository {
	return &SeenListingRepository{
		db:     db,
		logger: logger,
	}
}

// Contains reports whether a listing id has already been notified.
func (r *SeenListingRepository) Contains(listingID string) (bool, error) {
	ctx := context.Background()

	exists, err := r.db.NewSelect().
		Model((*model.SeenListing)(nil)).
		Where("listing_id = ?", listingID).
		Exists(ctx)

	if err != nil {
		return false, fmt.Errorf("failed to check seen listing: %w", err)
	}

	return exists, nil
}

// Add marks a listing id as seen. Re-adding an existing id is not an error.
func (r *SeenListingRepository) Add(listingID string, seenAt time.Time) error {
	ctx := context.Background()

	seen := &model.SeenListing{
		ListingID: listingID,
		FirstSeen: seenAt,
	}

	_, err := r.db.NewInsert().
		Model(seen).
		On("CONFLICT (listing_id) DO NOTHING").
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to insert seen listing: %w", err)
	}

	return nil
}

// FilterNew returns the subset of ids not yet in the seen set, preserving
// the input order.
func (r *SeenListingRepository) FilterNew(listingIDs []string) ([]string, error) {
	if len(listingIDs) == 0 {
		return nil, nil
	}

	ctx := context.Background()
	var seen []model.SeenListing

	err := r.db.NewSelect().
		Model(&seen).
		Where("listing_id IN (?)", bun.In(listingIDs)).
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to query seen listings: %w", err)
	}

	known := make(map[string]struct{}, len(seen))
	for _, s := range seen {
		known[s.ListingID] = struct{}{}
	}

	var fresh []string
	for _, id := range listingIDs {
		if _, ok := known[id]; !ok {
			fresh = append(fresh, id)
		}
	}

	return fresh, nil
}

// DeleteOlderThan expires seen entries first seen before the cutoff.
func (r *SeenListingRepository) DeleteOlderThan(cutoff time.Time) (int, error) {
	ctx := context.Background()

	res, err := r.db.NewDelete().
		Model((*model.SeenListing)(nil)).
		Where("first_seen < ?", cutoff).
		Exec(ctx)

	if err != nil {
		return 0, fmt.Errorf("failed to expire seen listings: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count expired seen listings: %w", err)
	}

	if affected > 0 {
		r.logger.Info("Expired seen listings",
			zap.Int64("removed", affected),
			zap.Time("cutoff", cutoff))
	}

	return int(affected), nil
}

// Count returns the number of entries in the seen set.
func (r *SeenListingRepository) Count() (int, error) {
	ctx := context.Background()

	count, err := r.db.NewSelect().
		Model((*model.SeenListing)(nil)).
		Count(ctx)

	if err != nil {
		return 0, fmt.Errorf("failed to count seen listings: %w", err)
	}

	return count, nil
}
