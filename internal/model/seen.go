package model

import (
	"time"

	"github.com/uptrace/bun"
)

// SeenListing marks a listing id as already notified. Rows older than the
// configured retention are expired by the maintenance job; a listing id is
// notified at most once within that window.
type SeenListing struct {
	bun.BaseModel `bun:"table:seen_listings"`

	ListingID string    `bun:"listing_id,pk" json:"listing_id"`
	FirstSeen time.Time `bun:"first_seen,notnull,default:current_timestamp" json:"first_seen"`
}

// SeenListingRepository persists the set of already-notified listing ids.
type SeenListingRepository interface {
	Contains(listingID string) (bool, error)
	Add(listingID string, seenAt time.Time) error
	// FilterNew returns the subset of ids not yet in the seen set.
	FilterNew(listingIDs []string) ([]string, error)
	// DeleteOlderThan removes entries first seen before the cutoff and
	// returns how many rows were removed.
	DeleteOlderThan(cutoff time.Time) (int, error)
	Count() (int, error)
}
