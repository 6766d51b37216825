package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Search is a saved Vinted search owned by a Discord user.
type Search struct {
	bun.BaseModel `bun:"table:searches"`

	SearchID        int        `bun:"search_id,pk,autoincrement" json:"search_id"`
	UserID          string     `bun:"user_id,notnull" json:"user_id"`
	GuildID         string     `bun:"guild_id" json:"guild_id"`
	ChannelID       string     `bun:"channel_id" json:"channel_id"`
	Keyword         string     `bun:"keyword,notnull" json:"keyword"`
	MinPrice        int        `bun:"min_price" json:"min_price"`
	MaxPrice        int        `bun:"max_price" json:"max_price"`
	Size            string     `bun:"size" json:"size"`
	Brand           string     `bun:"brand" json:"brand"`
	Condition       string     `bun:"condition" json:"condition"`
	Location        string     `bun:"location" json:"location"`
	DMNotifications bool       `bun:"dm_notifications,notnull,default:false" json:"dm_notifications"`
	Enabled         bool       `bun:"enabled,notnull,default:true" json:"enabled"`
	LastRun         *time.Time `bun:"last_run" json:"last_run,omitempty"`
	CreatedAt       time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Validate checks the search for invalid field combinations.
func (s *Search) Validate() error {
	var errors ValidationErrors

	if err := ValidateRequired("user_id", s.UserID); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateRequired("keyword", s.Keyword); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateLength("keyword", s.Keyword, 1, 100); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if s.MinPrice < 0 {
		errors = append(errors, ValidationError{Field: "min_price", Message: "must not be negative"})
	}

	if s.MaxPrice < 0 {
		errors = append(errors, ValidationError{Field: "max_price", Message: "must not be negative"})
	}

	if s.MinPrice > 0 && s.MaxPrice > 0 && s.MinPrice > s.MaxPrice {
		errors = append(errors, ValidationError{Field: "max_price", Message: "must not be below min_price"})
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// OwnedBy reports whether the search belongs to the given Discord user.
func (s *Search) OwnedBy(userID string) bool {
	return s.UserID == userID
}

// SearchRepository persists saved searches.
type SearchRepository interface {
	GetByID(id int) (*Search, error)
	GetByUser(userID string) ([]Search, error)
	GetEnabled() ([]Search, error)
	GetAll() ([]Search, error)
	Create(search *Search) error
	Update(search *Search) error
	Delete(id int) error
	TouchLastRun(id int, at time.Time) error
}
