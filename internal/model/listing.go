package model

import "time"

// Listing is a single Vinted item extracted from a catalog page.
// Listings are not persisted, only their ids are (see SeenListing).
type Listing struct {
	ID        string    `json:"id"`
	SearchID  int       `json:"search_id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	PriceText string    `json:"price_text"`
	URL       string    `json:"url"`
	ImageURL  string    `json:"image_url,omitempty"`
	Brand     string    `json:"brand,omitempty"`
	Size      string    `json:"size,omitempty"`
	Condition string    `json:"condition,omitempty"`
	PostedAt  time.Time `json:"posted_at"`
}

// Validate checks that a listing carries enough data to be notified.
func (l *Listing) Validate() error {
	var errors ValidationErrors

	if err := ValidateRequired("id", l.ID); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateRequired("title", l.Title); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if l.URL != "" {
		if err := ValidateURL("url", l.URL); err != nil {
			errors = append(errors, err.(ValidationError))
		}
	} else {
		errors = append(errors, ValidationError{Field: "url", Message: "is required"})
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}
