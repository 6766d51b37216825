package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearch_Validate(t *testing.T) {
	tests := []struct {
		name    string
		search  Search
		wantErr bool
	}{
		{
			name:    "valid search",
			search:  Search{UserID: "123456789", Keyword: "levis 501"},
			wantErr: false,
		},
		{
			name:    "missing user id",
			search:  Search{Keyword: "levis 501"},
			wantErr: true,
		},
		{
			name:    "missing keyword",
			search:  Search{UserID: "123456789"},
			wantErr: true,
		},
		{
			name:    "negative min price",
			search:  Search{UserID: "123456789", Keyword: "levis", MinPrice: -5},
			wantErr: true,
		},
		{
			name:    "min price above max price",
			search:  Search{UserID: "123456789", Keyword: "levis", MinPrice: 50, MaxPrice: 20},
			wantErr: true,
		},
		{
			name:    "price range valid",
			search:  Search{UserID: "123456789", Keyword: "levis", MinPrice: 10, MaxPrice: 40},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.search.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Search.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearch_OwnedBy(t *testing.T) {
	s := Search{UserID: "42"}
	assert.True(t, s.OwnedBy("42"))
	assert.False(t, s.OwnedBy("43"))
}

func TestListing_Validate(t *testing.T) {
	valid := Listing{ID: "123", Title: "Veste en jean", URL: "https://www.vinted.fr/items/123"}
	assert.NoError(t, valid.Validate())

	missingURL := Listing{ID: "123", Title: "Veste en jean"}
	assert.Error(t, missingURL.Validate())

	badURL := Listing{ID: "123", Title: "Veste", URL: "not a url"}
	assert.Error(t, badURL.Validate())
}
