package vinted

import (
	"testing"

	"vintedwatch/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestBuildSearchURL(t *testing.T) {
	base := "https://www.vinted.fr"

	tests := []struct {
		name   string
		search model.Search
		want   string
	}{
		{
			name:   "keyword only",
			search: model.Search{Keyword: "levis 501"},
			want:   "https://www.vinted.fr/catalog?search_text=levis+501",
		},
		{
			name:   "no criteria",
			search: model.Search{},
			want:   "https://www.vinted.fr/catalog",
		},
		{
			name: "price range",
			search: model.Search{
				Keyword:  "veste",
				MinPrice: 10,
				MaxPrice: 40,
			},
			want: "https://www.vinted.fr/catalog?price_from=10&price_to=40&search_text=veste",
		},
		{
			name: "all filters",
			search: model.Search{
				Keyword:   "sneakers",
				MinPrice:  5,
				MaxPrice:  80,
				Size:      "42",
				Brand:     "53",
				Condition: "2",
				Location:  "paris",
			},
			want: "https://www.vinted.fr/catalog?brand_ids%5B%5D=53&city=paris&price_from=5&price_to=80&search_text=sneakers&size_ids%5B%5D=42&status_ids%5B%5D=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildSearchURL(base, &tt.search))
		})
	}
}
