package vinted

import (
	"strings"
	"testing"
	"time"

	"vintedwatch/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogFixture = `
<html><body>
<div class="feed-grid">
  <div data-testid="item-box">
    <a href="/items/123456789-veste-en-jean">
      <img src="https://images.vinted.net/t/123.jpg"/>
    </a>
    <div data-testid="item-title">Veste en jean Levis</div>
    <div data-testid="item-price">25,00 &euro;</div>
    <div data-testid="item-brand">Levis</div>
    <div data-testid="item-size">M</div>
    <div data-testid="item-status">Très bon état</div>
  </div>
  <div data-testid="item-box">
    <a href="https://www.vinted.fr/items/987654321-jean-slim">
    </a>
    <div data-testid="item-title">Jean slim</div>
    <div data-testid="item-price">12,50 &euro;</div>
  </div>
  <div data-testid="item-box">
    <div data-testid="item-title">Annonce sans lien</div>
    <div data-testid="item-price">5,00 &euro;</div>
  </div>
</div>
</body></html>`

func parseFixture(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseItemBox(t *testing.T) {
	doc := parseFixture(t, catalogFixture)
	search := &model.Search{SearchID: 7, Keyword: "levis"}
	now := time.Now()

	var listings []model.Listing
	doc.Find(itemBoxSelector).Each(func(_ int, sel *goquery.Selection) {
		if l := parseItemBox(sel, "https://www.vinted.fr", search, now); l != nil {
			listings = append(listings, *l)
		}
	})

	require.Len(t, listings, 2, "the box without a link must be skipped")

	first := listings[0]
	assert.Equal(t, "123456789", first.ID)
	assert.Equal(t, 7, first.SearchID)
	assert.Equal(t, "Veste en jean Levis", first.Title)
	assert.Equal(t, 25.0, first.Price)
	assert.Equal(t, "https://www.vinted.fr/items/123456789-veste-en-jean", first.URL)
	assert.Equal(t, "https://images.vinted.net/t/123.jpg", first.ImageURL)
	assert.Equal(t, "Levis", first.Brand)
	assert.Equal(t, "M", first.Size)
	assert.Equal(t, "Très bon état", first.Condition)

	second := listings[1]
	assert.Equal(t, "987654321", second.ID)
	assert.Equal(t, 12.5, second.Price)
	assert.Empty(t, second.Brand)
}

func TestParseItemBox_StructureDrift(t *testing.T) {
	doc := parseFixture(t, `<html><body><div class="totally-new-layout"></div></body></html>`)
	search := &model.Search{SearchID: 1, Keyword: "levis"}

	count := 0
	doc.Find(itemBoxSelector).Each(func(_ int, sel *goquery.Selection) {
		if parseItemBox(sel, "https://www.vinted.fr", search, time.Now()) != nil {
			count++
		}
	})

	assert.Zero(t, count)
}

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"25,00 €", 25.0},
		{"12,50 €", 12.5},
		{"1 200,00 €", 1200.0},
		{"15€", 15.0},
		{"gratuit", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractPrice(tt.in), "input %q", tt.in)
	}
}

func TestExtractListingID(t *testing.T) {
	assert.Equal(t, "123456789",
		extractListingID("https://www.vinted.fr/items/123456789-veste-en-jean"))

	// URLs without a numeric id fall back to a stable hash.
	first := extractListingID("https://www.vinted.fr/weird/path")
	second := extractListingID("https://www.vinted.fr/weird/path")
	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "u"))

	other := extractListingID("https://www.vinted.fr/other/path")
	assert.NotEqual(t, first, other)
}
