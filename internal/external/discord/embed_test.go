package discord

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"vintedwatch/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListingEmbed(t *testing.T) {
	listing := &model.Listing{
		ID:        "123",
		Title:     "Veste en jean Levis",
		Price:     25,
		PriceText: "25,00 €",
		URL:       "https://www.vinted.fr/items/123",
		ImageURL:  "https://images.vinted.net/t/123.jpg",
		Brand:     "Levis",
		Size:      "M",
		Condition: "Très bon état",
	}

	embed := BuildListingEmbed(listing, "fr")

	assert.Equal(t, "Veste en jean Levis", embed.Title)
	assert.Equal(t, listing.URL, embed.URL)
	assert.Contains(t, embed.Description, "Prix")
	assert.Contains(t, embed.Description, "25,00 €")
	require.NotNil(t, embed.Thumbnail)
	assert.Equal(t, listing.ImageURL, embed.Thumbnail.URL)
	assert.Len(t, embed.Fields, 3)
}

func TestBuildListingEmbed_TitleTruncated(t *testing.T) {
	listing := &model.Listing{
		ID:        "123",
		Title:     strings.Repeat("a", 300),
		PriceText: "5 €",
		URL:       "https://www.vinted.fr/items/123",
	}

	embed := BuildListingEmbed(listing, "en")
	assert.Len(t, embed.Title, embedTitleLimit)
	assert.Contains(t, embed.Description, "Price")
}

func TestBuildListingEmbed_TitleTruncatedOnRuneBoundary(t *testing.T) {
	listing := &model.Listing{
		ID:        "123",
		Title:     strings.Repeat("é", 300),
		PriceText: "5 €",
		URL:       "https://www.vinted.fr/items/123",
	}

	embed := BuildListingEmbed(listing, "fr")
	assert.True(t, utf8.ValidString(embed.Title))
	assert.Equal(t, embedTitleLimit, utf8.RuneCountInString(embed.Title))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "veste", truncate("veste", 10))
	assert.Equal(t, "ves", truncate("veste", 3))
	assert.Equal(t, "ééé", truncate("ééééé", 3))
	assert.True(t, utf8.ValidString(truncate(strings.Repeat("à", 60), 50)))
}

func TestBuildListingEmbed_OptionalFieldsOmitted(t *testing.T) {
	listing := &model.Listing{
		ID:        "123",
		Title:     "Jean slim",
		PriceText: "12,50 €",
		URL:       "https://www.vinted.fr/items/123",
	}

	embed := BuildListingEmbed(listing, "fr")
	assert.Nil(t, embed.Thumbnail)
	assert.Empty(t, embed.Fields)
}

func TestBuildSearchListEmbed(t *testing.T) {
	searches := []model.Search{
		{SearchID: 1, UserID: "42", Keyword: "levis", MinPrice: 10, MaxPrice: 40},
		{SearchID: 2, UserID: "42", Keyword: "nike air", DMNotifications: true},
	}

	embed := BuildSearchListEmbed(searches, "fr")
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "#1 - levis", embed.Fields[0].Name)
	assert.Contains(t, embed.Fields[0].Value, "Prix min: 10€")
	assert.Contains(t, embed.Fields[1].Value, "DM")
}

func TestBuildSearchListEmbed_Empty(t *testing.T) {
	embed := BuildSearchListEmbed(nil, "en")
	assert.Equal(t, "No active searches", embed.Description)
	assert.Empty(t, embed.Fields)
}

func TestBuildSearchListEmbed_FieldCap(t *testing.T) {
	var searches []model.Search
	for i := 1; i <= 30; i++ {
		searches = append(searches, model.Search{
			SearchID: i,
			UserID:   "42",
			Keyword:  fmt.Sprintf("keyword %d", i),
		})
	}

	embed := BuildSearchListEmbed(searches, "fr")
	assert.Len(t, embed.Fields, embedFieldLimit)
	require.NotNil(t, embed.Footer)
	assert.Contains(t, embed.Footer.Text, "5")
}

func TestGetText_Fallbacks(t *testing.T) {
	assert.Equal(t, "Price", getText("price", "en"))
	assert.Equal(t, "Prix", getText("price", "fr"))
	// Unknown language falls back to French.
	assert.Equal(t, "Prix", getText("price", "de"))
	// Unknown key falls back to the key itself.
	assert.Equal(t, "bogus", getText("bogus", "fr"))
}

func TestFormatSearchFilters(t *testing.T) {
	search := &model.Search{
		Keyword:   "levis",
		MinPrice:  10,
		MaxPrice:  40,
		Size:      "M",
		Brand:     "53",
		Condition: "2",
		Location:  "paris",
	}

	line := FormatSearchFilters(search)
	assert.Equal(t, "Prix min: 10€ | Prix max: 40€ | Taille: M | Marque: 53 | État: 2 | Localisation: paris", line)

	assert.Empty(t, FormatSearchFilters(&model.Search{Keyword: "levis"}))
}
