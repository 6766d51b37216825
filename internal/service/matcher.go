package service

import (
	"strings"
	"unicode"

	"vintedwatch/internal/model"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases a string and strips diacritics, so that "Véste"
// matches "veste".
func Normalize(s string) string {
	normalized, _, err := transform.String(stripDiacritics, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(normalized)
}

// MatchesSearch re-checks a parsed listing against the search criteria.
// Vinted filters server-side, but catalog pages occasionally include
// sponsored or loosely related items; this keeps them out of
// notifications.
func MatchesSearch(search *model.Search, listing *model.Listing) bool {
	if search.MinPrice > 0 && listing.Price > 0 && listing.Price < float64(search.MinPrice) {
		return false
	}
	if search.MaxPrice > 0 && listing.Price > float64(search.MaxPrice) {
		return false
	}

	keyword := Normalize(search.Keyword)
	if keyword == "" {
		return true
	}

	haystack := Normalize(listing.Title + " " + listing.Brand)
	for _, token := range strings.Fields(keyword) {
		if !strings.Contains(haystack, token) {
			return false
		}
	}

	return true
}
