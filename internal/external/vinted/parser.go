package vinted

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"
	"time"

	"vintedwatch/internal/model"

	"github.com/PuerkitoBio/goquery"
)

// Vinted renames its CSS classes regularly; the data-testid selectors have
// been the most stable so far.
const itemBoxSelector = `.feed-grid__item, .item-box, [data-testid="item-box"]`

var itemIDPattern = regexp.MustCompile(`/items/(\d+)`)

// parseItemBox extracts a listing from a single catalog item box.
// It returns nil when the box misses mandatory fields.
func parseItemBox(sel *goquery.Selection, baseURL string, search *model.Search, now time.Time) *model.Listing {
	title := strings.TrimSpace(sel.Find(`.item-title, [data-testid="item-title"]`).First().Text())
	priceText := strings.TrimSpace(sel.Find(`.item-price, [data-testid="item-price"]`).First().Text())

	link := sel.Find(`a[href*="/items/"]`).First()
	href, ok := link.Attr("href")
	if title == "" || priceText == "" || !ok {
		return nil
	}

	if !strings.HasPrefix(href, "http") {
		href = baseURL + href
	}

	listing := &model.Listing{
		ID:        extractListingID(href),
		SearchID:  search.SearchID,
		Title:     title,
		Price:     extractPrice(priceText),
		PriceText: priceText,
		URL:       href,
		Brand:     strings.TrimSpace(sel.Find(`[data-testid="item-brand"]`).First().Text()),
		Size:      strings.TrimSpace(sel.Find(`[data-testid="item-size"]`).First().Text()),
		Condition: strings.TrimSpace(sel.Find(`[data-testid="item-status"]`).First().Text()),
		PostedAt:  now,
	}

	if img, ok := sel.Find("img").First().Attr("src"); ok {
		listing.ImageURL = img
	}

	if err := listing.Validate(); err != nil {
		return nil
	}

	return listing
}

// extractPrice converts a price label like "15,00 €" to a float amount.
// Unparseable labels yield zero rather than an error.
func extractPrice(priceText string) float64 {
	cleaned := strings.NewReplacer(
		"€", "",
		" ", "",
		" ", "",
		",", ".",
	).Replace(priceText)

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return price
}

// extractListingID pulls the numeric item id out of a listing URL, falling
// back to a hash of the URL when the structure changed.
func extractListingID(listingURL string) string {
	if match := itemIDPattern.FindStringSubmatch(listingURL); len(match) == 2 {
		return match[1]
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(listingURL))
	return fmt.Sprintf("u%x", h.Sum64())
}
