package vinted

import (
	"fmt"
	"net/url"
	"strconv"

	"vintedwatch/internal/model"
)

// BuildSearchURL builds a Vinted catalog URL from saved search criteria.
func BuildSearchURL(baseURL string, search *model.Search) string {
	params := url.Values{}

	if search.Keyword != "" {
		params.Set("search_text", search.Keyword)
	}
	if search.MinPrice > 0 {
		params.Set("price_from", strconv.Itoa(search.MinPrice))
	}
	if search.MaxPrice > 0 {
		params.Set("price_to", strconv.Itoa(search.MaxPrice))
	}
	if search.Size != "" {
		params.Set("size_ids[]", search.Size)
	}
	if search.Brand != "" {
		params.Set("brand_ids[]", search.Brand)
	}
	if search.Condition != "" {
		params.Set("status_ids[]", search.Condition)
	}
	if search.Location != "" {
		params.Set("city", search.Location)
	}

	catalog := baseURL + "/catalog"
	if len(params) == 0 {
		return catalog
	}
	return fmt.Sprintf("%s?%s", catalog, params.Encode())
}
