package steam

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the Steam store host serving the reviews API
	BaseURL = "https://store.steampowered.com"

	// ReviewsEndpoint is the path prefix, followed by the app id
	ReviewsEndpoint = "/appreviews/"

	// ReviewsPerPage is the page size requested from the API. It is fixed; the
	// collector's page budget is derived from it.
	ReviewsPerPage = 100

	// Fixed query parameters
	filterUpdated   = "updated"
	reviewTypeAll   = "all"
	purchaseTypeAll = "all"
)

// GetReviewsURL constructs the URL for one page of reviews. The cursor is
// inserted as is and must already be escaped.
func GetReviewsURL(baseURL string, appID int, language string, cursor Cursor) string {
	if baseURL == "" {
		baseURL = BaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	return fmt.Sprintf("%s%s%d?json=1&language=%s&filter=%s&review_type=%s&purchase_type=%s&cursor=%s&num_per_page=%d",
		baseURL, ReviewsEndpoint, appID,
		url.QueryEscape(language),
		filterUpdated, reviewTypeAll, purchaseTypeAll,
		cursor, ReviewsPerPage)
}
