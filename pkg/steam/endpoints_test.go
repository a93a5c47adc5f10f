package steam

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReviewsURL(t *testing.T) {
	got := GetReviewsURL("https://store.steampowered.com", 1091500, "english", InitialCursor)
	assert.Equal(t,
		"https://store.steampowered.com/appreviews/1091500?json=1&language=english&filter=updated&review_type=all&purchase_type=all&cursor=*&num_per_page=100",
		got)
}

func TestGetReviewsURLKeepsEscapedCursor(t *testing.T) {
	cursor := EscapeCursor("AoJ+w/8=")
	got := GetReviewsURL("http://localhost:8080/", 10, "english", cursor)

	assert.Contains(t, got, "cursor=AoJ%2Bw/8%3D&")
	assert.Contains(t, got, "http://localhost:8080/appreviews/10?")

	parsed, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "AoJ+w/8=", parsed.Query().Get("cursor"))
}

func TestGetReviewsURLDefaults(t *testing.T) {
	got := GetReviewsURL("", 1, "schinese", InitialCursor)
	assert.Contains(t, got, BaseURL+ReviewsEndpoint+"1?")
	assert.Contains(t, got, "language=schinese")
	assert.Contains(t, got, "num_per_page=100")
}
