package steam

// Page is one response of the appreviews endpoint
type Page struct {
	Success      int          `json:"success"`
	QuerySummary QuerySummary `json:"query_summary"`
	Reviews      []Review     `json:"reviews"`
	Cursor       string       `json:"cursor"`
}

// Succeeded reports whether the API flagged the response as successful
func (p *Page) Succeeded() bool {
	return p.Success == 1
}

// QuerySummary carries totals. Only the first page (cursor "*") fills every
// field; later pages return num_reviews alone.
type QuerySummary struct {
	NumReviews      int    `json:"num_reviews"`
	ReviewScore     int    `json:"review_score,omitempty"`
	ReviewScoreDesc string `json:"review_score_desc,omitempty"`
	TotalPositive   int    `json:"total_positive,omitempty"`
	TotalNegative   int    `json:"total_negative,omitempty"`
	TotalReviews    int    `json:"total_reviews,omitempty"`
}

// Review is a single user review
type Review struct {
	RecommendationID         string `json:"recommendationid"`
	Author                   Author `json:"author"`
	Language                 string `json:"language"`
	Review                   string `json:"review"`
	TimestampCreated         int64  `json:"timestamp_created"`
	TimestampUpdated         int64  `json:"timestamp_updated"`
	VotedUp                  bool   `json:"voted_up"`
	VotesUp                  int64  `json:"votes_up"`
	VotesFunny               int64  `json:"votes_funny"`
	CommentCount             int64  `json:"comment_count"`
	SteamPurchase            bool   `json:"steam_purchase"`
	ReceivedForFree          bool   `json:"received_for_free"`
	WrittenDuringEarlyAccess bool   `json:"written_during_early_access"`
}

// Author describes the reviewer at the time the page was fetched
type Author struct {
	SteamID              string `json:"steamid"`
	NumGamesOwned        int    `json:"num_games_owned"`
	NumReviews           int    `json:"num_reviews"`
	PlaytimeForever      int    `json:"playtime_forever"`
	PlaytimeLastTwoWeeks int    `json:"playtime_last_two_weeks"`
	PlaytimeAtReview     int    `json:"playtime_at_review,omitempty"`
	LastPlayed           int64  `json:"last_played,omitempty"`
}
