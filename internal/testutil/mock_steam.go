// Package testutil provides a mock Steam appreviews server for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// MockAuthor mirrors the author object of the reviews API
type MockAuthor struct {
	SteamID              string `json:"steamid"`
	NumGamesOwned        int    `json:"num_games_owned"`
	NumReviews           int    `json:"num_reviews"`
	PlaytimeForever      int    `json:"playtime_forever"`
	PlaytimeLastTwoWeeks int    `json:"playtime_last_two_weeks"`
}

// MockReview mirrors one entry of the reviews array
type MockReview struct {
	RecommendationID string     `json:"recommendationid"`
	Author           MockAuthor `json:"author"`
	Language         string     `json:"language"`
	Review           string     `json:"review"`
	TimestampUpdated int64      `json:"timestamp_updated"`
	VotedUp          bool       `json:"voted_up"`
	ReceivedForFree  bool       `json:"received_for_free"`
}

type mockPage struct {
	next    string
	reviews []MockReview
}

type mockFailure struct {
	status int
	body   string
}

// MockSteam serves /appreviews/{app_id}. Pages are keyed by the decoded cursor
// query parameter, so a cursor that was escaped incorrectly misses its page.
type MockSteam struct {
	server *httptest.Server
	appID  int

	mu           sync.Mutex
	totalReviews int
	pages        map[string]mockPage
	failures     map[string][]mockFailure
	requests     []string
	lastHeader   http.Header
}

// NewMockSteam starts a mock server for appID
func NewMockSteam(appID int) *MockSteam {
	m := &MockSteam{
		appID:    appID,
		pages:    make(map[string]mockPage),
		failures: make(map[string][]mockFailure),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(fmt.Sprintf("/appreviews/%d", appID), m.handleReviews)
	m.server = httptest.NewServer(mux)

	return m
}

// URL returns the mock server URL
func (m *MockSteam) URL() string {
	return m.server.URL
}

// Close shuts down the mock server
func (m *MockSteam) Close() {
	m.server.Close()
}

// SetTotalReviews sets query_summary.total_reviews on the first page
func (m *MockSteam) SetTotalReviews(total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalReviews = total
}

// SetPage configures the response to a request for cursor. next is returned
// raw, exactly as the real API does.
func (m *MockSteam) SetPage(cursor, next string, reviews ...MockReview) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[cursor] = mockPage{next: next, reviews: reviews}
}

// SetChain configures "*" -> cursors[0] -> cursors[1] ... with one generated
// review per page
func (m *MockSteam) SetChain(cursors ...string) {
	prev := "*"
	for i, next := range cursors {
		m.SetPage(prev, next, MockReview{
			RecommendationID: fmt.Sprintf("%d", 1000+i),
			Author:           MockAuthor{SteamID: fmt.Sprintf("7656119%010d", i)},
			Language:         "english",
			Review:           fmt.Sprintf("Review number %d is here. It was fine.", i),
			TimestampUpdated: int64(1700000000 + i),
			VotedUp:          i%2 == 0,
		})
		prev = next
	}
}

// FailStatus makes the next `times` requests for cursor return status
func (m *MockSteam) FailStatus(cursor string, status, times int) {
	m.addFailure(cursor, mockFailure{status: status}, times)
}

// FailAPI makes the next `times` requests for cursor return HTTP 200 with success 2
func (m *MockSteam) FailAPI(cursor string, times int) {
	m.addFailure(cursor, mockFailure{status: http.StatusOK, body: `{"success":2}`}, times)
}

// FailMalformed makes the next `times` requests for cursor return a body that is not JSON
func (m *MockSteam) FailMalformed(cursor string, times int) {
	m.addFailure(cursor, mockFailure{status: http.StatusOK, body: "<html>busy</html>"}, times)
}

func (m *MockSteam) addFailure(cursor string, f mockFailure, times int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < times; i++ {
		m.failures[cursor] = append(m.failures[cursor], f)
	}
}

// Requests returns the decoded cursors of every request received, in order
func (m *MockSteam) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.requests))
	copy(out, m.requests)
	return out
}

// RequestCount returns the number of requests received
func (m *MockSteam) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// LastHeader returns the headers of the most recent request
func (m *MockSteam) LastHeader() http.Header {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastHeader
}

// handleReviews rejects requests missing the fixed query parameters with a 400
func (m *MockSteam) handleReviews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	cursor := query.Get("cursor")

	m.mu.Lock()
	m.requests = append(m.requests, cursor)
	m.lastHeader = r.Header.Clone()

	var failure *mockFailure
	if queue := m.failures[cursor]; len(queue) > 0 {
		failure = &queue[0]
		m.failures[cursor] = queue[1:]
	}
	page, known := m.pages[cursor]
	total := m.totalReviews
	m.mu.Unlock()

	if query.Get("json") != "1" || query.Get("filter") != "updated" ||
		query.Get("review_type") != "all" || query.Get("purchase_type") != "all" ||
		query.Get("num_per_page") != "100" || strings.TrimSpace(query.Get("language")) == "" {
		http.Error(w, "bad query", http.StatusBadRequest)
		return
	}

	if failure != nil {
		w.WriteHeader(failure.status)
		if failure.body != "" {
			w.Write([]byte(failure.body))
		}
		return
	}

	// Past the end the real API keeps returning the same cursor with no reviews
	next := cursor
	reviews := []MockReview{}
	if known {
		next = page.next
		reviews = page.reviews
	}

	summary := map[string]interface{}{"num_reviews": len(reviews)}
	if cursor == "*" {
		summary["total_reviews"] = total
		summary["review_score"] = 8
		summary["review_score_desc"] = "Very Positive"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":       1,
		"query_summary": summary,
		"reviews":       reviews,
		"cursor":        next,
	})
}
