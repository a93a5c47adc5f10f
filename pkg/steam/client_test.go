package steam

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mock "steamreviews/internal/testutil"
	"steamreviews/pkg/config"
	errs "steamreviews/pkg/errors"
	"steamreviews/pkg/logger"
	"steamreviews/pkg/metrics"
)

const testAppID = 1091500

// mockRoundTripper allows us to intercept HTTP requests
type mockRoundTripper struct {
	handler func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.handler(req)
}

func newTestConfig(baseURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Steam.BaseURL = baseURL
	cfg.Steam.AppID = testAppID
	cfg.HTTP.Timeout = 5 * time.Second
	return cfg
}

func TestNewClient(t *testing.T) {
	cfg := newTestConfig("http://example.invalid")
	client := NewClient(cfg, nil)

	require.NotNil(t, client)
	assert.Equal(t, testAppID, client.appID)
	assert.Equal(t, "english", client.language)
	assert.Equal(t, cfg.HTTP.UserAgent, client.headers["User-Agent"])
	assert.NotNil(t, client.logger)
	assert.NotNil(t, client.limiter)
}

func TestTotalCount(t *testing.T) {
	server := mock.NewMockSteam(testAppID)
	defer server.Close()
	server.SetTotalReviews(250)
	server.SetChain("c1")

	log := logger.NewTestLogger()
	client := NewClient(newTestConfig(server.URL()), log)

	total, err := client.TotalCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 250, total)
	assert.Equal(t, []string{"*"}, server.Requests())
	assert.True(t, log.HasMessage("hitting "))
	assert.Equal(t, "steamreviews/1.0", server.LastHeader().Get("User-Agent"))
}

func TestTotalCountTransportFailure(t *testing.T) {
	server := mock.NewMockSteam(testAppID)
	defer server.Close()
	server.FailStatus("*", http.StatusServiceUnavailable, 1)

	client := NewClient(newTestConfig(server.URL()), nil)

	_, err := client.TotalCount(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsTransport(err))

	var typed *errs.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, http.StatusServiceUnavailable, typed.Code)
}

func TestFetchPage(t *testing.T) {
	server := mock.NewMockSteam(testAppID)
	defer server.Close()
	server.SetTotalReviews(200)
	server.SetPage("*", "AoJ+w/8=", mock.MockReview{
		RecommendationID: "1",
		Author:           mock.MockAuthor{SteamID: "76561198000000001", NumGamesOwned: 12},
		Review:           "Great game.",
		VotedUp:          true,
		TimestampUpdated: 1700000000,
	})
	server.SetPage("AoJ+w/8=", "AoJ+x/9=")

	rec := metrics.NewPrometheus()
	client := NewClient(newTestConfig(server.URL()), nil, WithMetrics(rec))

	resp, err := client.FetchPage(context.Background(), InitialCursor)
	require.NoError(t, err)
	assert.True(t, resp.Page.Succeeded())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "AoJ+w/8=", resp.Page.Cursor)
	require.Len(t, resp.Page.Reviews, 1)
	assert.Equal(t, "76561198000000001", resp.Page.Reviews[0].Author.SteamID)
	assert.Equal(t, 12, resp.Page.Reviews[0].Author.NumGamesOwned)
	assert.Contains(t, string(resp.Raw), `"cursor":"AoJ+w/8="`)

	// The escaped cursor must decode back to the raw one on the server side
	resp, err = client.FetchPage(context.Background(), EscapeCursor(resp.Page.Cursor))
	require.NoError(t, err)
	assert.Equal(t, "AoJ+x/9=", resp.Page.Cursor)
	assert.Equal(t, []string{"*", "AoJ+w/8="}, server.Requests())

	expected := `
# HELP steamreviews_requests_total Total review API requests by endpoint and status
# TYPE steamreviews_requests_total counter
steamreviews_requests_total{endpoint="page",status="200"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected), "steamreviews_requests_total"))
}

func TestFetchPageAPIFailure(t *testing.T) {
	server := mock.NewMockSteam(testAppID)
	defer server.Close()
	server.FailAPI("*", 1)

	client := NewClient(newTestConfig(server.URL()), nil)

	resp, err := client.FetchPage(context.Background(), InitialCursor)
	require.Error(t, err)
	assert.True(t, errs.IsAPI(err))
	require.NotNil(t, resp)
	assert.Equal(t, 2, resp.Page.Success)
}

func TestFetchPageMalformed(t *testing.T) {
	server := mock.NewMockSteam(testAppID)
	defer server.Close()
	server.FailMalformed("*", 1)

	log := logger.NewTestLogger()
	client := NewClient(newTestConfig(server.URL()), log)

	resp, err := client.FetchPage(context.Background(), InitialCursor)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, errs.ErrorTypeParsing, errs.TypeOf(err))
	assert.True(t, log.HasMessage("failed to parse JSON response"))
}

func TestFetchPageStatusCodes(t *testing.T) {
	tests := []struct {
		status  int
		wantErr bool
	}{
		{http.StatusBadRequest, true},
		{http.StatusForbidden, true},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := mock.NewMockSteam(testAppID)
			defer server.Close()
			server.FailStatus("*", tt.status, 1)

			client := NewClient(newTestConfig(server.URL()), nil)
			_, err := client.FetchPage(context.Background(), InitialCursor)

			require.Error(t, err)
			assert.True(t, errs.IsTransport(err))
		})
	}
}

func TestFetchPageNetworkError(t *testing.T) {
	hc := &http.Client{Transport: &mockRoundTripper{handler: func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection reset by peer")
	}}}

	log := logger.NewTestLogger()
	client := NewClient(newTestConfig("http://steam.invalid"), log, WithHTTPClient(hc))

	_, err := client.FetchPage(context.Background(), InitialCursor)
	require.Error(t, err)
	assert.True(t, errs.IsTransport(err))
	assert.Contains(t, err.Error(), "connection reset by peer")
	assert.True(t, log.HasMessage("HTTP request failed"))
}

func TestFetchPageCancelled(t *testing.T) {
	server := mock.NewMockSteam(testAppID)
	defer server.Close()

	client := NewClient(newTestConfig(server.URL()), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchPage(ctx, InitialCursor)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, server.RequestCount())
}

func TestFetchPagePastTheEnd(t *testing.T) {
	server := mock.NewMockSteam(testAppID)
	defer server.Close()

	client := NewClient(newTestConfig(server.URL()), nil)

	resp, err := client.FetchPage(context.Background(), EscapeCursor("last/page="))
	require.NoError(t, err)
	assert.Empty(t, resp.Page.Reviews)
	assert.Equal(t, "last/page=", resp.Page.Cursor)
}
