package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"steamreviews/pkg/config"
	errs "steamreviews/pkg/errors"
	"steamreviews/pkg/logger"
	"steamreviews/pkg/metrics"
	"steamreviews/pkg/ratelimit"
)

// PageResponse is a decoded page together with the exact bytes received
type PageResponse struct {
	Raw        []byte
	Page       Page
	StatusCode int
}

// Client talks to the Steam appreviews endpoint for a single app
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	appID      int
	language   string
	limiter    ratelimit.RequestLimiter
	metrics    metrics.Recorder
	logger     logger.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRequestLimiter caps the request rate
func WithRequestLimiter(l ratelimit.RequestLimiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithMetrics records request counts and latency
func WithMetrics(r metrics.Recorder) Option {
	return func(c *Client) {
		c.metrics = metrics.OrNop(r)
	}
}

// NewClient creates a client for the app, language and host named in cfg
func NewClient(cfg *config.Config, log logger.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.HTTP.Timeout,
		},
		headers: map[string]string{
			"User-Agent": cfg.HTTP.UserAgent,
			"Accept":     "application/json",
		},
		baseURL:  cfg.Steam.BaseURL,
		appID:    cfg.Steam.AppID,
		language: cfg.Steam.Language,
		limiter:  ratelimit.NewRequestLimiter(cfg.HTTP.RequestsPerMinute),
		metrics:  metrics.Nop{},
		logger:   logger.OrNop(log),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// TotalCount probes the first page and returns the declared total review
// count. The response is not cached and its success flag is not inspected.
func (c *Client) TotalCount(ctx context.Context) (int, error) {
	resp, err := c.get(ctx, metrics.EndpointCount, InitialCursor)
	if err != nil {
		return 0, err
	}

	total := resp.Page.QuerySummary.TotalReviews
	c.logger.InfoWithFields("review count probed", map[string]interface{}{
		"app_id":        c.appID,
		"total_reviews": total,
	})

	return total, nil
}

// FetchPage requests the page at cursor. Network failures and HTTP statuses of
// 400 and above return transport errors; an unparseable body returns a parsing
// error; a body whose success flag is not 1 returns an API error together with
// the decoded response.
func (c *Client) FetchPage(ctx context.Context, cursor Cursor) (*PageResponse, error) {
	resp, err := c.get(ctx, metrics.EndpointPage, cursor)
	if err != nil {
		return nil, err
	}

	if !resp.Page.Succeeded() {
		return resp, errs.New(errs.ErrorTypeAPI, resp.StatusCode,
			"request for cursor %s returned success flag %d", cursor, resp.Page.Success)
	}

	return resp, nil
}

// get performs one request and decodes the body
func (c *Client) get(ctx context.Context, endpoint string, cursor Cursor) (*PageResponse, error) {
	url := GetReviewsURL(c.baseURL, c.appID, c.language, cursor)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeTransport, err, "waiting for request slot")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeTransport, err, "failed to create request")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	c.logger.InfoWithFields("hitting "+url, map[string]interface{}{
		"cursor": string(cursor),
	})

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.metrics.RequestCompleted(endpoint, 0, duration)
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      url,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.Wrap(errs.ErrorTypeTransport, err, "network error")
	}
	defer httpResp.Body.Close()

	c.metrics.RequestCompleted(endpoint, httpResp.StatusCode, duration)
	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      url,
		"status":   httpResp.StatusCode,
		"duration": duration,
	})

	if httpResp.StatusCode >= http.StatusBadRequest {
		return nil, errs.New(errs.ErrorTypeTransport, httpResp.StatusCode,
			"unexpected status code: %d", httpResp.StatusCode)
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeTransport,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    httpResp.StatusCode,
			Err:     err,
		}
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       httpResp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    httpResp.StatusCode,
			Err:     err,
		}
	}

	return &PageResponse{
		Raw:        body,
		Page:       page,
		StatusCode: httpResp.StatusCode,
	}, nil
}
