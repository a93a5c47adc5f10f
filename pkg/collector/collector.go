package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	errs "steamreviews/pkg/errors"
	"steamreviews/pkg/logger"
	"steamreviews/pkg/metrics"
	"steamreviews/pkg/ratelimit"
	"steamreviews/pkg/retry"
	"steamreviews/pkg/steam"
)

// PageFetcher is the subset of the Steam client the collector needs
type PageFetcher interface {
	TotalCount(ctx context.Context) (int, error)
	FetchPage(ctx context.Context, cursor steam.Cursor) (*steam.PageResponse, error)
}

// PageStore is the subset of the page cache the collector needs
type PageStore interface {
	Path(cursor steam.Cursor) string
	Has(cursor steam.Cursor) bool
	Write(cursor steam.Cursor, body []byte) error
	ReadCursor(cursor steam.Cursor) (steam.Cursor, error)
}

// Summary describes a finished or interrupted run
type Summary struct {
	RunID        string
	TotalReviews int
	// Pages is the page budget: loop iterations planned
	Pages     int
	Fetched   int
	CacheHits int
	Failures  int
	// Cursor is the cursor the next iteration would have used
	Cursor   steam.Cursor
	Duration time.Duration
}

// Collector walks the review listing page by page and caches every page
type Collector struct {
	fetcher       PageFetcher
	store         PageStore
	pacer         ratelimit.Pacer
	policy        retry.Policy
	metrics       metrics.Recorder
	logger        logger.Logger
	paceCacheHits bool
	runID         string
	appID         int
}

// Option configures a Collector
type Option func(*Collector)

// WithPacer sets the pause taken after every iteration
func WithPacer(p ratelimit.Pacer) Option {
	return func(c *Collector) { c.pacer = p }
}

// WithPolicy sets how failed pages are handled
func WithPolicy(p retry.Policy) Option {
	return func(c *Collector) { c.policy = p }
}

// WithMetrics records loop activity
func WithMetrics(r metrics.Recorder) Option {
	return func(c *Collector) { c.metrics = metrics.OrNop(r) }
}

// WithPaceCacheHits controls whether cache hits are followed by a pause.
// Enabled by default.
func WithPaceCacheHits(enabled bool) Option {
	return func(c *Collector) { c.paceCacheHits = enabled }
}

// WithRunID overrides the generated run identifier
func WithRunID(id string) Option {
	return func(c *Collector) { c.runID = id }
}

// WithAppID tags log lines with the app being collected
func WithAppID(appID int) Option {
	return func(c *Collector) { c.appID = appID }
}

// New creates a collector. Without options it pauses one second per
// iteration and revisits failed cursors.
func New(fetcher PageFetcher, store PageStore, log logger.Logger, opts ...Option) *Collector {
	c := &Collector{
		fetcher:       fetcher,
		store:         store,
		pacer:         ratelimit.NewFixedDelay(time.Second),
		policy:        retry.NewRevisit(),
		metrics:       metrics.Nop{},
		paceCacheHits: true,
		runID:         uuid.NewString(),
	}

	for _, opt := range opts {
		opt(c)
	}

	fields := map[string]interface{}{"run_id": c.runID}
	if c.appID != 0 {
		fields["app_id"] = c.appID
	}
	c.logger = logger.OrNop(log).WithFields(fields)

	return c
}

// RunID returns the identifier attached to this collector's log lines
func (c *Collector) RunID() string {
	return c.runID
}

// TotalCount probes the declared number of reviews. Failure is fatal for the run.
func (c *Collector) TotalCount(ctx context.Context) (int, error) {
	total, err := c.fetcher.TotalCount(ctx)
	if err != nil {
		c.logger.WithError(err).Error("failed to probe review count")
		return 0, fmt.Errorf("count probe failed: %w", err)
	}

	c.metrics.SetTotalReviews(total)
	return total, nil
}

// CollectAll walks total/100 pages starting from the wildcard cursor. Cached
// pages are replayed from disk; missing pages are fetched and cached. A
// failed page is logged and handed to the retry policy, which by default keeps
// the cursor for the next iteration. The returned error is non-nil only when
// the count probe fails, the cache cannot be read or written, the policy
// aborts, or ctx is cancelled; the Summary is returned in every case after the
// probe.
func (c *Collector) CollectAll(ctx context.Context) (*Summary, error) {
	start := time.Now()

	total, err := c.TotalCount(ctx)
	if err != nil {
		return nil, err
	}

	// The trailing partial page is not fetched: 250 reviews make 2 pages.
	pages := total / steam.ReviewsPerPage
	c.metrics.SetPageBudget(pages)

	summary := &Summary{
		RunID:        c.runID,
		TotalReviews: total,
		Pages:        pages,
		Cursor:       steam.InitialCursor,
	}
	defer func() {
		summary.Duration = time.Since(start)
	}()

	c.logger.InfoWithFields("starting collection", map[string]interface{}{
		"total_reviews": total,
		"pages":         pages,
		"policy":        c.policy.Name(),
	})

	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		hit, extraDelay, err := c.step(ctx, i, summary)
		if err != nil {
			return summary, err
		}

		// One pause per iteration; a retry policy delay lengthens it.
		if !hit || c.paceCacheHits || extraDelay > 0 {
			if err := c.pacer.Pause(ctx, extraDelay); err != nil {
				return summary, err
			}
		}
	}

	c.logger.InfoWithFields("collection finished", map[string]interface{}{
		"pages":      pages,
		"fetched":    summary.Fetched,
		"cache_hits": summary.CacheHits,
		"failures":   summary.Failures,
		"cursor":     string(summary.Cursor),
		"duration":   time.Since(start),
	})

	return summary, nil
}

// step runs one loop iteration. It reports whether the page came from the
// cache and any extra delay requested by the retry policy.
func (c *Collector) step(ctx context.Context, index int, summary *Summary) (bool, time.Duration, error) {
	cursor := summary.Cursor
	path := c.store.Path(cursor)

	if c.store.Has(cursor) {
		next, err := c.store.ReadCursor(cursor)
		if err != nil {
			c.logger.ErrorWithFields("cached page is unusable", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			return true, 0, err
		}

		c.logger.InfoWithFields(path+" exists, skipping", map[string]interface{}{
			"page": index + 1,
		})
		summary.Cursor = next
		summary.CacheHits++
		c.metrics.PageProcessed(metrics.OutcomeCacheHit)
		return true, 0, nil
	}

	resp, err := c.fetcher.FetchPage(ctx, cursor)
	if err != nil {
		if ctx.Err() != nil {
			return false, 0, ctx.Err()
		}
		delay, err := c.handleFailure(index, cursor, err, summary)
		return false, delay, err
	}

	if err := c.store.Write(cursor, resp.Raw); err != nil {
		c.logger.ErrorWithFields("failed to write page", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return false, 0, err
	}

	summary.Cursor = steam.EscapeCursor(resp.Page.Cursor)
	summary.Fetched++
	c.policy.OnSuccess()
	c.metrics.PageProcessed(metrics.OutcomeFetched)

	c.logger.InfoWithFields("successfully wrote "+path, map[string]interface{}{
		"page":    index + 1,
		"reviews": len(resp.Page.Reviews),
	})

	return false, 0, nil
}

// handleFailure logs a failed page and applies the retry policy. The cursor is
// left unchanged; an error means the policy aborted the run.
func (c *Collector) handleFailure(index int, cursor steam.Cursor, cause error, summary *Summary) (time.Duration, error) {
	summary.Failures++
	c.metrics.PageProcessed(metrics.OutcomeFailed)
	c.metrics.PageFailed(string(errs.TypeOf(cause)))

	decision := c.policy.OnFailure(string(cursor), cause)

	c.logger.ErrorWithFields("failed to fetch page", map[string]interface{}{
		"page":       index + 1,
		"cursor":     string(cursor),
		"error_type": string(errs.TypeOf(cause)),
		"error":      cause.Error(),
		"action":     decision.Action.String(),
		"attempt":    decision.Attempt,
	})

	if decision.Action == retry.ActionAbort {
		return 0, fmt.Errorf("retry policy %s gave up on cursor %s after %d attempts: %w",
			c.policy.Name(), cursor, decision.Attempt, cause)
	}

	return decision.Delay, nil
}
