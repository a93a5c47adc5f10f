package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer blocks between collector iterations
type Pacer interface {
	// Pause blocks for the configured delay plus extra, or until ctx is done
	Pause(ctx context.Context, extra time.Duration) error
}

// FixedDelay pauses for the same duration on every call
type FixedDelay struct {
	delay time.Duration
}

// NewFixedDelay creates a pacer that sleeps for delay on every Pause
func NewFixedDelay(delay time.Duration) *FixedDelay {
	return &FixedDelay{delay: delay}
}

// Delay returns the configured pause duration
func (f *FixedDelay) Delay() time.Duration {
	return f.delay
}

// Pause blocks for the configured delay plus extra, or until the context is
// cancelled
func (f *FixedDelay) Pause(ctx context.Context, extra time.Duration) error {
	if extra < 0 {
		extra = 0
	}
	return Sleep(ctx, f.delay+extra)
}

// Sleep waits for d or until ctx is done. Non-positive durations return immediately.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RecordingPacer counts pauses without sleeping. Used by tests and dry runs.
type RecordingPacer struct {
	mu     sync.Mutex
	pauses int
	extra  time.Duration
}

// Pause records the call and returns immediately
func (r *RecordingPacer) Pause(ctx context.Context, extra time.Duration) error {
	r.mu.Lock()
	r.pauses++
	r.extra += extra
	r.mu.Unlock()
	return ctx.Err()
}

// Count returns the number of pauses recorded
func (r *RecordingPacer) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pauses
}

// Extra returns the sum of the extra delays requested so far
func (r *RecordingPacer) Extra() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.extra
}

// RequestLimiter caps outgoing request rate independently of the collector's pacing
type RequestLimiter interface {
	// Wait blocks until the next request may be sent
	Wait(ctx context.Context) error
}

// NewRequestLimiter returns a token bucket allowing requestsPerMinute requests with a
// burst of one. A non-positive rate disables limiting.
func NewRequestLimiter(requestsPerMinute int) RequestLimiter {
	if requestsPerMinute <= 0 {
		return unlimited{}
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
}

type unlimited struct{}

func (unlimited) Wait(ctx context.Context) error {
	return ctx.Err()
}
