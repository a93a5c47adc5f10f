package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"steamreviews/pkg/config"
	errs "steamreviews/pkg/errors"
)

// Policy names accepted in configuration
const (
	PolicyRevisit = "revisit"
	PolicyBackoff = "backoff"
)

// Action tells the collector what to do with the current cursor after a failed page
type Action int

const (
	// ActionRevisit keeps the cursor so the next iteration requests it again
	ActionRevisit Action = iota
	// ActionAbort stops the collection run
	ActionAbort
)

func (a Action) String() string {
	switch a {
	case ActionRevisit:
		return "revisit"
	case ActionAbort:
		return "abort"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Decision is a policy's verdict on one failure
type Decision struct {
	Action Action
	// Delay is extra time to wait before the next iteration, on top of the
	// collector's fixed pacing
	Delay time.Duration
	// Attempt is the number of consecutive failures seen so far
	Attempt int
}

// Policy decides how the collector reacts to a failed page. Implementations see
// every failure and every success in order; they are not safe for concurrent use.
type Policy interface {
	// Name identifies the policy in logs
	Name() string
	// OnFailure is called after a page fetch fails
	OnFailure(cursor string, err error) Decision
	// OnSuccess is called after a page is fetched and stored
	OnSuccess()
}

// Revisit keeps the failed cursor and tries it again on the next iteration, with
// no extra delay and no cap other than the collector's page budget.
type Revisit struct {
	attempts int
}

// NewRevisit creates the default revisit policy
func NewRevisit() *Revisit {
	return &Revisit{}
}

func (r *Revisit) Name() string { return PolicyRevisit }

func (r *Revisit) OnFailure(cursor string, err error) Decision {
	r.attempts++
	return Decision{Action: ActionRevisit, Attempt: r.attempts}
}

func (r *Revisit) OnSuccess() { r.attempts = 0 }

// Backoff revisits the failed cursor after an increasing extra delay. When
// MaxAttempts is positive, that many consecutive failures abort the run.
type Backoff struct {
	MaxAttempts int
	Strategy    BackoffStrategy
	// RetryIf reports whether an error is worth revisiting at all
	RetryIf func(error) bool

	attempts int
}

// NewBackoff creates a backoff policy
func NewBackoff(maxAttempts int, strategy BackoffStrategy) *Backoff {
	if strategy == nil {
		strategy = DefaultExponentialBackoff()
	}
	return &Backoff{
		MaxAttempts: maxAttempts,
		Strategy:    strategy,
		RetryIf:     DefaultRetryIf,
	}
}

func (b *Backoff) Name() string { return PolicyBackoff }

func (b *Backoff) OnFailure(cursor string, err error) Decision {
	b.attempts++

	if b.RetryIf != nil && !b.RetryIf(err) {
		return Decision{Action: ActionAbort, Attempt: b.attempts}
	}
	if b.MaxAttempts > 0 && b.attempts >= b.MaxAttempts {
		return Decision{Action: ActionAbort, Attempt: b.attempts}
	}

	return Decision{
		Action:  ActionRevisit,
		Delay:   b.Strategy.NextDelay(b.attempts),
		Attempt: b.attempts,
	}
}

func (b *Backoff) OnSuccess() {
	b.attempts = 0
	b.Strategy.Reset()
}

// DefaultRetryIf is the default retry predicate
func DefaultRetryIf(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var typed *errs.Error
	if errors.As(err, &typed) {
		if typed.Type == errs.ErrorTypeTransport && typed.Code != 0 {
			return errs.IsRetryableStatusCode(typed.Code)
		}
		return errs.IsRetryable(typed.Type)
	}

	// Default to retrying unknown errors
	return true
}

// NewPolicy builds the policy named in cfg
func NewPolicy(cfg config.RetryConfig) (Policy, error) {
	switch strings.ToLower(cfg.Policy) {
	case "", PolicyRevisit:
		return NewRevisit(), nil
	case PolicyBackoff:
		return NewBackoff(cfg.MaxAttempts, &ExponentialBackoff{
			BaseDelay:    cfg.BaseDelay,
			MaxDelay:     cfg.MaxDelay,
			Multiplier:   cfg.Multiplier,
			JitterFactor: 0.1,
		}), nil
	default:
		return nil, fmt.Errorf("unknown retry policy %q", cfg.Policy)
	}
}
