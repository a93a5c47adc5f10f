// Package retry decides what happens to the pagination cursor when a page
// cannot be fetched.
//
// The collector never retries inline. After a failure it asks a Policy for a
// Decision and either keeps the cursor for the next iteration (ActionRevisit)
// or stops the run (ActionAbort). Each revisit still consumes one unit of the
// collector's page budget.
//
// Two policies are provided:
//
//	// Keep the cursor, no extra delay, no cap. The default.
//	policy := retry.NewRevisit()
//
//	// Keep the cursor, wait 1s, 2s, 4s... extra, abort after 5 consecutive failures
//	policy := retry.NewBackoff(5, &retry.ExponentialBackoff{
//		BaseDelay:  time.Second,
//		MaxDelay:   time.Minute,
//		Multiplier: 2.0,
//	})
//
// NewPolicy builds either from the retry section of the configuration.
//
// Backoff consults DefaultRetryIf before revisiting: cache faults, context
// cancellation and non-transient HTTP statuses (401, 403, 404) abort at once.
package retry
