// Package ratelimit paces the review collector.
//
// Two independent mechanisms live here:
//
//   - Pacer: the fixed delay the collector takes after every iteration of its
//     page loop, whether the page came from the network or from the cache.
//     FixedDelay is the production implementation, RecordingPacer counts calls
//     for tests.
//   - RequestLimiter: an optional requests-per-minute cap applied by the HTTP
//     client, backed by golang.org/x/time/rate. It is disabled by default; the
//     fixed delay alone keeps the collector polite.
//
// Both honour context cancellation so an interrupted run stops between
// requests.
package ratelimit
