// Package steam is a minimal client for the Steam store appreviews endpoint.
//
// Only the single listing call used by the collector is implemented:
//
//	GET {base}/appreviews/{app_id}?json=1&language={lang}&filter=updated
//	    &review_type=all&purchase_type=all&cursor={cursor}&num_per_page=100
//
// Pagination is driven by an opaque Cursor. The first request uses
// InitialCursor ("*"); every later cursor comes from a response body and must
// be passed through EscapeCursor before it is reused.
//
// Errors are *errors.Error values typed transport (network failure or HTTP
// status >= 400), parsing (malformed body) or api (success flag not 1).
package steam
