// Package collector implements the cursor-driven pagination loop.
//
// A run first probes the declared review count, then walks count/100 pages
// from the wildcard cursor. For each page:
//
//   - if a file for the current cursor is cached, its "cursor" field is read,
//     escaped, and becomes the current cursor, with no network I/O
//   - otherwise the page is fetched; on success the raw body is cached under
//     the request cursor and the cursor advances
//   - on failure the error is logged and the retry policy decides; the
//     default keeps the cursor so the next iteration requests it again
//
// Every iteration ends with exactly one pause from the pacer, cache hits
// included unless WithPaceCacheHits(false) is given. Failed pages consume the
// page budget, so a run with failures ends short of the final page; running
// again resumes from the cache.
package collector
