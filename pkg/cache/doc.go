// Package cache persists raw review pages on disk, one file per request
// cursor.
//
// A page fetched with cursor C is stored verbatim in
// cursor_<slug(C)>.json. The file's own "cursor" field names the next page,
// so a cached directory can be replayed without any network access: start at
// "*", read the file, escape its cursor, repeat.
//
// Existing files are treated as immutable truth. The store never overwrites
// or deletes them and writes new ones through a temporary file and a rename,
// so an interrupted run leaves no partial page under a cache name.
package cache
