// Package dataset writes flattened sentence rows to disk as CSV or as a
// SQLite table.
package dataset
