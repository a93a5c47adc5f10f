package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	errs "steamreviews/pkg/errors"
	"steamreviews/pkg/steam"
)

const (
	filePrefix = "cursor_"
	fileSuffix = ".json"
)

// Store keeps one file per request cursor in a single directory. Files are
// written once and never modified or removed. Partial writes live in a
// sibling directory so the cache directory only ever holds complete pages.
type Store struct {
	dir     string
	tempDir string
}

// NewStore creates the cache directory if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeCache, err, "failed to create cache directory")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeCache, err, "failed to resolve cache directory")
	}

	return &Store{
		dir:     dir,
		tempDir: filepath.Join(filepath.Dir(abs), "."+filepath.Base(abs)+"-tmp"),
	}, nil
}

// Dir returns the cache directory
func (s *Store) Dir() string {
	return s.dir
}

// TempDir returns the directory that holds in-flight writes. It sits next to
// Dir on the same filesystem so the final rename stays atomic.
func (s *Store) TempDir() string {
	return s.tempDir
}

// FileName maps a cursor to its cache file name. Slugging lowercases and
// turns every run of other characters, including the "%" of an escape and
// "/", into "-". Distinct cursors can therefore share a file, for example
// "AoJ%2Bw8%3D" and "AoJ/2Bw8%3D".
func FileName(cursor steam.Cursor) string {
	return filePrefix + slug.Make(string(cursor)) + fileSuffix
}

// Path returns the cache file path for cursor
func (s *Store) Path(cursor steam.Cursor) string {
	return filepath.Join(s.dir, FileName(cursor))
}

// Has reports whether a page for cursor is already cached
func (s *Store) Has(cursor steam.Cursor) bool {
	info, err := os.Stat(s.Path(cursor))
	return err == nil && info.Mode().IsRegular()
}

// Write stores body verbatim under cursor's path. The file appears atomically.
func (s *Store) Write(cursor steam.Cursor, body []byte) error {
	filename := s.Path(cursor)

	if err := os.MkdirAll(s.tempDir, 0755); err != nil {
		return errs.Wrap(errs.ErrorTypeCache, err, "failed to create temporary directory")
	}

	tempFile, err := os.CreateTemp(s.tempDir, filepath.Base(filename)+"-*")
	if err != nil {
		return errs.Wrap(errs.ErrorTypeCache, err, "failed to create temporary file")
	}
	tempName := tempFile.Name()

	_, err = tempFile.Write(body)
	closeErr := tempFile.Close()

	if err != nil {
		os.Remove(tempName)
		return errs.Wrap(errs.ErrorTypeCache, err, "failed to write page %s", filename)
	}
	if closeErr != nil {
		os.Remove(tempName)
		return errs.Wrap(errs.ErrorTypeCache, closeErr, "failed to close page %s", filename)
	}

	if err := os.Rename(tempName, filename); err != nil {
		os.Remove(tempName)
		return errs.Wrap(errs.ErrorTypeCache, err, "failed to rename temporary file")
	}

	return nil
}

// ReadCursor loads the page cached under cursor and returns the escaped
// cursor of the page that follows it. An unreadable or corrupt file, or one
// without a cursor field, is a cache error.
func (s *Store) ReadCursor(cursor steam.Cursor) (steam.Cursor, error) {
	path := s.Path(cursor)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errs.Wrap(errs.ErrorTypeCache, err, "failed to read cached page %s", path)
	}

	var page struct {
		Cursor *string `json:"cursor"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return "", errs.Wrap(errs.ErrorTypeCache, err, "failed to parse cached page %s", path)
	}
	if page.Cursor == nil {
		return "", errs.New(errs.ErrorTypeCache, 0, "cached page %s has no cursor", path)
	}

	return steam.EscapeCursor(*page.Cursor), nil
}

// Count returns the number of cached pages
func (s *Store) Count() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory: %w", err)
	}

	count := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.Type().IsRegular() && strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileSuffix) {
			count++
		}
	}
	return count, nil
}
