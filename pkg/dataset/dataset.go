package dataset

import (
	"fmt"
	"strings"

	"steamreviews/pkg/corpus"
)

// Supported output formats
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// Writer receives sentence rows. Close publishes them; Abort discards them
// and leaves any previous output untouched. Exactly one of the two is called.
type Writer interface {
	Write(row corpus.SentenceRow) error
	Close() error
	Abort() error
}

// Open creates a writer for format at path. Existing output is replaced on Close.
func Open(format, path string) (Writer, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return CreateCSV(path)
	case FormatSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// Export streams every sentence row of the cache directory into w and
// returns the number of rows written. w is closed on success and aborted
// when the walk fails.
func Export(flattener *corpus.Flattener, dir string, w Writer) (int, error) {
	count := 0
	err := flattener.Walk(dir, func(row corpus.SentenceRow) error {
		if err := w.Write(row); err != nil {
			return err
		}
		count++
		return nil
	})

	if err != nil {
		w.Abort()
		return count, err
	}
	if closeErr := w.Close(); closeErr != nil {
		return count, fmt.Errorf("failed to finalize dataset: %w", closeErr)
	}
	return count, nil
}
