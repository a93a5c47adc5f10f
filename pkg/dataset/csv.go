package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"steamreviews/pkg/corpus"
)

// CSVWriter writes rows with a header line in corpus.Columns order
type CSVWriter struct {
	w *csv.Writer

	// set by CreateCSV: rows go to file, renamed to path on Close
	file *os.File
	path string
}

// NewCSVWriter writes the header immediately
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(corpus.Columns()); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return &CSVWriter{w: cw}, nil
}

// CreateCSV writes to a temporary file next to path. An existing file at
// path is only replaced when Close succeeds.
func CreateCSV(path string) (*CSVWriter, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	w, err := NewCSVWriter(f)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	w.file = f
	w.path = path
	return w, nil
}

func (c *CSVWriter) Write(row corpus.SentenceRow) error {
	return c.w.Write(row.Record())
}

// Close flushes buffered rows and moves the file into place, if one was opened
func (c *CSVWriter) Close() error {
	c.w.Flush()
	err := c.w.Error()
	if c.file == nil {
		return err
	}

	tempName := c.file.Name()
	if closeErr := c.file.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tempName, c.path)
	}
	if err != nil {
		os.Remove(tempName)
	}
	return err
}

// Abort discards the rows written so far. An existing file at path is left alone.
func (c *CSVWriter) Abort() error {
	if c.file == nil {
		return nil
	}
	tempName := c.file.Name()
	err := c.file.Close()
	if removeErr := os.Remove(tempName); err == nil {
		err = removeErr
	}
	return err
}
