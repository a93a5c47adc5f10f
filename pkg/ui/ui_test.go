package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetColor(false)
	SetQuietMode(false)
	t.Cleanup(func() { SetQuietMode(false) })
	return &buf
}

func TestBar(t *testing.T) {
	assert.Equal(t, "["+repeat(ProgressEmpty, 30)+"] 0/10", Bar(0, 10))
	assert.Equal(t, "["+repeat(ProgressBar, 15)+repeat(ProgressEmpty, 15)+"] 5/10", Bar(5, 10))
	assert.Equal(t, "["+repeat(ProgressBar, 30)+"] 12/10", Bar(12, 10))
	assert.Equal(t, "["+repeat(ProgressEmpty, 30)+"] 0/0", Bar(0, 0))
}

func TestColorDisabled(t *testing.T) {
	SetColor(false)
	assert.Equal(t, "plain", Red("plain"))

	SetColor(true)
	assert.Equal(t, "\033[31mplain\033[0m", Red("plain"))
	SetColor(false)
}

func TestQuietModeKeepsErrors(t *testing.T) {
	buf := captureOutput(t)
	SetQuietMode(true)

	PrintInfo("label", "value")
	PrintSuccess("done")
	PrintError("broken", "details")

	assert.Equal(t, "broken: details\n", buf.String())
}

func TestPrintRunReport(t *testing.T) {
	buf := captureOutput(t)

	PrintRunReport(RunReport{
		RunID:        "abc",
		TotalReviews: 250,
		Pages:        2,
		Fetched:      1,
		CacheHits:    0,
		Failures:     1,
		PagesOnDisk:  4,
		Cursor:       "c1",
		Duration:     1500 * time.Millisecond,
	})

	output := buf.String()
	assert.Contains(t, output, "Reviews declared: 250")
	assert.Contains(t, output, "1/2")
	assert.Contains(t, output, "Pages on disk: 4")
	assert.Contains(t, output, "Failed pages: 1")
	assert.Contains(t, output, "Run again to resume")
	assert.Contains(t, output, "Elapsed: 1.5s")
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
