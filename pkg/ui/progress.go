package ui

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	barWidth      = 30
)

// RunReport is what the collect command prints after a run
type RunReport struct {
	RunID        string
	TotalReviews int
	Pages        int
	Fetched      int
	CacheHits    int
	Failures     int
	PagesOnDisk  int
	Cursor       string
	Duration     time.Duration
}

// Bar renders done/total as a fixed width bar
func Bar(done, total int) string {
	filled := 0
	if total > 0 {
		filled = done * barWidth / total
	}
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	return fmt.Sprintf("[%s] %d/%d",
		strings.Repeat(ProgressBar, filled)+strings.Repeat(ProgressEmpty, barWidth-filled),
		done, total)
}

// PrintRunReport prints a collection summary
func PrintRunReport(r RunReport) {
	cached := r.Fetched + r.CacheHits

	PrintHighlight("[COLLECTION SUMMARY]")
	PrintInfo("Run", r.RunID)
	PrintInfo("Reviews declared", fmt.Sprintf("%d", r.TotalReviews))
	PrintInfo("Pages", Bar(cached, r.Pages))
	PrintInfo("Fetched", fmt.Sprintf("%d", r.Fetched))
	PrintInfo("From cache", fmt.Sprintf("%d", r.CacheHits))
	PrintInfo("Pages on disk", fmt.Sprintf("%d", r.PagesOnDisk))
	if r.Failures > 0 {
		PrintWarning("Failed pages", r.Failures)
		PrintWarning("Run again to resume from the cache")
	} else {
		PrintInfo("Failed pages", "0")
	}
	PrintInfo("Last cursor", r.Cursor)
	PrintInfo("Elapsed", r.Duration.Round(time.Millisecond).String())
}
