package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	errs "steamreviews/pkg/errors"
	"steamreviews/pkg/logger"
	"steamreviews/pkg/metrics"
	"steamreviews/pkg/steam"
)

// SentenceRow is one sentence of a review with the review's metadata
type SentenceRow struct {
	RecommendationID           string `json:"recommendation_id"`
	AuthorSteamID              string `json:"author_steam_id"`
	AuthorNumGamesOwned        int    `json:"author_num_games_owned"`
	AuthorNumReviews           int    `json:"author_num_reviews"`
	AuthorPlaytimeForever      int    `json:"author_playtime_forever"`
	AuthorPlaytimeLastTwoWeeks int    `json:"author_playtime_last_two_weeks"`
	VotedUp                    bool   `json:"voted_up"`
	Sentence                   string `json:"sentence"`
	Timestamp                  int64  `json:"timestamp"`
}

// Columns lists the dataset columns in output order
func Columns() []string {
	return []string{
		"recommendation_id",
		"author_steam_id",
		"author_num_games_owned",
		"author_num_reviews",
		"author_playtime_forever",
		"author_playtime_last_two_weeks",
		"voted_up",
		"sentence",
		"timestamp",
	}
}

// Record renders the row as strings in Columns order
func (r SentenceRow) Record() []string {
	return []string{
		r.RecommendationID,
		r.AuthorSteamID,
		strconv.Itoa(r.AuthorNumGamesOwned),
		strconv.Itoa(r.AuthorNumReviews),
		strconv.Itoa(r.AuthorPlaytimeForever),
		strconv.Itoa(r.AuthorPlaytimeLastTwoWeeks),
		strconv.FormatBool(r.VotedUp),
		r.Sentence,
		strconv.FormatInt(r.Timestamp, 10),
	}
}

// Flattener turns cached pages into sentence rows
type Flattener struct {
	splitter Splitter
	metrics  metrics.Recorder
	logger   logger.Logger
}

// NewFlattener creates a flattener. rec may be nil.
func NewFlattener(splitter Splitter, log logger.Logger, rec metrics.Recorder) *Flattener {
	return &Flattener{
		splitter: splitter,
		metrics:  metrics.OrNop(rec),
		logger:   logger.OrNop(log),
	}
}

// Flatten reads every regular file in dir and returns all sentence rows. Row
// order follows directory listing order and is not otherwise guaranteed.
func (f *Flattener) Flatten(dir string) ([]SentenceRow, error) {
	var rows []SentenceRow
	err := f.Walk(dir, func(row SentenceRow) error {
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

// Walk streams sentence rows from every regular file in dir to fn. Every file
// must be a JSON review page; anything else is a parsing error that stops the
// walk. Subdirectories are ignored.
func (f *Flattener) Walk(dir string, fn func(SentenceRow) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	files, total := 0, 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		page, err := readPage(path)
		if err != nil {
			return err
		}

		rows := f.FlattenPage(page)
		for _, row := range rows {
			if err := fn(row); err != nil {
				return err
			}
		}

		files++
		total += len(rows)
		f.metrics.SentencesEmitted(len(rows))
		f.logger.DebugWithFields("flattened page", map[string]interface{}{
			"path":      path,
			"reviews":   len(page.Reviews),
			"sentences": len(rows),
		})
	}

	f.logger.InfoWithFields("flatten complete", map[string]interface{}{
		"dir":       dir,
		"files":     files,
		"sentences": total,
	})

	return nil
}

// FlattenPage explodes the reviews of one page. Reviews received for free are
// skipped.
func (f *Flattener) FlattenPage(page *steam.Page) []SentenceRow {
	var rows []SentenceRow
	for _, review := range page.Reviews {
		if review.ReceivedForFree {
			continue
		}

		for _, sentence := range f.splitter.Split(review.Review) {
			rows = append(rows, SentenceRow{
				RecommendationID:           review.RecommendationID,
				AuthorSteamID:              review.Author.SteamID,
				AuthorNumGamesOwned:        review.Author.NumGamesOwned,
				AuthorNumReviews:           review.Author.NumReviews,
				AuthorPlaytimeForever:      review.Author.PlaytimeForever,
				AuthorPlaytimeLastTwoWeeks: review.Author.PlaytimeLastTwoWeeks,
				VotedUp:                    review.VotedUp,
				Sentence:                   sentence,
				Timestamp:                  review.TimestampUpdated,
			})
		}
	}
	return rows
}

func readPage(path string) (*steam.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var page steam.Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeParsing, err, "failed to parse %s", path)
	}
	return &page, nil
}
