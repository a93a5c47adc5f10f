package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "steamreviews/pkg/errors"
	"steamreviews/pkg/logger"
	"steamreviews/pkg/steam"
)

const twoReviewPage = `{
  "success": 1,
  "query_summary": {"num_reviews": 2},
  "cursor": "AoJ+w/8=",
  "reviews": [
    {
      "recommendationid": "111",
      "author": {"steamid": "76561198000000001", "num_games_owned": 5, "num_reviews": 1,
                 "playtime_forever": 10, "playtime_last_two_weeks": 0},
      "review": "Got this key for free. It is okay.",
      "timestamp_updated": 1600000000,
      "voted_up": true,
      "received_for_free": true
    },
    {
      "recommendationid": "222",
      "author": {"steamid": "76561198000000002", "num_games_owned": 120, "num_reviews": 7,
                 "playtime_forever": 4321, "playtime_last_two_weeks": 55},
      "review": "I loved the city. The story kept me up at night. Would buy again.",
      "timestamp_updated": 1700000000,
      "voted_up": false,
      "received_for_free": false
    }
  ]
}`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func newPunkt(t *testing.T) *PunktSplitter {
	t.Helper()
	splitter, err := NewPunktSplitter()
	require.NoError(t, err)
	return splitter
}

func TestPunktSplitter(t *testing.T) {
	splitter := newPunkt(t)

	got := splitter.Split("I loved the city. The story kept me up at night. Would buy again.")
	assert.Equal(t, []string{
		"I loved the city.",
		"The story kept me up at night.",
		"Would buy again.",
	}, got)

	assert.Empty(t, splitter.Split(""))
	assert.Empty(t, splitter.Split("   "))
}

func TestFlattenSkipsFreeReviews(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cursor_.json", twoReviewPage)

	rows, err := NewFlattener(newPunkt(t), nil, nil).Flatten(dir)
	require.NoError(t, err)

	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, "222", row.RecommendationID, "free review must not contribute rows")
	}
}

func TestFlattenCopiesMetadata(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cursor_.json", twoReviewPage)

	rows, err := NewFlattener(newPunkt(t), nil, nil).Flatten(dir)
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	want := SentenceRow{
		RecommendationID:           "222",
		AuthorSteamID:              "76561198000000002",
		AuthorNumGamesOwned:        120,
		AuthorNumReviews:           7,
		AuthorPlaytimeForever:      4321,
		AuthorPlaytimeLastTwoWeeks: 55,
		VotedUp:                    false,
		Timestamp:                  1700000000,
	}
	for _, row := range rows {
		sentence := row.Sentence
		row.Sentence = ""
		assert.Equal(t, want, row)
		assert.NotEmpty(t, sentence)
	}
}

func TestFlattenMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cursor_.json", twoReviewPage)
	writeFile(t, dir, "cursor_aoj-2bw-8-3d.json", `{"success":1,"cursor":"x","reviews":[
		{"recommendationid":"333","author":{"steamid":"3"},"review":"Short.","received_for_free":false}
	]}`)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	log := logger.NewTestLogger()
	rows, err := NewFlattener(newPunkt(t), log, nil).Flatten(dir)
	require.NoError(t, err)

	ids := map[string]int{}
	for _, row := range rows {
		ids[row.RecommendationID]++
	}
	assert.Equal(t, map[string]int{"222": 3, "333": 1}, ids)
	assert.True(t, log.HasMessage("flatten complete"))
}

func TestFlattenEmptyDirectory(t *testing.T) {
	rows, err := NewFlattener(newPunkt(t), nil, nil).Flatten(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFlattenNonJSONFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cursor_.json", twoReviewPage)
	writeFile(t, dir, "notes.txt", "not a page")

	_, err := NewFlattener(newPunkt(t), nil, nil).Flatten(dir)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeParsing, errs.TypeOf(err))
	assert.Contains(t, err.Error(), "notes.txt")
}

func TestFlattenMissingDirectory(t *testing.T) {
	_, err := NewFlattener(newPunkt(t), nil, nil).Flatten(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestWalkStopsOnCallbackError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cursor_.json", twoReviewPage)

	stop := errors.New("stop")
	seen := 0
	err := NewFlattener(newPunkt(t), nil, nil).Walk(dir, func(SentenceRow) error {
		seen++
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, seen)
}

func TestFlattenPageWithCustomSplitter(t *testing.T) {
	words := SplitterFunc(func(text string) []string { return strings.Fields(text) })
	page := &steam.Page{Reviews: []steam.Review{
		{RecommendationID: "1", Review: "a b c"},
		{RecommendationID: "2", Review: "d e", ReceivedForFree: true},
	}}

	rows := NewFlattener(words, nil, nil).FlattenPage(page)
	require.Len(t, rows, 3)
	assert.Equal(t, "c", rows[2].Sentence)
}

func TestSentenceRowRecord(t *testing.T) {
	row := SentenceRow{
		RecommendationID:           "222",
		AuthorSteamID:              "765",
		AuthorNumGamesOwned:        1,
		AuthorNumReviews:           2,
		AuthorPlaytimeForever:      3,
		AuthorPlaytimeLastTwoWeeks: 4,
		VotedUp:                    true,
		Sentence:                   "Hello, world.",
		Timestamp:                  1700000000,
	}

	record := row.Record()
	assert.Len(t, record, len(Columns()))
	assert.Equal(t, []string{"222", "765", "1", "2", "3", "4", "true", "Hello, world.", "1700000000"}, record)
}
