package dataset

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"steamreviews/pkg/corpus"
)

const createSentencesTable = `
CREATE TABLE sentences (
	id                             INTEGER PRIMARY KEY AUTOINCREMENT,
	recommendation_id              TEXT    NOT NULL,
	author_steam_id                TEXT    NOT NULL,
	author_num_games_owned         INTEGER NOT NULL,
	author_num_reviews             INTEGER NOT NULL,
	author_playtime_forever        INTEGER NOT NULL,
	author_playtime_last_two_weeks INTEGER NOT NULL,
	voted_up                       INTEGER NOT NULL,
	sentence                       TEXT    NOT NULL,
	timestamp                      INTEGER NOT NULL
)`

const insertSentence = `
INSERT INTO sentences (
	recommendation_id, author_steam_id, author_num_games_owned, author_num_reviews,
	author_playtime_forever, author_playtime_last_two_weeks, voted_up, sentence, timestamp
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteWriter stores rows in a "sentences" table. All rows of one export go
// into a single transaction that is committed on Close.
type SQLiteWriter struct {
	conn *sql.DB
	tx   *sql.Tx
	stmt *sql.Stmt
}

// OpenSQLite opens the database at path and recreates the sentences table.
// The table is replaced inside the export transaction, so an aborted export
// leaves the previous table in place.
func OpenSQLite(path string) (*SQLiteWriter, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tx, err := conn.Begin()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	for _, stmt := range []string{
		"DROP TABLE IF EXISTS sentences",
		createSentencesTable,
		"CREATE INDEX idx_sentences_recommendation ON sentences(recommendation_id)",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			conn.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	stmt, err := tx.Prepare(insertSentence)
	if err != nil {
		tx.Rollback()
		conn.Close()
		return nil, fmt.Errorf("preparing insert: %w", err)
	}

	return &SQLiteWriter{conn: conn, tx: tx, stmt: stmt}, nil
}

func (s *SQLiteWriter) Write(row corpus.SentenceRow) error {
	_, err := s.stmt.Exec(
		row.RecommendationID,
		row.AuthorSteamID,
		row.AuthorNumGamesOwned,
		row.AuthorNumReviews,
		row.AuthorPlaytimeForever,
		row.AuthorPlaytimeLastTwoWeeks,
		row.VotedUp,
		row.Sentence,
		row.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("inserting sentence: %w", err)
	}
	return nil
}

// Close commits the transaction and closes the database
func (s *SQLiteWriter) Close() error {
	s.stmt.Close()

	err := s.tx.Commit()
	if err != nil {
		err = fmt.Errorf("committing sentences: %w", err)
	}
	if closeErr := s.conn.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("closing database: %w", closeErr)
	}
	return err
}

// Abort rolls the transaction back and closes the database
func (s *SQLiteWriter) Abort() error {
	s.stmt.Close()

	err := s.tx.Rollback()
	if err != nil {
		err = fmt.Errorf("rolling back sentences: %w", err)
	}
	if closeErr := s.conn.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("closing database: %w", closeErr)
	}
	return err
}
