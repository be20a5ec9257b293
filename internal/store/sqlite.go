package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/amanah-labs/halal-screener/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS screenings (
	id                 TEXT PRIMARY KEY,
	subject            TEXT NOT NULL DEFAULT '',
	asset_id           TEXT NOT NULL,
	symbol             TEXT NOT NULL,
	rating             TEXT NOT NULL,
	score              INTEGER NOT NULL,
	is_user_screening  INTEGER NOT NULL DEFAULT 1,
	facts              TEXT NOT NULL,
	outcome            TEXT NOT NULL,
	schema_version     TEXT NOT NULL,
	processing_time_ms INTEGER NOT NULL DEFAULT 0,
	data_sources       TEXT,
	manual_review      INTEGER NOT NULL DEFAULT 0,
	review_notes       TEXT NOT NULL DEFAULT '',
	last_updated       DATETIME NOT NULL,
	created_at         DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_screenings_key ON screenings(subject, asset_id, last_updated DESC);
CREATE INDEX IF NOT EXISTS idx_screenings_rating ON screenings(rating);
CREATE INDEX IF NOT EXISTS idx_screenings_created_at ON screenings(created_at DESC);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Put(ctx context.Context, rec *model.ScreeningRecord) error {
	factsJSON, err := json.Marshal(rec.Facts)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal facts")
	}
	outcomeJSON, err := json.Marshal(rec.Outcome)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal outcome")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO screenings
			(id, subject, asset_id, symbol, rating, score, is_user_screening,
			 facts, outcome, schema_version, processing_time_ms, data_sources,
			 manual_review, review_notes, last_updated, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Subject, rec.Facts.Coin.SourceID, rec.Facts.Coin.Symbol,
		string(rec.Outcome.OverallRating), rec.Outcome.OverallScore,
		boolToInt(rec.IsUserScreening), string(factsJSON), string(outcomeJSON),
		rec.SchemaVersion, rec.ProcessingTimeMs, strings.Join(rec.DataSourcesUsed, ","),
		boolToInt(rec.ManualReviewRequired), rec.ReviewNotes,
		rec.Outcome.LastUpdated.UTC(), rec.CreatedAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: insert screening %s", rec.ID)
}

func (s *SQLiteStore) GetLatest(ctx context.Context, subject, assetID string) (*model.ScreeningRecord, error) {
	row := s.db.QueryRowContext(ctx,
		selectColumns+` FROM screenings
		 WHERE subject = ? AND asset_id = ?
		 ORDER BY last_updated DESC LIMIT 1`,
		subject, assetID,
	)

	rec, err := scanScreening(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get latest screening")
	}
	return rec, nil
}

func (s *SQLiteStore) ListRecent(ctx context.Context, limit int, userOnly bool) ([]model.ScreeningRecord, error) {
	query := selectColumns + ` FROM screenings`
	if userOnly {
		query += ` WHERE is_user_screening = 1`
	}
	query += ` ORDER BY created_at DESC LIMIT ?`

	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list recent")
	}
	defer rows.Close()

	var records []model.ScreeningRecord
	for rows.Next() {
		rec, err := scanScreening(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan screening")
		}
		records = append(records, *rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list recent iterate")
}

func (s *SQLiteStore) CountByRating(ctx context.Context, userOnly bool) (model.Statistics, error) {
	query := `SELECT rating, COUNT(*) FROM screenings`
	if userOnly {
		query += ` WHERE is_user_screening = 1`
	}
	query += ` GROUP BY rating`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return model.Statistics{}, eris.Wrap(err, "sqlite: count by rating")
	}
	defer rows.Close()

	var stats model.Statistics
	for rows.Next() {
		var rating string
		var count int
		if err := rows.Scan(&rating, &count); err != nil {
			return model.Statistics{}, eris.Wrap(err, "sqlite: scan rating count")
		}
		applyRatingCount(&stats, rating, count)
	}
	return stats, eris.Wrap(rows.Err(), "sqlite: count iterate")
}

func (s *SQLiteStore) AppendReviewNotes(ctx context.Context, id, notes string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE screenings SET manual_review = 1,
			review_notes = CASE WHEN review_notes = '' THEN ? ELSE review_notes || char(10) || ? END
		 WHERE id = ?`,
		notes, notes, id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: append review notes %s", id)
	}
	return checkRowsAffected(res, "screening", id)
}

// helpers

const selectColumns = `SELECT id, subject, is_user_screening, facts, outcome,
	schema_version, processing_time_ms, data_sources, manual_review, review_notes, created_at`

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func applyRatingCount(stats *model.Statistics, rating string, count int) {
	stats.Total += count
	switch model.Rating(rating) {
	case model.RatingHalal:
		stats.Halal += count
	case model.RatingQuestionable:
		stats.Questionable += count
	case model.RatingNonHalal:
		stats.NonHalal += count
	}
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanScreening(row scannable) (*model.ScreeningRecord, error) {
	var rec model.ScreeningRecord
	var factsJSON, outcomeJSON string
	var userScreening, manualReview int
	var sources sql.NullString
	var createdAt time.Time

	err := row.Scan(&rec.ID, &rec.Subject, &userScreening, &factsJSON, &outcomeJSON,
		&rec.SchemaVersion, &rec.ProcessingTimeMs, &sources, &manualReview,
		&rec.ReviewNotes, &createdAt)
	if err != nil {
		return nil, err
	}

	rec.IsUserScreening = userScreening == 1
	rec.ManualReviewRequired = manualReview == 1
	rec.CreatedAt = createdAt.UTC()
	if sources.Valid && sources.String != "" {
		rec.DataSourcesUsed = strings.Split(sources.String, ",")
	}
	if err := json.Unmarshal([]byte(factsJSON), &rec.Facts); err != nil {
		return nil, eris.Wrap(err, "unmarshal facts")
	}
	if err := json.Unmarshal([]byte(outcomeJSON), &rec.Outcome); err != nil {
		return nil, eris.Wrap(err, "unmarshal outcome")
	}
	return &rec, nil
}
