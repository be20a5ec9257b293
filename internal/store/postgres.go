package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/amanah-labs/halal-screener/internal/model"
)

// Pool abstracts the pgx connection pool so the store can be unit
// tested with pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool (tests).
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS screenings (
	id                 UUID PRIMARY KEY,
	subject            TEXT NOT NULL DEFAULT '',
	asset_id           TEXT NOT NULL,
	symbol             TEXT NOT NULL,
	rating             TEXT NOT NULL,
	score              INTEGER NOT NULL,
	is_user_screening  BOOLEAN NOT NULL DEFAULT TRUE,
	facts              JSONB NOT NULL,
	outcome            JSONB NOT NULL,
	schema_version     TEXT NOT NULL,
	processing_time_ms BIGINT NOT NULL DEFAULT 0,
	data_sources       TEXT,
	manual_review      BOOLEAN NOT NULL DEFAULT FALSE,
	review_notes       TEXT NOT NULL DEFAULT '',
	last_updated       TIMESTAMPTZ NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_screenings_key ON screenings(subject, asset_id, last_updated DESC);
CREATE INDEX IF NOT EXISTS idx_screenings_rating ON screenings(rating);
CREATE INDEX IF NOT EXISTS idx_screenings_created_at ON screenings(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Put(ctx context.Context, rec *model.ScreeningRecord) error {
	factsJSON, err := json.Marshal(rec.Facts)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal facts")
	}
	outcomeJSON, err := json.Marshal(rec.Outcome)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal outcome")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO screenings
			(id, subject, asset_id, symbol, rating, score, is_user_screening,
			 facts, outcome, schema_version, processing_time_ms, data_sources,
			 manual_review, review_notes, last_updated, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		rec.ID, rec.Subject, rec.Facts.Coin.SourceID, rec.Facts.Coin.Symbol,
		string(rec.Outcome.OverallRating), rec.Outcome.OverallScore,
		rec.IsUserScreening, factsJSON, outcomeJSON,
		rec.SchemaVersion, rec.ProcessingTimeMs, strings.Join(rec.DataSourcesUsed, ","),
		rec.ManualReviewRequired, rec.ReviewNotes,
		rec.Outcome.LastUpdated.UTC(), rec.CreatedAt.UTC(),
	)
	return eris.Wrapf(err, "postgres: insert screening %s", rec.ID)
}

const pgSelectColumns = `SELECT id, subject, is_user_screening, facts, outcome,
	schema_version, processing_time_ms, data_sources, manual_review, review_notes, created_at`

func (s *PostgresStore) GetLatest(ctx context.Context, subject, assetID string) (*model.ScreeningRecord, error) {
	row := s.pool.QueryRow(ctx,
		pgSelectColumns+` FROM screenings
		 WHERE subject = $1 AND asset_id = $2
		 ORDER BY last_updated DESC LIMIT 1`,
		subject, assetID,
	)

	rec, err := scanPgScreening(row)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get latest screening")
	}
	return rec, nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int, userOnly bool) ([]model.ScreeningRecord, error) {
	query := pgSelectColumns + ` FROM screenings`
	if userOnly {
		query += ` WHERE is_user_screening = TRUE`
	}
	query += ` ORDER BY created_at DESC LIMIT $1`

	if limit <= 0 {
		limit = 10
	}

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list recent")
	}
	defer rows.Close()

	var records []model.ScreeningRecord
	for rows.Next() {
		rec, err := scanPgScreening(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan screening")
		}
		records = append(records, *rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: list recent iterate")
}

func (s *PostgresStore) CountByRating(ctx context.Context, userOnly bool) (model.Statistics, error) {
	query := `SELECT rating, COUNT(*) FROM screenings`
	if userOnly {
		query += ` WHERE is_user_screening = TRUE`
	}
	query += ` GROUP BY rating`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return model.Statistics{}, eris.Wrap(err, "postgres: count by rating")
	}
	defer rows.Close()

	var stats model.Statistics
	for rows.Next() {
		var rating string
		var count int
		if err := rows.Scan(&rating, &count); err != nil {
			return model.Statistics{}, eris.Wrap(err, "postgres: scan rating count")
		}
		applyRatingCount(&stats, rating, count)
	}
	return stats, eris.Wrap(rows.Err(), "postgres: count iterate")
}

func (s *PostgresStore) AppendReviewNotes(ctx context.Context, id, notes string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE screenings SET manual_review = TRUE,
			review_notes = CASE WHEN review_notes = '' THEN $1 ELSE review_notes || E'\n' || $1 END
		 WHERE id = $2`,
		notes, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: append review notes %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "id %s", id)
	}
	return nil
}

func scanPgScreening(row pgx.Row) (*model.ScreeningRecord, error) {
	var rec model.ScreeningRecord
	var factsJSON, outcomeJSON []byte
	var sources *string
	var createdAt time.Time

	err := row.Scan(&rec.ID, &rec.Subject, &rec.IsUserScreening, &factsJSON, &outcomeJSON,
		&rec.SchemaVersion, &rec.ProcessingTimeMs, &sources, &rec.ManualReviewRequired,
		&rec.ReviewNotes, &createdAt)
	if err != nil {
		return nil, err
	}

	rec.CreatedAt = createdAt.UTC()
	if sources != nil && *sources != "" {
		rec.DataSourcesUsed = strings.Split(*sources, ",")
	}
	if err := json.Unmarshal(factsJSON, &rec.Facts); err != nil {
		return nil, eris.Wrap(err, "unmarshal facts")
	}
	if err := json.Unmarshal(outcomeJSON, &rec.Outcome); err != nil {
		return nil, eris.Wrap(err, "unmarshal outcome")
	}
	return &rec, nil
}
