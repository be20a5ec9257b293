// Package store persists screening records behind a backend-neutral
// interface. SQLite is the default backend; Postgres serves shared
// deployments and an in-memory store serves tests and one-off CLI use.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/amanah-labs/halal-screener/internal/model"
)

// ErrNotFound is returned when a mutation targets a record id that
// does not exist.
var ErrNotFound = eris.New("screening record not found")

// Store defines the persistence interface for screening records.
type Store interface {
	// Put persists a new screening record.
	Put(ctx context.Context, rec *model.ScreeningRecord) error

	// GetLatest returns the most recent record for a (subject, asset)
	// pair, or nil when none exists.
	GetLatest(ctx context.Context, subject, assetID string) (*model.ScreeningRecord, error)

	// ListRecent returns records newest first. When userOnly is set,
	// anonymous and system-generated screenings are excluded.
	ListRecent(ctx context.Context, limit int, userOnly bool) ([]model.ScreeningRecord, error)

	// CountByRating aggregates per-rating counts across all records.
	CountByRating(ctx context.Context, userOnly bool) (model.Statistics, error)

	// AppendReviewNotes appends manual-review annotations to an
	// existing record. The only permitted mutation after creation.
	AppendReviewNotes(ctx context.Context, id, notes string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
