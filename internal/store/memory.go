package store

import (
	"context"
	"sort"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/amanah-labs/halal-screener/internal/model"
)

// MemoryStore is an in-memory Store for tests and one-off CLI runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records []model.ScreeningRecord
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Put(_ context.Context, rec *model.ScreeningRecord) error {
	if rec == nil {
		return eris.New("memory: nil record")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *rec)
	return nil
}

func (s *MemoryStore) GetLatest(_ context.Context, subject, assetID string) (*model.ScreeningRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *model.ScreeningRecord
	for i := range s.records {
		r := &s.records[i]
		if r.Subject != subject || r.Facts.Coin.SourceID != assetID {
			continue
		}
		if latest == nil || r.Outcome.LastUpdated.After(latest.Outcome.LastUpdated) {
			latest = r
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

func (s *MemoryStore) ListRecent(_ context.Context, limit int, userOnly bool) ([]model.ScreeningRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.ScreeningRecord
	for _, r := range s.records {
		if userOnly && !r.IsUserScreening {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) CountByRating(_ context.Context, userOnly bool) (model.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats model.Statistics
	for _, r := range s.records {
		if userOnly && !r.IsUserScreening {
			continue
		}
		stats.Total++
		switch r.Outcome.OverallRating {
		case model.RatingHalal:
			stats.Halal++
		case model.RatingQuestionable:
			stats.Questionable++
		case model.RatingNonHalal:
			stats.NonHalal++
		}
	}
	return stats, nil
}

func (s *MemoryStore) AppendReviewNotes(_ context.Context, id, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].ManualReviewRequired = true
			if s.records[i].ReviewNotes == "" {
				s.records[i].ReviewNotes = notes
			} else {
				s.records[i].ReviewNotes += "\n" + notes
			}
			return nil
		}
	}
	return eris.Wrapf(ErrNotFound, "id %s", id)
}

func (s *MemoryStore) Migrate(_ context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
