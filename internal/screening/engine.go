package screening

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/amanah-labs/halal-screener/internal/config"
	"github.com/amanah-labs/halal-screener/internal/entitlement"
	"github.com/amanah-labs/halal-screener/internal/model"
)

// RecordStore is the slice of the persistence layer the engine needs.
type RecordStore interface {
	GetLatest(ctx context.Context, subject, assetID string) (*model.ScreeningRecord, error)
	Put(ctx context.Context, rec *model.ScreeningRecord) error
}

// FactsProvider supplies structured compliance facts for a coin.
type FactsProvider interface {
	Lookup(ctx context.Context, coinID string) (*model.CryptocurrencyFacts, error)
}

// Lease tuning for per-key recompute serialization.
const (
	defaultLeaseWait    = 3 * time.Second
	defaultRetryBackoff = 200 * time.Millisecond
)

// Engine runs screenings against a record store with staleness-based
// caching, entitlement gating, and per-key serialization of
// recomputations.
type Engine struct {
	store        RecordStore
	entitlements entitlement.Checker
	methodology  config.Methodology

	group        singleflight.Group
	leaseWait    time.Duration
	retryBackoff time.Duration
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLeaseWait overrides how long a caller waits on an in-flight
// recomputation before computing independently.
func WithLeaseWait(d time.Duration) EngineOption {
	return func(e *Engine) { e.leaseWait = d }
}

// WithRetryBackoff overrides the backoff before the single internal
// retry on lease contention.
func WithRetryBackoff(d time.Duration) EngineOption {
	return func(e *Engine) { e.retryBackoff = d }
}

// NewEngine creates a screening engine. The methodology is validated
// on first use; entitlements may be nil to disable gating.
func NewEngine(st RecordStore, ent entitlement.Checker, m config.Methodology, opts ...EngineOption) *Engine {
	e := &Engine{
		store:        st,
		entitlements: ent,
		methodology:  m,
		leaseWait:    defaultLeaseWait,
		retryBackoff: defaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ScreenRequest carries everything one screening invocation needs.
type ScreenRequest struct {
	Facts   *model.CryptocurrencyFacts
	Subject string // empty for anonymous screenings

	// Sources names the data sources that produced the facts.
	Sources []string

	// Explanation is an externally produced narrative, carried through
	// unchanged. The rating never depends on it.
	Explanation string

	// Force skips the freshness check and always recomputes.
	Force bool

	Now time.Time
}

// Screen returns the screening record for the request's coin. A stored
// record still inside the freshness window is returned as-is without
// consuming entitlement; otherwise the outcome is recomputed, persisted,
// and returned. Concurrent recomputations for the same (subject, asset)
// pair are collapsed into one in-flight computation.
func (e *Engine) Screen(ctx context.Context, req ScreenRequest) (*model.ScreeningRecord, error) {
	if req.Facts == nil {
		return nil, eris.Wrap(ErrInvalidFacts, "nil facts")
	}
	if err := req.Facts.Validate(); err != nil {
		return nil, eris.Wrap(ErrInvalidFacts, err.Error())
	}
	if req.Now.IsZero() {
		req.Now = time.Now()
	}

	assetID := req.Facts.Coin.SourceID

	existing, err := e.store.GetLatest(ctx, req.Subject, assetID)
	if err != nil {
		return nil, eris.Wrap(err, "screening: load existing record")
	}
	if existing != nil && !req.Force && !Stale(existing.Outcome.LastUpdated, req.Now) {
		zap.L().Debug("screening: returning fresh cached record",
			zap.String("asset", assetID),
			zap.String("subject", req.Subject),
		)
		return existing, nil
	}

	// Entitlement gates recomputation only; a cached fresh record is
	// served above without consuming quota.
	if e.entitlements != nil && !e.entitlements.Check(ctx, req.Subject) {
		return nil, eris.Wrapf(ErrEntitlementDenied, "subject %q", req.Subject)
	}

	rec, err := e.recomputeSerialized(ctx, req, assetID)
	if err != nil {
		return nil, err
	}

	if e.entitlements != nil {
		e.entitlements.Increment(ctx, req.Subject)
	}
	return rec, nil
}

// recomputeSerialized collapses concurrent recomputations per
// (subject, asset) key. A caller that cannot join the in-flight
// computation within the lease window retries once after a short
// backoff, then computes independently; the duplicate write is
// wasteful but safe (last-write-wins).
func (e *Engine) recomputeSerialized(ctx context.Context, req ScreenRequest, assetID string) (*model.ScreeningRecord, error) {
	key := req.Subject + "|" + assetID

	for attempt := 0; attempt < 2; attempt++ {
		ch := e.group.DoChan(key, func() (any, error) {
			return e.compute(ctx, req)
		})

		select {
		case res := <-ch:
			if res.Err != nil {
				return nil, res.Err
			}
			return res.Val.(*model.ScreeningRecord), nil
		case <-ctx.Done():
			return nil, eris.Wrap(ctx.Err(), "screening: canceled")
		case <-time.After(e.leaseWait):
			zap.L().Warn("screening: lease contention on recompute",
				zap.String("key", key),
				zap.Int("attempt", attempt+1),
				zap.Error(ErrConcurrentRecompute),
			)
			if attempt == 0 {
				select {
				case <-ctx.Done():
					return nil, eris.Wrap(ctx.Err(), "screening: canceled")
				case <-time.After(e.retryBackoff):
				}
			}
		}
	}

	// Fall back to an independent computation; staleness tolerates a
	// duplicate write.
	return e.compute(ctx, req)
}

// compute evaluates the facts, builds the record, and persists it.
func (e *Engine) compute(ctx context.Context, req ScreenRequest) (*model.ScreeningRecord, error) {
	start := time.Now()

	outcome, err := Evaluate(req.Facts, e.methodology, req.Now)
	if err != nil {
		return nil, err
	}
	outcome.DetailedExplanation = req.Explanation
	outcome.Sources = req.Sources

	rec := &model.ScreeningRecord{
		ID:                   uuid.New().String(),
		Subject:              req.Subject,
		IsUserScreening:      req.Subject != "",
		Facts:                *req.Facts,
		Outcome:              *outcome,
		SchemaVersion:        SchemaVersion,
		ProcessingTimeMs:     time.Since(start).Milliseconds(),
		DataSourcesUsed:      req.Sources,
		ManualReviewRequired: needsManualReview(outcome, req.Facts),
		CreatedAt:            req.Now.UTC(),
	}

	if err := e.store.Put(ctx, rec); err != nil {
		return nil, eris.Wrap(err, "screening: persist record")
	}

	zap.L().Info("screening: computed",
		zap.String("asset", req.Facts.Coin.SourceID),
		zap.String("symbol", req.Facts.Coin.Symbol),
		zap.String("rating", string(outcome.OverallRating)),
		zap.Int("score", outcome.OverallScore),
		zap.String("confidence", string(outcome.Confidence)),
	)

	return rec, nil
}

// LookupFacts fetches facts from a provider, translating provider
// failures into the engine's error kinds. An unknown coin surfaces as
// ErrNotFound; any other failure, including a missed deadline, as
// ErrDataUnavailable. The engine never scores on partial facts.
func LookupFacts(ctx context.Context, provider FactsProvider, coinID string) (*model.CryptocurrencyFacts, error) {
	facts, err := provider.Lookup(ctx, coinID)
	if err != nil {
		if eris.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, eris.Wrap(ErrDataUnavailable, err.Error())
	}
	return facts, nil
}
