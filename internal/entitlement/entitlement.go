// Package entitlement gates fresh screening computations behind
// free-tier and subscription limits. Cached fresh records are never
// gated; only recomputation consumes quota.
package entitlement

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Checker answers whether a subject may trigger a fresh computation.
type Checker interface {
	// Check reports whether the subject (empty = anonymous) may
	// trigger a new screening right now.
	Check(ctx context.Context, subject string) bool

	// Increment records one consumed screening for the subject.
	Increment(ctx context.Context, subject string)
}

// Unlimited permits everything. Used for CLI runs and paid tiers.
type Unlimited struct{}

func (Unlimited) Check(context.Context, string) bool { return true }
func (Unlimited) Increment(context.Context, string)  {}

// FreeTier enforces a per-subject monthly screening cap plus a global
// token bucket for anonymous requests.
type FreeTier struct {
	monthlyCap int
	anonymous  *rate.Limiter

	mu     sync.Mutex
	counts map[string]int
	month  time.Month
	now    func() time.Time
}

// Option configures a FreeTier checker.
type Option func(*FreeTier)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(f *FreeTier) { f.now = now }
}

// NewFreeTier creates a free-tier checker. monthlyCap bounds named
// subjects per calendar month; anonymous traffic shares one token
// bucket of anonPerSec with the given burst.
func NewFreeTier(monthlyCap int, anonPerSec float64, anonBurst int, opts ...Option) *FreeTier {
	f := &FreeTier{
		monthlyCap: monthlyCap,
		anonymous:  rate.NewLimiter(rate.Limit(anonPerSec), anonBurst),
		counts:     make(map[string]int),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.month = f.now().Month()
	return f
}

func (f *FreeTier) Check(_ context.Context, subject string) bool {
	if subject == "" {
		return f.anonymous.Allow()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.rollMonthLocked()

	allowed := f.counts[subject] < f.monthlyCap
	if !allowed {
		zap.L().Debug("entitlement: monthly cap reached",
			zap.String("subject", subject),
			zap.Int("cap", f.monthlyCap),
		)
	}
	return allowed
}

func (f *FreeTier) Increment(_ context.Context, subject string) {
	if subject == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rollMonthLocked()
	f.counts[subject]++
}

// rollMonthLocked resets counters when the calendar month changes.
func (f *FreeTier) rollMonthLocked() {
	if m := f.now().Month(); m != f.month {
		f.month = m
		f.counts = make(map[string]int)
	}
}
