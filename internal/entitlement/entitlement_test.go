package entitlement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUnlimited(t *testing.T) {
	ctx := context.Background()
	var c Checker = Unlimited{}

	for i := 0; i < 100; i++ {
		assert.True(t, c.Check(ctx, "user-1"))
		c.Increment(ctx, "user-1")
	}
	assert.True(t, c.Check(ctx, ""))
}

func TestFreeTierMonthlyCap(t *testing.T) {
	ctx := context.Background()
	f := NewFreeTier(3, 100, 100)

	for i := 0; i < 3; i++ {
		assert.True(t, f.Check(ctx, "user-1"), "screening %d within cap", i+1)
		f.Increment(ctx, "user-1")
	}
	assert.False(t, f.Check(ctx, "user-1"), "cap reached")

	// Other subjects are unaffected.
	assert.True(t, f.Check(ctx, "user-2"))
}

func TestFreeTierMonthRollover(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC)
	f := NewFreeTier(1, 100, 100, WithClock(func() time.Time { return now }))

	assert.True(t, f.Check(ctx, "user-1"))
	f.Increment(ctx, "user-1")
	assert.False(t, f.Check(ctx, "user-1"))

	now = time.Date(2025, 7, 1, 0, 1, 0, 0, time.UTC)
	assert.True(t, f.Check(ctx, "user-1"), "counter resets on month change")
}

func TestFreeTierAnonymousBucket(t *testing.T) {
	ctx := context.Background()
	f := NewFreeTier(5, 0.001, 2) // effectively no refill during the test

	assert.True(t, f.Check(ctx, ""))
	assert.True(t, f.Check(ctx, ""))
	assert.False(t, f.Check(ctx, ""), "burst exhausted")

	// Anonymous increments are a no-op; named subjects still work.
	f.Increment(ctx, "")
	assert.True(t, f.Check(ctx, "user-1"))
}
