package screening

import "time"

// FreshnessWindow is how long a stored screening may be reused before
// it must be recomputed. Recomputation is lazy: nothing recomputes in
// the background, the next request past the window does.
const FreshnessWindow = 7 * 24 * time.Hour

// Stale reports whether a record last updated at the given time must
// be recomputed. The boundary is exclusive: exactly seven days old is
// still fresh.
func Stale(lastUpdated, now time.Time) bool {
	return now.Sub(lastUpdated) > FreshnessWindow
}
