package screening

import "github.com/rotisserie/eris"

// Error kinds surfaced to callers. Every failure is scoped to a single
// screening request; nothing here is fatal to the process.
var (
	// ErrInvalidFacts marks input outside declared ranges or enums.
	// Rejected before scoring, never silently clamped.
	ErrInvalidFacts = eris.New("invalid facts")

	// ErrNotFound marks a coin the fact source does not know.
	ErrNotFound = eris.New("coin not found")

	// ErrDataUnavailable marks a fact source that could not supply
	// facts within the caller's deadline.
	ErrDataUnavailable = eris.New("facts unavailable")

	// ErrEntitlementDenied marks a caller not permitted to trigger a
	// fresh computation.
	ErrEntitlementDenied = eris.New("entitlement denied")

	// ErrConcurrentRecompute marks lease contention on a (subject,
	// asset) key. Retried once internally before last-write-wins.
	ErrConcurrentRecompute = eris.New("concurrent recomputation in flight")
)
