package session

import (
	"context"
	"time"
)

// Store maps a normalized caller key to its conversation session.
//
// Implementations must be safe for concurrent use. Put is last-writer-wins
// per key; the dialog orchestrator serializes get-then-put sequences for a
// given caller, so stores do not need optimistic locking. Persistence across
// process restarts is an implementation detail callers must not depend on.
type Store interface {
	// Get returns the session for key, or (nil, nil) when absent.
	Get(ctx context.Context, key string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, key string) error
}

// Sweepable is implemented by stores that need an external eviction pass.
// Stores with native key expiry (Redis) do not implement it.
type Sweepable interface {
	// Sweep deletes sessions whose last activity predates cutoff and
	// returns how many were evicted.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}
