// Package store defines the durable-tier abstraction used by pubcache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Set for a key (no prepended
// or appended metadata, no re-encoding, no mutation). If a store performs
// internal transforms (e.g., compression), they MUST be fully reversed so
// that the bytes returned by Get are identical to the bytes provided to Set.
//
// The durable tier is shared and unsynchronized: other client instances or
// processes may write the same key concurrently and the last write wins.
// pubcache never relies on cross-process locking from a Store.
package store

import (
	"context"
	"time"
)

// Store is a minimal byte store with TTLs. Must be safe for concurrent use.
// Every failure a Store returns is recoverable from pubcache's point of
// view: a failed Get or a corrupt value reads as a miss, and a failed Set
// or Del is dropped without failing the read that triggered it.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL. Non-positive TTL means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
