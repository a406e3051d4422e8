// Package cache provides the shared key/value collaborator used by the
// profile read path. Entries carry an absolute expiry; an expired entry is
// never served, it reports a miss instead.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store with per-entry expiry. Get reports ok=false on
// a miss or an expired entry. Set replaces any prior entry wholesale.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Close() error
}
