package cache

import (
	"context"
	"time"
)

// Store is the key-value capability consumed by components that cache
// derived data. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value and whether the key was present. A missing
	// key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
