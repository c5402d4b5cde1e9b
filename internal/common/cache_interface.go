package common

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/logging"
)

// CacheInterface defines the contract for cache implementations.
// Values are opaque bytes so the in-memory and Redis backends behave the same.
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(ctx context.Context, key string, value []byte, duration time.Duration)

	// Get retrieves a value from cache by key
	// Returns the value and true if found, nil and false otherwise
	Get(ctx context.Context, key string) ([]byte, bool)

	// Delete removes a value from cache by key
	Delete(ctx context.Context, key string)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// GetOrSetJSON returns the cached JSON value under key, or calls loader and
// caches its result for duration. Loader errors are not cached.
func GetOrSetJSON[T any](
	ctx context.Context,
	c CacheInterface,
	key string,
	duration time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	if data, found := c.Get(ctx, key); found {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		logging.Warn("Discarding undecodable cache entry", "key", key)
		c.Delete(ctx, key)
	}

	val, err := loader(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	data, err := json.Marshal(val)
	if err != nil {
		logging.Warn("Cache: failed to marshal value", "key", key, "error", err)
		return val, nil
	}
	c.Set(ctx, key, data, duration)
	return val, nil
}
