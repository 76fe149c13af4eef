//go:generate go tool github.com/maxbrunsfeld/counterfeiter/v6 -generate

package ports

//counterfeiter:generate -o ../mocks/idempotency_cache.go . IdempotencyCache
//counterfeiter:generate -o ../mocks/query_cache.go . QueryCache

import (
	"context"
	"time"
)

// CachedResponse represents a cached HTTP response.
type CachedResponse struct {
	StatusCode  int               `json:"status_code"`
	Headers     map[string]string `json:"headers"`
	Body        []byte            `json:"body"`
	Fingerprint string            `json:"fingerprint"`
	CreatedAt   time.Time         `json:"created_at"`
}

// IdempotencyCache defines the interface for idempotency caching operations.
type IdempotencyCache interface {
	// Get retrieves a cached response by idempotency key.
	// Returns nil, nil if the key does not exist.
	Get(ctx context.Context, key string) (*CachedResponse, error)

	// Set stores a response with the given idempotency key.
	Set(ctx context.Context, key string, response *CachedResponse, ttl time.Duration) error

	// SetLock acquires a processing lock for the given key.
	// Returns true if the lock was acquired, false if already locked.
	SetLock(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// ReleaseLock releases the processing lock.
	ReleaseLock(ctx context.Context, key string) error

	// IsHealthy checks if the cache is available.
	IsHealthy(ctx context.Context) bool
}

// QueryCache stores JSON encoded query results under a generational
// namespace. Keys start with the generation they were resolved under;
// Invalidate advances the generation so older entries are never read again.
type QueryCache interface {
	// Generation returns the current generation of the namespace.
	Generation(ctx context.Context) (int64, error)

	// Get decodes the value stored under key into dest and reports a hit.
	Get(ctx context.Context, key string, dest any) (bool, error)

	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	Invalidate(ctx context.Context) error

	IsHealthy(ctx context.Context) bool
}
