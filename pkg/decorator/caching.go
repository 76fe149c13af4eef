package decorator

import (
	"context"
	"time"
)

const defaultCacheWriteTimeout = 2 * time.Second

type (
	// CacheStatus represents the status of a cache operation.
	CacheStatus string

	cacheStatusKey struct{}

	// CacheConfig holds configuration for the caching decorator.
	CacheConfig struct {
		Enabled bool
		TTL     time.Duration
		// WriteTimeout bounds the background write of a fresh result.
		WriteTimeout time.Duration
	}

	// CacheLookup is the outcome of a cache read. Key names the slot a fresh
	// result for the query is written to; it is resolved before the query
	// runs, so a write racing an invalidation lands in a slot nobody reads.
	// An empty Key disables the write.
	CacheLookup[R Result] struct {
		Key   string
		Value R
		Hit   bool
	}

	// CacheGetter retrieves items from cache.
	CacheGetter[Q Query, R Result] interface {
		Get(ctx context.Context, query Q) (CacheLookup[R], error)
	}

	// CacheSetter stores items in the slot returned by a prior lookup.
	CacheSetter[R Result] interface {
		Set(ctx context.Context, key string, result R, ttl time.Duration) error
	}

	// Cache combines getter and setter operations.
	Cache[Q Query, R Result] interface {
		CacheGetter[Q, R]
		CacheSetter[R]
	}

	// Invalidator drops cached query results after a successful write.
	Invalidator interface {
		Invalidate(ctx context.Context) error
	}

	queryCachingDecorator[Q Query, R Result] struct {
		base   QueryHandler[Q, R]
		cache  Cache[Q, R]
		config CacheConfig
	}

	commandInvalidatingDecorator[C Command, R any] struct {
		base         CommandHandler[C, R]
		invalidators []Invalidator
	}
)

const (
	CacheStatusHit    CacheStatus = "HIT"
	CacheStatusMiss   CacheStatus = "MISS"
	CacheStatusBypass CacheStatus = "BYPASS"
	CacheStatusError  CacheStatus = "ERROR"
)

// WithCacheStatus adds cache status to context.
func WithCacheStatus(ctx context.Context, status CacheStatus) context.Context {
	return context.WithValue(ctx, cacheStatusKey{}, status)
}

// GetCacheStatus retrieves cache status from context.
func GetCacheStatus(ctx context.Context) CacheStatus {
	if status, ok := ctx.Value(cacheStatusKey{}).(CacheStatus); ok {
		return status
	}

	return CacheStatusBypass
}

// NewQueryCachingDecorator serves query results from cache and stores misses
// in the background.
func NewQueryCachingDecorator[Q Query, R Result](
	base QueryHandler[Q, R],
	cache Cache[Q, R],
	config CacheConfig,
) QueryHandler[Q, R] {
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = defaultCacheWriteTimeout
	}

	return queryCachingDecorator[Q, R]{
		base:   base,
		cache:  cache,
		config: config,
	}
}

func (d queryCachingDecorator[Q, R]) Execute(ctx context.Context, query Q) (R, error) {
	if !d.config.Enabled || d.cache == nil {
		return d.base.Execute(WithCacheStatus(ctx, CacheStatusBypass), query)
	}

	lookup, err := d.cache.Get(ctx, query)
	if err == nil && lookup.Hit {
		return lookup.Value, nil
	}

	status := CacheStatusMiss
	if err != nil {
		status = CacheStatusError
	}

	result, err := d.base.Execute(WithCacheStatus(ctx, status), query)
	if err != nil {
		var zero R

		return zero, err
	}

	if lookup.Key == "" {
		return result, nil
	}

	writeCtx := context.WithoutCancel(ctx)

	go func() {
		writeCtx, cancel := context.WithTimeout(writeCtx, d.config.WriteTimeout)
		defer cancel()

		_ = d.cache.Set(writeCtx, lookup.Key, result, d.config.TTL)
	}()

	return result, nil
}

// NewCommandInvalidatingDecorator invalidates every given cache once the
// wrapped command succeeds. Invalidation failures do not fail the command.
func NewCommandInvalidatingDecorator[C Command, R any](
	base CommandHandler[C, R],
	invalidators ...Invalidator,
) CommandHandler[C, R] {
	active := make([]Invalidator, 0, len(invalidators))

	for _, invalidator := range invalidators {
		if invalidator != nil {
			active = append(active, invalidator)
		}
	}

	if len(active) == 0 {
		return base
	}

	return commandInvalidatingDecorator[C, R]{base: base, invalidators: active}
}

func (d commandInvalidatingDecorator[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	result, err := d.base.Handle(ctx, cmd)
	if err != nil {
		return result, err
	}

	for _, invalidator := range d.invalidators {
		_ = invalidator.Invalidate(ctx)
	}

	return result, nil
}
