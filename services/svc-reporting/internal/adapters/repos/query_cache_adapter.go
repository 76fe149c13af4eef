package repos

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/architeacher/reporting/pkg/decorator"
	"github.com/architeacher/reporting/services/svc-reporting/internal/ports"
	"github.com/cespare/xxhash/v2"
)

// QueryCacheAdapter adapts a QueryCache to the query caching decorator. The
// key of a query is "<generation>:<name>:<xxhash of its JSON form>", so
// structurally equal queries share an entry until the next invalidation.
type QueryCacheAdapter[Q any, R any] struct {
	cache ports.QueryCache
	name  string
}

func NewQueryCacheAdapter[Q any, R any](cache ports.QueryCache, name string) *QueryCacheAdapter[Q, R] {
	return &QueryCacheAdapter[Q, R]{cache: cache, name: name}
}

func (a *QueryCacheAdapter[Q, R]) Get(ctx context.Context, query Q) (decorator.CacheLookup[R], error) {
	var lookup decorator.CacheLookup[R]

	key, err := a.key(ctx, query)
	if err != nil {
		return lookup, err
	}

	lookup.Key = key

	var result R

	hit, err := a.cache.Get(ctx, key, &result)
	if err != nil || !hit {
		return lookup, err
	}

	lookup.Value, lookup.Hit = result, true

	return lookup, nil
}

func (a *QueryCacheAdapter[Q, R]) Set(ctx context.Context, key string, result R, ttl time.Duration) error {
	return a.cache.Set(ctx, key, result, ttl)
}

func (a *QueryCacheAdapter[Q, R]) key(ctx context.Context, query Q) (string, error) {
	data, err := json.Marshal(query)
	if err != nil {
		return "", fmt.Errorf("encoding %s cache key: %w", a.name, err)
	}

	generation, err := a.cache.Generation(ctx)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d:%s:%x", generation, a.name, xxhash.Sum64(data)), nil
}
