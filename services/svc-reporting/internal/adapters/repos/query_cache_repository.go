package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/services/svc-reporting/internal/infrastructure"
	"github.com/redis/go-redis/v9"
)

const (
	queryCacheVersion = "v1"
	generationKey     = "generation"
)

// QueryCacheRepository keeps JSON encoded query results in KeyDB under one
// namespace, e.g. "reporting:emails:v1:". The namespace generation lives in
// "<namespace>generation"; Invalidate increments it and then sweeps entries
// of the generation it retired.
type QueryCacheRepository struct {
	client *infrastructure.KeydbClient
	prefix string
	logger logger.Logger
}

func NewQueryCacheRepository(client *infrastructure.KeydbClient, scope, namespace string, log logger.Logger) *QueryCacheRepository {
	return &QueryCacheRepository{
		client: client,
		prefix: fmt.Sprintf("%s:%s:%s:", scope, namespace, queryCacheVersion),
		logger: log,
	}
}

func (r *QueryCacheRepository) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, fmt.Errorf("getting cached query result: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("unmarshalling cached query result: %w", err)
	}

	return true, nil
}

func (r *QueryCacheRepository) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshalling query result: %w", err)
	}

	if err := r.client.Set(ctx, r.prefix+key, data, ttl); err != nil {
		return fmt.Errorf("setting cached query result: %w", err)
	}

	return nil
}

func (r *QueryCacheRepository) Generation(ctx context.Context) (int64, error) {
	generation, _, err := r.client.GetInt64(ctx, r.prefix+generationKey)
	if err != nil {
		return 0, fmt.Errorf("reading query cache generation: %w", err)
	}

	return generation, nil
}

func (r *QueryCacheRepository) Invalidate(ctx context.Context) error {
	generation, err := r.client.Incr(ctx, r.prefix+generationKey)
	if err != nil {
		r.logger.Warn().Err(err).Str("prefix", r.prefix).Msg("failed to invalidate query cache")

		return fmt.Errorf("invalidating query cache: %w", err)
	}

	retired := fmt.Sprintf("%s%d:*", r.prefix, generation-1)

	deleted, err := r.client.DeleteMatching(ctx, retired)
	if err != nil {
		r.logger.Warn().Err(err).Str("pattern", retired).Msg("failed to sweep retired query cache entries")
	}

	r.logger.Debug().
		Str("prefix", r.prefix).
		Int64("generation", generation).
		Int64("deleted", deleted).
		Msg("query cache invalidated")

	return nil
}

func (r *QueryCacheRepository) IsHealthy(ctx context.Context) bool {
	return r.client.IsHealthy(ctx)
}
