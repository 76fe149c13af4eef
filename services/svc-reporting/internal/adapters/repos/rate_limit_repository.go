package repos

import (
	"context"
	"time"

	"github.com/architeacher/reporting/services/svc-reporting/internal/infrastructure"
	"github.com/throttled/throttled/v2"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimitStore keeps GCRA state for the HTTP rate limiter in KeyDB so
// every replica shares one budget per client.
type RateLimitStore struct {
	client *infrastructure.KeydbClient
}

var _ throttled.GCRAStoreCtx = (*RateLimitStore)(nil)

func NewRateLimitStore(client *infrastructure.KeydbClient) *RateLimitStore {
	return &RateLimitStore{client: client}
}

func (s *RateLimitStore) GetWithTime(ctx context.Context, key string) (int64, time.Time, error) {
	return s.client.GetInt64(ctx, rateLimitKeyPrefix+key)
}

func (s *RateLimitStore) SetIfNotExistsWithTTL(ctx context.Context, key string, value int64, ttl time.Duration) (bool, error) {
	return s.client.SetInt64NX(ctx, rateLimitKeyPrefix+key, value, ttl)
}

func (s *RateLimitStore) CompareAndSwapWithTTL(ctx context.Context, key string, old, next int64, ttl time.Duration) (bool, error) {
	return s.client.CompareAndSwapInt64(ctx, rateLimitKeyPrefix+key, old, next, ttl)
}
