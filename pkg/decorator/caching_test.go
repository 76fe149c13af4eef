package decorator_test

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/architeacher/reporting/pkg/decorator"
)

type testQuery struct {
	ID string
}

type testResult struct {
	Value string
}

// memoryCache is a generational query cache keyed by testQuery.ID. When
// release is set, writes wait for it before landing.
type memoryCache struct {
	mu         sync.Mutex
	generation int
	entries    map[string]testResult
	ttls       []time.Duration
	gets       int
	getErr     error
	release    chan struct{}
	stored     chan struct{}
}

func slot(generation int, id string) string {
	return strconv.Itoa(generation) + ":" + id
}

func newMemoryCache(seed map[string]testResult) *memoryCache {
	entries := make(map[string]testResult, len(seed))
	for id, result := range seed {
		entries[slot(0, id)] = result
	}

	return &memoryCache{entries: entries, stored: make(chan struct{}, 8)}
}

func (c *memoryCache) Get(_ context.Context, query testQuery) (decorator.CacheLookup[testResult], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++

	lookup := decorator.CacheLookup[testResult]{Key: slot(c.generation, query.ID)}
	if c.getErr != nil {
		return lookup, c.getErr
	}

	lookup.Value, lookup.Hit = c.entries[lookup.Key]

	return lookup, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, result testResult, ttl time.Duration) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("cache writes must be bounded")
	}

	if c.release != nil {
		select {
		case <-c.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	c.mu.Lock()
	c.entries[key] = result
	c.ttls = append(c.ttls, ttl)
	c.mu.Unlock()

	c.stored <- struct{}{}

	return nil
}

func (c *memoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++

	return nil
}

// snapshot returns a copy of the stored entries, the recorded TTLs and the
// number of Get calls.
func (c *memoryCache) snapshot() (map[string]testResult, []time.Duration, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return maps.Clone(c.entries), slices.Clone(c.ttls), c.gets
}

type mockQueryHandler struct {
	mu     sync.Mutex
	calls  int
	status decorator.CacheStatus
	result testResult
	err    error
}

func (h *mockQueryHandler) Execute(ctx context.Context, _ testQuery) (testResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls++
	h.status = decorator.GetCacheStatus(ctx)

	return h.result, h.err
}

func (h *mockQueryHandler) setResult(result testResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.result = result
}

func (h *mockQueryHandler) observed() (int, decorator.CacheStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.calls, h.status
}

func TestQueryCachingDecorator(t *testing.T) {
	t.Parallel()

	fresh := testResult{Value: "from-database"}
	cachedResult := testResult{Value: "from-cache"}
	errQuery := errors.New("relation \"email\" does not exist")

	cases := []struct {
		name           string
		config         decorator.CacheConfig
		nilCache       bool
		seed           map[string]testResult
		getErr         error
		handlerErr     error
		expected       testResult
		expectedErr    error
		expectedCalls  int
		expectedStatus decorator.CacheStatus
		expectStored   bool
	}{
		{
			name:          "hit skips the handler",
			config:        decorator.CacheConfig{Enabled: true, TTL: time.Minute},
			seed:          map[string]testResult{"emails": cachedResult},
			expected:      cachedResult,
			expectedCalls: 0,
		},
		{
			name:           "miss runs the handler and stores the result",
			config:         decorator.CacheConfig{Enabled: true, TTL: time.Minute},
			expected:       fresh,
			expectedCalls:  1,
			expectedStatus: decorator.CacheStatusMiss,
			expectStored:   true,
		},
		{
			name:           "cache read failure falls through",
			config:         decorator.CacheConfig{Enabled: true, TTL: time.Minute},
			getErr:         errors.New("keydb: connection refused"),
			expected:       fresh,
			expectedCalls:  1,
			expectedStatus: decorator.CacheStatusError,
			expectStored:   true,
		},
		{
			name:           "handler error is returned and not cached",
			config:         decorator.CacheConfig{Enabled: true, TTL: time.Minute},
			handlerErr:     errQuery,
			expectedErr:    errQuery,
			expectedCalls:  1,
			expectedStatus: decorator.CacheStatusMiss,
		},
		{
			name:           "disabled cache bypasses",
			config:         decorator.CacheConfig{Enabled: false},
			seed:           map[string]testResult{"emails": cachedResult},
			expected:       fresh,
			expectedCalls:  1,
			expectedStatus: decorator.CacheStatusBypass,
		},
		{
			name:           "nil cache bypasses",
			config:         decorator.CacheConfig{Enabled: true, TTL: time.Minute},
			nilCache:       true,
			expected:       fresh,
			expectedCalls:  1,
			expectedStatus: decorator.CacheStatusBypass,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cache := newMemoryCache(tc.seed)
			cache.getErr = tc.getErr

			var queryCache decorator.Cache[testQuery, testResult] = cache
			if tc.nilCache {
				queryCache = nil
			}

			handler := &mockQueryHandler{result: fresh, err: tc.handlerErr}
			decorated := decorator.NewQueryCachingDecorator[testQuery, testResult](handler, queryCache, tc.config)

			result, err := decorated.Execute(context.Background(), testQuery{ID: "emails"})

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, tc.expected, result)
			}

			calls, status := handler.observed()
			require.Equal(t, tc.expectedCalls, calls)

			if tc.expectedCalls > 0 {
				require.Equal(t, tc.expectedStatus, status)
			}

			if !tc.expectStored {
				require.Never(t, func() bool { return len(cache.stored) > 0 }, 50*time.Millisecond, 5*time.Millisecond)

				return
			}

			select {
			case <-cache.stored:
			case <-time.After(time.Second):
				t.Fatal("fresh result was not written to the cache")
			}

			entries, ttls, _ := cache.snapshot()
			require.Equal(t, fresh, entries[slot(0, "emails")])
			require.Equal(t, []time.Duration{time.Minute}, ttls)
		})
	}
}

func TestQueryCachingDecorator_SecondCallHits(t *testing.T) {
	t.Parallel()

	cache := newMemoryCache(nil)
	handler := &mockQueryHandler{result: testResult{Value: "3"}}
	decorated := decorator.NewQueryCachingDecorator[testQuery, testResult](
		handler, cache, decorator.CacheConfig{Enabled: true, TTL: time.Second},
	)

	_, err := decorated.Execute(context.Background(), testQuery{ID: "count"})
	require.NoError(t, err)

	<-cache.stored

	result, err := decorated.Execute(context.Background(), testQuery{ID: "count"})
	require.NoError(t, err)
	require.Equal(t, "3", result.Value)

	calls, _ := handler.observed()
	_, _, gets := cache.snapshot()
	require.Equal(t, 1, calls)
	require.Equal(t, 2, gets)
}

func TestQueryCachingDecorator_WriteOutlivesCaller(t *testing.T) {
	t.Parallel()

	cache := newMemoryCache(nil)
	decorated := decorator.NewQueryCachingDecorator[testQuery, testResult](
		&mockQueryHandler{result: testResult{Value: "page-0"}},
		cache,
		decorator.CacheConfig{Enabled: true, TTL: time.Minute},
	)

	ctx, cancel := context.WithCancel(context.Background())

	_, err := decorated.Execute(ctx, testQuery{ID: "page"})
	require.NoError(t, err)
	cancel()

	select {
	case <-cache.stored:
	case <-time.After(time.Second):
		t.Fatal("cache write was cancelled with the request")
	}
}

func TestQueryCachingDecorator_WriteRacingInvalidationIsNotServed(t *testing.T) {
	t.Parallel()

	cache := newMemoryCache(nil)
	cache.release = make(chan struct{})

	rows := &mockQueryHandler{result: testResult{Value: "1"}}
	count := decorator.NewQueryCachingDecorator[testQuery, testResult](
		rows, cache, decorator.CacheConfig{Enabled: true, TTL: time.Minute},
	)
	insert := decorator.NewCommandInvalidatingDecorator[testCommand, string](mockCommandHandler{}, cache)

	ctx := context.Background()

	first, err := count.Execute(ctx, testQuery{ID: "count"})
	require.NoError(t, err)
	require.Equal(t, "1", first.Value)

	rows.setResult(testResult{Value: "2"})
	_, err = insert.Handle(ctx, testCommand{Name: "ada@analytical.io"})
	require.NoError(t, err)

	close(cache.release)

	select {
	case <-cache.stored:
	case <-time.After(time.Second):
		t.Fatal("pending write never landed")
	}

	second, err := count.Execute(ctx, testQuery{ID: "count"})
	require.NoError(t, err)
	require.Equal(t, "2", second.Value)

	calls, status := rows.observed()
	require.Equal(t, 2, calls)
	require.Equal(t, decorator.CacheStatusMiss, status)
}

func TestQueryCachingDecorator_UnresolvedSlotSkipsWrite(t *testing.T) {
	t.Parallel()

	cache := &unresolvedCache{}
	decorated := decorator.NewQueryCachingDecorator[testQuery, testResult](
		&mockQueryHandler{result: testResult{Value: "4"}},
		cache,
		decorator.CacheConfig{Enabled: true, TTL: time.Minute},
	)

	result, err := decorated.Execute(context.Background(), testQuery{ID: "count"})
	require.NoError(t, err)
	require.Equal(t, "4", result.Value)
	require.Never(t, cache.written, 50*time.Millisecond, 5*time.Millisecond)
}

// unresolvedCache fails before it can name a slot, as when the generation
// cannot be read.
type unresolvedCache struct {
	mu     sync.Mutex
	writes int
}

func (c *unresolvedCache) Get(context.Context, testQuery) (decorator.CacheLookup[testResult], error) {
	return decorator.CacheLookup[testResult]{}, errors.New("keydb: i/o timeout")
}

func (c *unresolvedCache) Set(context.Context, string, testResult, time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writes++

	return nil
}

func (c *unresolvedCache) written() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.writes > 0
}

func TestCacheStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, decorator.CacheStatusBypass, decorator.GetCacheStatus(context.Background()))

	for _, status := range []decorator.CacheStatus{
		decorator.CacheStatusHit,
		decorator.CacheStatusMiss,
		decorator.CacheStatusBypass,
		decorator.CacheStatusError,
	} {
		ctx := decorator.WithCacheStatus(context.Background(), status)
		require.Equal(t, status, decorator.GetCacheStatus(ctx))
	}
}

type testCommand struct {
	Name string
}

type mockCommandHandler struct {
	err error
}

func (h mockCommandHandler) Handle(_ context.Context, cmd testCommand) (string, error) {
	return cmd.Name, h.err
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (i *countingInvalidator) Invalidate(_ context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.calls++

	return i.err
}

func (i *countingInvalidator) Calls() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.calls
}

func TestCommandInvalidatingDecorator(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name            string
		handlerErr      error
		invalidatorErr  error
		expectedCalls   int
		expectedErr     error
		expectedOutcome string
	}{
		{
			name:            "invalidates after success",
			expectedCalls:   1,
			expectedOutcome: "saved",
		},
		{
			name:          "keeps cache on failure",
			handlerErr:    errors.New("write failed"),
			expectedCalls: 0,
			expectedErr:   errors.New("write failed"),
		},
		{
			name:            "invalidation error does not fail the command",
			invalidatorErr:  errors.New("cache down"),
			expectedCalls:   1,
			expectedOutcome: "saved",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			invalidator := &countingInvalidator{err: tc.invalidatorErr}
			decorated := decorator.NewCommandInvalidatingDecorator[testCommand, string](
				mockCommandHandler{err: tc.handlerErr},
				invalidator,
			)

			result, err := decorated.Handle(context.Background(), testCommand{Name: "saved"})
			if tc.expectedErr != nil {
				require.EqualError(t, err, tc.expectedErr.Error())
			} else {
				require.NoError(t, err)
				require.Equal(t, tc.expectedOutcome, result)
			}

			require.Equal(t, tc.expectedCalls, invalidator.Calls())
		})
	}
}

func TestCommandInvalidatingDecorator_NoInvalidators(t *testing.T) {
	t.Parallel()

	base := mockCommandHandler{}
	decorated := decorator.NewCommandInvalidatingDecorator[testCommand, string](base, nil)

	require.Equal(t, base, decorated)
}
