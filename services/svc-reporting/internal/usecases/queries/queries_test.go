package queries_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/architeacher/reporting/pkg/decorator"
	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/pkg/metrics/noop"
	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/architeacher/reporting/services/svc-reporting/internal/infrastructure"
	"github.com/architeacher/reporting/services/svc-reporting/internal/usecases/queries"
	"github.com/stretchr/testify/require"
)

type mockEmailsService struct {
	mu           sync.Mutex
	findCalls    int
	lastCriteria model.Criteria
	getEmailFn   func(ctx context.Context, id int64) (*model.Email, error)
	findFn       func(ctx context.Context, criteria model.Criteria) (*model.Page[*model.Email], error)
	countFn      func(ctx context.Context, criteria model.Criteria) (int64, error)
}

func (m *mockEmailsService) CreateEmail(_ context.Context, email *model.Email) (*model.Email, error) {
	return email, nil
}

func (m *mockEmailsService) UpdateEmail(_ context.Context, _ int64, email *model.Email) (*model.Email, error) {
	return email, nil
}

func (m *mockEmailsService) PatchEmail(_ context.Context, _ int64, _ model.EmailPatch) (*model.Email, error) {
	return nil, model.ErrEmailNotFound
}

func (m *mockEmailsService) GetEmail(ctx context.Context, id int64) (*model.Email, error) {
	if m.getEmailFn != nil {
		return m.getEmailFn(ctx, id)
	}

	return nil, model.ErrEmailNotFound
}

func (m *mockEmailsService) FindEmails(ctx context.Context, criteria model.Criteria) (*model.Page[*model.Email], error) {
	m.mu.Lock()
	m.findCalls++
	m.lastCriteria = criteria
	m.mu.Unlock()

	if m.findFn != nil {
		return m.findFn(ctx, criteria)
	}

	return model.NewPage[*model.Email](nil, criteria, 0), nil
}

func (m *mockEmailsService) CountEmails(ctx context.Context, criteria model.Criteria) (int64, error) {
	m.mu.Lock()
	m.lastCriteria = criteria
	m.mu.Unlock()

	if m.countFn != nil {
		return m.countFn(ctx, criteria)
	}

	return 0, nil
}

func (m *mockEmailsService) DeleteEmail(_ context.Context, _ int64) error {
	return nil
}

func (m *mockEmailsService) FindCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.findCalls
}

func (m *mockEmailsService) LastCriteria() model.Criteria {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lastCriteria
}

type mockReportsService struct {
	generateFn func(ctx context.Context, request model.ReportRequest) (*model.Report, error)
}

func (m *mockReportsService) GenerateReport(ctx context.Context, request model.ReportRequest) (*model.Report, error) {
	return m.generateFn(ctx, request)
}

// memoryCache keys entries by query value, so structurally equal queries hit.
type memoryCache[Q comparable, R any] struct {
	mu      sync.Mutex
	entries map[Q]R
	stored  chan struct{}
}

func newMemoryCache[Q comparable, R any]() *memoryCache[Q, R] {
	return &memoryCache[Q, R]{entries: make(map[Q]R), stored: make(chan struct{}, 8)}
}

func (c *memoryCache[Q, R]) Get(_ context.Context, query Q) (R, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, ok := c.entries[query]

	return result, ok, nil
}

func (c *memoryCache[Q, R]) Set(_ context.Context, query Q, result R, _ time.Duration) error {
	c.mu.Lock()
	c.entries[query] = result
	c.mu.Unlock()

	c.stored <- struct{}{}

	return nil
}

func newTestDeps() (logger.Logger, noop.MetricsClient, decorator.CacheConfig) {
	return logger.New("debug", "console"), noop.NewMetricsClient(), decorator.CacheConfig{Enabled: true, TTL: time.Minute}
}

func TestGetEmailQueryHandler(t *testing.T) {
	t.Parallel()

	log, mc, _ := newTestDeps()
	tp := infrastructure.NewNoopTracerProvider()

	cases := []struct {
		name        string
		id          int64
		expectedErr error
	}{
		{
			name: "existing email is returned",
			id:   7,
		},
		{
			name:        "missing email is not found",
			id:          8,
			expectedErr: model.ErrEmailNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockEmailsService{
				getEmailFn: func(_ context.Context, id int64) (*model.Email, error) {
					if id == 7 {
						return &model.Email{ID: 7, Address: "ada@analytical.io"}, nil
					}

					return nil, model.ErrEmailNotFound
				},
			}

			handler := queries.NewGetEmailQueryHandler(svc, nil, decorator.CacheConfig{}, log, mc, tp)

			email, err := handler.Execute(context.Background(), queries.GetEmailQuery{ID: tc.id})
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				require.Nil(t, email)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.id, email.ID)
		})
	}
}

func TestFindEmailsQueryHandler_BuildsCriteriaFromFilter(t *testing.T) {
	t.Parallel()

	log, mc, _ := newTestDeps()
	svc := &mockEmailsService{}

	handler := queries.NewFindEmailsQueryHandler(svc, nil, decorator.CacheConfig{}, log, mc, infrastructure.NewNoopTracerProvider())

	filter := &model.EmailCriteria{ID: model.LongFilter{Filter: model.Filter[int64]{Equals: model.Ptr(int64(3))}}}

	page, err := handler.Execute(context.Background(), queries.FindEmailsQuery{
		Filter: filter,
		Page:   model.PageRequest{Page: 1, Size: 5},
	})
	require.NoError(t, err)
	require.Empty(t, page.Items)

	criteria := svc.LastCriteria()
	require.True(t, criteria.HasSpec())
	require.True(t, criteria.HasPagination())
	require.Equal(t, uint64(5), criteria.Offset())
}

func TestFindEmailsQueryHandler_ServesRepeatedQueriesFromCache(t *testing.T) {
	t.Parallel()

	log, mc, cacheConfig := newTestDeps()
	svc := &mockEmailsService{
		findFn: func(_ context.Context, criteria model.Criteria) (*model.Page[*model.Email], error) {
			return model.NewPage([]*model.Email{{ID: 1, Address: "ada@analytical.io"}}, criteria, 1), nil
		},
	}

	type findKey struct {
		page uint
		size uint
	}

	pages := newMemoryCache[findKey, *model.Page[*model.Email]]()
	adapter := keyedCache[queries.FindEmailsQuery, findKey, *model.Page[*model.Email]]{
		inner: pages,
		key: func(q queries.FindEmailsQuery) findKey {
			return findKey{page: q.Page.Page, size: q.Page.Size}
		},
	}

	handler := queries.NewFindEmailsQueryHandler(svc, adapter, cacheConfig, log, mc, infrastructure.NewNoopTracerProvider())
	query := queries.FindEmailsQuery{Page: model.PageRequest{Size: 20}}

	first, err := handler.Execute(context.Background(), query)
	require.NoError(t, err)

	select {
	case <-pages.stored:
	case <-time.After(time.Second):
		t.Fatal("result was not cached")
	}

	second, err := handler.Execute(context.Background(), query)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, svc.FindCalls())
}

// keyedCache maps queries holding slices or pointers onto a comparable key.
type keyedCache[Q any, K comparable, R any] struct {
	inner *memoryCache[K, R]
	key   func(Q) K
}

func (c keyedCache[Q, K, R]) Get(ctx context.Context, query Q) (R, bool, error) {
	return c.inner.Get(ctx, c.key(query))
}

func (c keyedCache[Q, K, R]) Set(ctx context.Context, query Q, result R, ttl time.Duration) error {
	return c.inner.Set(ctx, c.key(query), result, ttl)
}

func TestCountEmailsQueryHandler_IsUnpaged(t *testing.T) {
	t.Parallel()

	log, mc, _ := newTestDeps()
	svc := &mockEmailsService{
		countFn: func(_ context.Context, _ model.Criteria) (int64, error) {
			return 4, nil
		},
	}

	handler := queries.NewCountEmailsQueryHandler(svc, nil, decorator.CacheConfig{}, log, mc, infrastructure.NewNoopTracerProvider())

	count, err := handler.Execute(context.Background(), queries.CountEmailsQuery{})
	require.NoError(t, err)
	require.Equal(t, int64(4), count)
	require.False(t, svc.LastCriteria().HasPagination())
	require.False(t, svc.LastCriteria().HasSpec())
}

func TestGenerateReportQueryHandler(t *testing.T) {
	t.Parallel()

	log, mc, _ := newTestDeps()

	svc := &mockReportsService{
		generateFn: func(_ context.Context, request model.ReportRequest) (*model.Report, error) {
			if request.MinSalary < 0 {
				return nil, model.ErrInvalidFilter
			}

			return &model.Report{Title: request.Title, MinSalary: request.MinSalary}, nil
		},
	}

	handler := queries.NewGenerateReportQueryHandler(svc, log, mc, infrastructure.NewNoopTracerProvider())

	report, err := handler.Execute(context.Background(), queries.GenerateReportQuery{
		Request: model.ReportRequest{Title: "Payroll", MinSalary: 15000},
	})
	require.NoError(t, err)
	require.Equal(t, "Payroll", report.Title)

	_, err = handler.Execute(context.Background(), queries.GenerateReportQuery{
		Request: model.ReportRequest{MinSalary: -1},
	})
	require.ErrorIs(t, err, model.ErrInvalidFilter)
}

func TestFetchLivenessQueryHandler(t *testing.T) {
	t.Parallel()

	log, mc, _ := newTestDeps()

	handler := queries.NewFetchLivenessQueryHandler(log, mc, infrastructure.NewNoopTracerProvider())

	result, err := handler.Execute(context.Background(), queries.FetchLivenessQuery{})

	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, "ok", result.Status)
	require.NotEmpty(t, result.Uptime)
}

type mockDBHealthChecker struct {
	healthy bool
}

func (m *mockDBHealthChecker) Ping(_ context.Context) error {
	if !m.healthy {
		return model.ErrDatabaseConnection
	}

	return nil
}

type mockCacheHealthChecker struct {
	healthy bool
}

func (m *mockCacheHealthChecker) IsHealthy(_ context.Context) bool {
	return m.healthy
}

func TestFetchReadinessQueryHandler(t *testing.T) {
	t.Parallel()

	log, mc, _ := newTestDeps()
	tp := infrastructure.NewNoopTracerProvider()

	cases := []struct {
		name          string
		dbHealthy     bool
		expectedReady bool
	}{
		{
			name:          "service is ready when db is healthy",
			dbHealthy:     true,
			expectedReady: true,
		},
		{
			name:          "service is not ready when db is unhealthy",
			dbHealthy:     false,
			expectedReady: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dbChecker := &mockDBHealthChecker{healthy: tc.dbHealthy}
			handler := queries.NewFetchReadinessQueryHandler("postgres", dbChecker, log, mc, tp)

			result, err := handler.Execute(context.Background(), queries.FetchReadinessQuery{})

			require.NoError(t, err)
			require.NotNil(t, result)
			require.Equal(t, tc.expectedReady, result.Ready)
			require.Equal(t, "postgres", result.Database)
		})
	}
}

func TestFetchHealthReportQueryHandler(t *testing.T) {
	t.Parallel()

	log, mc, _ := newTestDeps()
	tp := infrastructure.NewNoopTracerProvider()

	cases := []struct {
		name           string
		dbHealthy      bool
		cache          *mockCacheHealthChecker
		expectedStatus string
		expectedDeps   []string
	}{
		{
			name:           "healthy without cache",
			dbHealthy:      true,
			expectedStatus: queries.HealthStatusHealthy,
			expectedDeps:   []string{"postgres"},
		},
		{
			name:           "healthy with cache",
			dbHealthy:      true,
			cache:          &mockCacheHealthChecker{healthy: true},
			expectedStatus: queries.HealthStatusHealthy,
			expectedDeps:   []string{"postgres", "keydb"},
		},
		{
			name:           "unreachable cache degrades",
			dbHealthy:      true,
			cache:          &mockCacheHealthChecker{healthy: false},
			expectedStatus: queries.HealthStatusDegraded,
			expectedDeps:   []string{"postgres", "keydb"},
		},
		{
			name:           "database down is unhealthy",
			dbHealthy:      false,
			cache:          &mockCacheHealthChecker{healthy: false},
			expectedStatus: queries.HealthStatusUnhealthy,
			expectedDeps:   []string{"postgres", "keydb"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var handler queries.FetchHealthReportQueryHandler
			if tc.cache != nil {
				handler = queries.NewFetchHealthReportQueryHandler("postgres", &mockDBHealthChecker{healthy: tc.dbHealthy}, tc.cache, log, mc, tp)
			} else {
				handler = queries.NewFetchHealthReportQueryHandler("postgres", &mockDBHealthChecker{healthy: tc.dbHealthy}, nil, log, mc, tp)
			}

			result, err := handler.Execute(context.Background(), queries.FetchHealthReportQuery{})
			require.NoError(t, err)
			require.Equal(t, tc.expectedStatus, result.Status)
			require.Len(t, result.Dependencies, len(tc.expectedDeps))

			for _, dep := range tc.expectedDeps {
				require.Contains(t, result.Dependencies, dep)
			}

			if !tc.dbHealthy {
				require.Equal(t, model.ErrDatabaseConnection.Error(), result.Dependencies["postgres"].Message)
			}
		})
	}
}
