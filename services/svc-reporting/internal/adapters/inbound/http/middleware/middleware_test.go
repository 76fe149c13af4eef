package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/services/svc-reporting/internal/adapters/inbound/http/middleware"
	"github.com/architeacher/reporting/services/svc-reporting/internal/config"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) middleware.ErrorResponse {
	t.Helper()

	var body middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestRequestTracking(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                  string
		requestID             string
		correlationID         string
		expectedCorrelationID func(requestID string) string
	}{
		{
			name:                  "mints both ids",
			expectedCorrelationID: func(requestID string) string { return requestID },
		},
		{
			name:                  "keeps incoming request id",
			requestID:             "req-123",
			expectedCorrelationID: func(string) string { return "req-123" },
		},
		{
			name:                  "keeps incoming correlation id",
			requestID:             "req-123",
			correlationID:         "corr-456",
			expectedCorrelationID: func(string) string { return "corr-456" },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var seenRequestID, seenCorrelationID string

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenRequestID = middleware.GetRequestID(r.Context())
				seenCorrelationID = middleware.GetCorrelationID(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/api/emails", nil)
			if tc.requestID != "" {
				req.Header.Set(middleware.RequestIDHeader, tc.requestID)
			}

			if tc.correlationID != "" {
				req.Header.Set(middleware.CorrelationIDHeader, tc.correlationID)
			}

			rec := httptest.NewRecorder()
			middleware.RequestTracking()(next).ServeHTTP(rec, req)

			require.NotEmpty(t, seenRequestID)
			if tc.requestID != "" {
				require.Equal(t, tc.requestID, seenRequestID)
			}

			require.Equal(t, tc.expectedCorrelationID(seenRequestID), seenCorrelationID)
			require.Equal(t, seenRequestID, rec.Header().Get(middleware.RequestIDHeader))
			require.Equal(t, seenCorrelationID, rec.Header().Get(middleware.CorrelationIDHeader))
		})
	}
}

func TestRecovery_WritesInternalError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	middleware.Recovery(logger.NewBufferedTestLogger(&buf))(next).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/emails", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, middleware.CodeInternalError, decodeError(t, rec).Code)
	require.Contains(t, buf.String(), "panic recovered")
}

func TestRecovery_ReraisesAbortHandler(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	})

	require.PanicsWithValue(t, http.ErrAbortHandler, func() {
		middleware.Recovery(logger.NewTestLogger())(next).
			ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	middleware.SecurityHeaders("v1")(okHandler()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/emails", nil))

	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "v1", rec.Header().Get("API-Version"))
}

func TestCORS_ExposesPaginationHeaders(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/emails", nil)
	req.Header.Set("Origin", "https://reports.example.com")

	rec := httptest.NewRecorder()
	middleware.CORS([]string{"*"})(okHandler()).ServeHTTP(rec, req)

	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "X-Total-Count")
}

func TestAccessLogger(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name            string
		path            string
		logHealthChecks bool
		expectLogged    bool
	}{
		{name: "api request", path: "/api/emails?id.equals=1", expectLogged: true},
		{name: "health check skipped", path: "/health/live", expectLogged: false},
		{name: "health check logged when enabled", path: "/health/live", logHealthChecks: true, expectLogged: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			cfg := config.AccessLog{Enabled: true, LogHealthChecks: tc.logHealthChecks, IncludeQueryParams: true}
			rec := httptest.NewRecorder()

			middleware.AccessLogger(logger.NewBufferedTestLogger(&buf), cfg)(okHandler()).
				ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			if !tc.expectLogged {
				require.Empty(t, buf.String())

				return
			}

			require.Contains(t, buf.String(), "request served")
			require.Contains(t, buf.String(), `"status":200`)
		})
	}
}

func TestAccessLogger_IncludesQuery(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := config.AccessLog{Enabled: true, IncludeQueryParams: true}
	middleware.AccessLogger(logger.NewBufferedTestLogger(&buf), cfg)(okHandler()).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/emails?address.contains=ada", nil))

	require.Contains(t, buf.String(), `"query":"address.contains=ada"`)
}
