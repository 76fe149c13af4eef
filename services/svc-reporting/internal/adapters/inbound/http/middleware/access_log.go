package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/services/svc-reporting/internal/config"
)

var healthEndpoints = []string{"/health", "/health/live", "/health/ready", "/metrics"}

// AccessLogger writes one structured line per request. Health checks are
// skipped unless LogHealthChecks is set.
func AccessLogger(log logger.Logger, cfg config.AccessLog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.LogHealthChecks && isHealthEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)

				return
			}

			start := time.Now()
			recorder := NewResponseRecorder(w)

			next.ServeHTTP(recorder, r)

			reqLogger := log.WithContext(r.Context())

			event := reqLogger.Info()
			if recorder.StatusCode() >= http.StatusInternalServerError {
				event = reqLogger.Error()
			} else if recorder.StatusCode() >= http.StatusBadRequest {
				event = reqLogger.Warn()
			}

			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Str("user_agent", r.UserAgent()).
				Str("proto", r.Proto).
				Int("status", recorder.StatusCode()).
				Uint64("bytes", recorder.BytesWritten()).
				Int64("duration_ms", time.Since(start).Milliseconds())

			if cfg.IncludeQueryParams && r.URL.RawQuery != "" {
				event.Str("query", r.URL.RawQuery)
			}

			if referer := r.Referer(); referer != "" {
				event.Str("referer", referer)
			}

			event.Msg("request served")
		})
	}
}

func isHealthEndpoint(path string) bool {
	normalized := strings.TrimSuffix(path, "/")

	for _, endpoint := range healthEndpoints {
		if normalized == endpoint {
			return true
		}
	}

	return false
}
