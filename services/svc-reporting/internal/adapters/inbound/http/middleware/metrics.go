package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/architeacher/reporting/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
)

const (
	httpMethodKey     = "http.method"
	httpRouteKey      = "http.route"
	httpStatusCodeKey = "http.status_code"

	unmatchedRoute = "unmatched"
)

// Metrics records request counters labelled with the chi route pattern, so
// /api/emails/1 and /api/emails/2 share a series.
func Metrics(client metrics.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := NewResponseRecorder(w)

			next.ServeHTTP(recorder, r)

			attrs := []attribute.KeyValue{
				attribute.String(httpMethodKey, r.Method),
				attribute.String(httpRouteKey, routePattern(r)),
				attribute.String(httpStatusCodeKey, strconv.Itoa(recorder.StatusCode())),
			}

			ctx := r.Context()
			client.Inc(ctx, metrics.HTTPRequestsTotal, int64(1), attrs...)
			client.Inc(ctx, metrics.HTTPRequestDuration, time.Since(start).Seconds(), attrs...)
			client.Inc(ctx, metrics.HTTPResponseSize, int64(recorder.BytesWritten()), attrs...)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}

	return unmatchedRoute
}
