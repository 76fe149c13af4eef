package middleware

import (
	"bytes"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/architeacher/reporting/pkg/idempotency"
	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/services/svc-reporting/internal/config"
	"github.com/architeacher/reporting/services/svc-reporting/internal/ports"
)

// Idempotency replays the stored 2xx response of a request that carries an
// already seen key. The key is bound to the request body: reusing it with a
// different body is rejected.
func Idempotency(
	cache ports.IdempotencyCache,
	cfg config.Idempotency,
	log logger.Logger,
) func(http.Handler) http.Handler {
	if !cfg.Enabled || cache == nil {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(cfg.RequiredMethods, r.Method) {
				next.ServeHTTP(w, r)

				return
			}

			key := r.Header.Get(cfg.HeaderName)
			if key == "" {
				next.ServeHTTP(w, r)

				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "unable to read request body")

				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))

			keyed, err := idempotency.NewRequest(r.Method, r.URL.Path, key, body)
			if err != nil {
				WriteError(w, http.StatusBadRequest, CodeInvalidIdempotencyKey, err.Error())

				return
			}

			ctx := idempotency.WithRequest(r.Context(), keyed)
			reqLog := log.WithContext(ctx)
			cacheKey := keyed.CacheKey()

			cached, err := cache.Get(ctx, cacheKey)
			if err != nil {
				reqLog.Warn().Err(err).Msg("idempotency cache get failed")
				degrade(w, r, next, cfg.GracefulDegraded)

				return
			}

			if cached != nil {
				if keyed.Conflicts(cached.Fingerprint) {
					WriteError(w, http.StatusUnprocessableEntity, CodeIdempotencyKeyReused,
						idempotency.ErrKeyReused.Error())

					return
				}

				replay(w, cfg.ReplayedHeader, cached)

				return
			}

			acquired, err := cache.SetLock(ctx, cacheKey, cfg.LockTTL)
			if err != nil {
				reqLog.Warn().Err(err).Msg("idempotency cache lock failed")
				degrade(w, r, next, cfg.GracefulDegraded)

				return
			}

			if !acquired {
				WriteError(w, http.StatusConflict, CodeRequestInProgress,
					"a request with this idempotency key is already being processed")

				return
			}

			defer func() {
				if err := cache.ReleaseLock(ctx, cacheKey); err != nil {
					reqLog.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency lock")
				}
			}()

			capture := &capturingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(capture, r.WithContext(ctx))

			if capture.status < http.StatusOK || capture.status >= http.StatusMultipleChoices {
				return
			}

			response := &ports.CachedResponse{
				StatusCode:  capture.status,
				Headers:     firstValues(w.Header()),
				Body:        capture.body.Bytes(),
				Fingerprint: keyed.Fingerprint,
				CreatedAt:   time.Now().UTC(),
			}

			if err := cache.Set(ctx, cacheKey, response, cfg.CacheTTL); err != nil {
				reqLog.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store idempotent response")
			}
		})
	}
}

func degrade(w http.ResponseWriter, r *http.Request, next http.Handler, graceful bool) {
	if graceful {
		next.ServeHTTP(w, r)

		return
	}

	WriteError(w, http.StatusServiceUnavailable, CodeCacheUnavailable,
		"idempotency service temporarily unavailable")
}

func replay(w http.ResponseWriter, replayedHeader string, cached *ports.CachedResponse) {
	for name, value := range cached.Headers {
		w.Header().Set(name, value)
	}

	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(cached.StatusCode)
	_, _ = w.Write(cached.Body)
}

// perRequestHeaders are never replayed.
var perRequestHeaders = []string{
	RequestIDHeader, CorrelationIDHeader,
	RateLimitLimitHeader, RateLimitRemainingHeader, RateLimitResetHeader,
}

func firstValues(header http.Header) map[string]string {
	values := make(map[string]string, len(header))

	for name, value := range header {
		if slices.ContainsFunc(perRequestHeaders, func(h string) bool { return strings.EqualFold(h, name) }) {
			continue
		}

		if len(value) > 0 {
			values[name] = value[0]
		}
	}

	return values
}

type capturingWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (w *capturingWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}

	w.wroteHeader = true
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}

	w.body.Write(b)

	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
