package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

func SecurityHeaders(apiVersion string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("API-Version", apiVersion)

			next.ServeHTTP(w, r)
		})
	}
}

// CORS exposes the pagination and tracing headers to browser clients.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Content-Type", RequestIDHeader, CorrelationIDHeader,
			"Idempotency-Key", "traceparent", "tracestate",
		},
		ExposedHeaders: []string{
			RequestIDHeader, CorrelationIDHeader, "X-Total-Count", "Link", "Location",
			RateLimitLimitHeader, RateLimitRemainingHeader, RateLimitResetHeader,
		},
		MaxAge: 86400,
	}).Handler
}
