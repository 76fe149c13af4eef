package middleware

import (
	"encoding/json"
	"net/http"
	"time"
)

const (
	CodeInternalError          = "INTERNAL_ERROR"
	CodeRateLimitExceeded      = "RATE_LIMIT_EXCEEDED"
	CodeRateLimiterUnavailable = "RATE_LIMITER_UNAVAILABLE"
	CodeInvalidIdempotencyKey  = "INVALID_IDEMPOTENCY_KEY"
	CodeIdempotencyKeyReused   = "IDEMPOTENCY_KEY_REUSED"
	CodeRequestInProgress      = "REQUEST_IN_PROGRESS"
	CodeCacheUnavailable       = "CACHE_UNAVAILABLE"
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeRouteNotFound          = "NOT_FOUND"
	CodeNotAcceptable          = "NOT_ACCEPTABLE"
	CodeRequestTimeout         = "REQUEST_TIMEOUT"
)

// ErrorResponse is the body of every error the service writes.
type ErrorResponse struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Details   any       `json:"details,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteErrorWithDetails(w, status, code, message, nil)
}

func WriteErrorWithDetails(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Details:   details,
	})
}
