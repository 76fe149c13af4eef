package circuitbreaker

import "errors"

var (
	// ErrCircuitOpen is returned without calling through while the breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrTooManyRequests is returned when a half-open breaker already has its trial requests in flight.
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)
