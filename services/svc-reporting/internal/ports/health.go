//go:generate go tool github.com/maxbrunsfeld/counterfeiter/v6 -generate

package ports

//counterfeiter:generate -o ../mocks/database_health_checker.go . DatabaseHealthChecker
//counterfeiter:generate -o ../mocks/cache_health_checker.go . CacheHealthChecker

import "context"

// DependencyStatus represents the health status of a dependency.
type DependencyStatus struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// DatabaseHealthChecker defines the interface for database health checks.
type DatabaseHealthChecker interface {
	// Ping checks if the database connection is alive.
	Ping(ctx context.Context) error
}

// CacheHealthChecker reports whether the cache answers.
type CacheHealthChecker interface {
	IsHealthy(ctx context.Context) bool
}
