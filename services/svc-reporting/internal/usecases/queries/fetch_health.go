package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/architeacher/reporting/pkg/decorator"
	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/pkg/metrics"
	"github.com/architeacher/reporting/services/svc-reporting/internal/config"
	"github.com/architeacher/reporting/services/svc-reporting/internal/ports"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const (
	HealthStatusHealthy   = "healthy"
	HealthStatusDegraded  = "degraded"
	HealthStatusUnhealthy = "unhealthy"
)

type (
	FetchHealthReportQuery struct{}

	HealthResult struct {
		Status       string                            `json:"status"`
		Version      string                            `json:"version"`
		Uptime       string                            `json:"uptime"`
		Dependencies map[string]ports.DependencyStatus `json:"dependencies"`
	}

	FetchHealthReportQueryHandler = decorator.QueryHandler[FetchHealthReportQuery, *HealthResult]

	fetchHealthReportQueryHandler struct {
		databaseName       string
		dbHealthChecker    ports.DatabaseHealthChecker
		cacheHealthChecker ports.CacheHealthChecker
		startTime          time.Time
	}
)

// NewFetchHealthReportQueryHandler reports the database under databaseName and,
// when cacheHealthChecker is not nil, the cache under "keydb".
func NewFetchHealthReportQueryHandler(
	databaseName string,
	dbHealthChecker ports.DatabaseHealthChecker,
	cacheHealthChecker ports.CacheHealthChecker,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) FetchHealthReportQueryHandler {
	return decorator.ApplyQueryDecorators[FetchHealthReportQuery, *HealthResult](
		fetchHealthReportQueryHandler{
			databaseName:       databaseName,
			dbHealthChecker:    dbHealthChecker,
			cacheHealthChecker: cacheHealthChecker,
			startTime:          time.Now(),
		},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h fetchHealthReportQueryHandler) Execute(ctx context.Context, _ FetchHealthReportQuery) (*HealthResult, error) {
	dependencies := make(map[string]ports.DependencyStatus)

	start := time.Now()
	dbErr := h.dbHealthChecker.Ping(ctx)
	latency := time.Since(start)

	dbStatus := ports.DependencyStatus{
		Healthy: dbErr == nil,
		Latency: fmt.Sprintf("%dms", latency.Milliseconds()),
	}

	if dbErr != nil {
		dbStatus.Message = dbErr.Error()
	}

	dependencies[h.databaseName] = dbStatus

	overallStatus := HealthStatusHealthy

	if h.cacheHealthChecker != nil {
		start = time.Now()
		cacheHealthy := h.cacheHealthChecker.IsHealthy(ctx)

		cacheStatus := ports.DependencyStatus{
			Healthy: cacheHealthy,
			Latency: fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
		}

		if !cacheHealthy {
			cacheStatus.Message = "cache is unreachable"
			overallStatus = HealthStatusDegraded
		}

		dependencies["keydb"] = cacheStatus
	}

	if !dbStatus.Healthy {
		overallStatus = HealthStatusUnhealthy
	}

	return &HealthResult{
		Status:       overallStatus,
		Version:      config.ServiceVersion,
		Uptime:       time.Since(h.startTime).String(),
		Dependencies: dependencies,
	}, nil
}
