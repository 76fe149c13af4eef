package runtime

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/pkg/metrics"
	"github.com/architeacher/reporting/services/svc-reporting/internal/config"
	"github.com/architeacher/reporting/services/svc-reporting/internal/infrastructure"
	"github.com/architeacher/reporting/services/svc-reporting/internal/ports"
	"github.com/architeacher/reporting/services/svc-reporting/internal/usecases"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/throttled/throttled/v2"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	infrastructureDep struct {
		httpServer     *http.Server
		dbPool         *pgxpool.Pool
		cacheClient    *infrastructure.KeydbClient
		logger         logger.Logger
		metricsClient  metrics.Client
		tracerProvider otelTrace.TracerProvider
	}

	repositories struct {
		secretsRepo     ports.SecretsRepository
		emails          ports.EmailRepository
		employees       ports.EmployeeRepository
		databaseHealth  ports.DatabaseHealthChecker
		emailsCache     ports.QueryCache
		employeesCache  ports.QueryCache
		idempotencyRepo ports.IdempotencyCache
		rateLimitStore  throttled.GCRAStoreCtx
	}

	servicesDep struct {
		emails    ports.EmailsService
		employees ports.EmployeesService
		reports   ports.ReportsService
	}

	cleanup struct {
		resource string
		fn       func(ctx context.Context) error
	}

	dependencies struct {
		config       *config.ServiceConfig
		configLoader *config.Loader

		infra     infrastructureDep
		repos     repositories
		services  servicesDep
		exporters ports.ReportExporters
		app       *usecases.Application

		cleanups []cleanup
	}

	DependencyOption func(*dependencies) error
)

func initializeDependencies(ctx context.Context, opts ...DependencyOption) (*dependencies, error) {
	deps := &dependencies{}

	allOpts := append(defaultOptions(ctx), opts...)

	for _, opt := range allOpts {
		if err := opt(deps); err != nil {
			deps.releaseAll(context.WithoutCancel(ctx))

			return nil, fmt.Errorf("failed to apply dependency option: %w", err)
		}
	}

	return deps, nil
}

// onShutdown registers fn to run during shutdown. Resources are released in
// reverse registration order.
func (d *dependencies) onShutdown(resource string, fn func(ctx context.Context) error) {
	d.cleanups = append(d.cleanups, cleanup{resource: resource, fn: fn})
}

func (d *dependencies) releaseAll(ctx context.Context) {
	for _, c := range slices.Backward(d.cleanups) {
		if err := c.fn(ctx); err != nil {
			d.infra.logger.Error().
				Err(err).
				Str("resource", c.resource).
				Msg("failed to shutdown the resource gracefully")
		}
	}

	d.cleanups = nil
}
