package queries

import (
	"context"

	"github.com/architeacher/reporting/pkg/decorator"
	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/pkg/metrics"
	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/architeacher/reporting/services/svc-reporting/internal/ports"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	CountEmployeesQuery struct {
		Filter *model.EmployeeCriteria
	}

	CountEmployeesQueryHandler = decorator.QueryHandler[CountEmployeesQuery, int64]

	countEmployeesQueryHandler struct {
		employeesService ports.EmployeesService
	}
)

func NewCountEmployeesQueryHandler(
	svc ports.EmployeesService,
	cache decorator.Cache[CountEmployeesQuery, int64],
	cacheConfig decorator.CacheConfig,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) CountEmployeesQueryHandler {
	return decorator.ApplyQueryDecorators[CountEmployeesQuery, int64](
		decorator.NewQueryCachingDecorator[CountEmployeesQuery, int64](
			countEmployeesQueryHandler{employeesService: svc},
			cache,
			cacheConfig,
		),
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h countEmployeesQueryHandler) Execute(ctx context.Context, query CountEmployeesQuery) (int64, error) {
	return h.employeesService.CountEmployees(ctx, model.EmployeeQuery(query.Filter, model.UnpagedRequest()))
}
