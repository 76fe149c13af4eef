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
	FindEmployeesQuery struct {
		Filter *model.EmployeeCriteria
		Page   model.PageRequest
	}

	FindEmployeesQueryHandler = decorator.QueryHandler[FindEmployeesQuery, *model.Page[*model.Employee]]

	findEmployeesQueryHandler struct {
		employeesService ports.EmployeesService
	}
)

func NewFindEmployeesQueryHandler(
	svc ports.EmployeesService,
	cache decorator.Cache[FindEmployeesQuery, *model.Page[*model.Employee]],
	cacheConfig decorator.CacheConfig,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) FindEmployeesQueryHandler {
	return decorator.ApplyQueryDecorators[FindEmployeesQuery, *model.Page[*model.Employee]](
		decorator.NewQueryCachingDecorator[FindEmployeesQuery, *model.Page[*model.Employee]](
			findEmployeesQueryHandler{employeesService: svc},
			cache,
			cacheConfig,
		),
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h findEmployeesQueryHandler) Execute(ctx context.Context, query FindEmployeesQuery) (*model.Page[*model.Employee], error) {
	return h.employeesService.FindEmployees(ctx, model.EmployeeQuery(query.Filter, query.Page))
}
