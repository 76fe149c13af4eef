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
	GetEmployeeQuery struct {
		ID int64
	}

	GetEmployeeQueryHandler = decorator.QueryHandler[GetEmployeeQuery, *model.Employee]

	getEmployeeQueryHandler struct {
		employeesService ports.EmployeesService
	}
)

func NewGetEmployeeQueryHandler(
	svc ports.EmployeesService,
	cache decorator.Cache[GetEmployeeQuery, *model.Employee],
	cacheConfig decorator.CacheConfig,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) GetEmployeeQueryHandler {
	return decorator.ApplyQueryDecorators[GetEmployeeQuery, *model.Employee](
		decorator.NewQueryCachingDecorator[GetEmployeeQuery, *model.Employee](
			getEmployeeQueryHandler{employeesService: svc},
			cache,
			cacheConfig,
		),
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h getEmployeeQueryHandler) Execute(ctx context.Context, query GetEmployeeQuery) (*model.Employee, error) {
	return h.employeesService.GetEmployee(ctx, query.ID)
}
