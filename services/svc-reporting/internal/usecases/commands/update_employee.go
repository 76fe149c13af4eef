package commands

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
	UpdateEmployeeCommand struct {
		ID       int64
		Employee *model.Employee
	}

	UpdateEmployeeCommandHandler = decorator.CommandHandler[UpdateEmployeeCommand, *model.Employee]

	updateEmployeeCommandHandler struct {
		employeesService ports.EmployeesService
	}
)

func NewUpdateEmployeeCommandHandler(
	svc ports.EmployeesService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
	invalidators ...decorator.Invalidator,
) UpdateEmployeeCommandHandler {
	return decorator.ApplyCommandDecorators[UpdateEmployeeCommand, *model.Employee](
		decorator.NewCommandInvalidatingDecorator[UpdateEmployeeCommand, *model.Employee](
			updateEmployeeCommandHandler{employeesService: svc},
			invalidators...,
		),
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h updateEmployeeCommandHandler) Handle(ctx context.Context, cmd UpdateEmployeeCommand) (*model.Employee, error) {
	return h.employeesService.UpdateEmployee(ctx, cmd.ID, cmd.Employee)
}
