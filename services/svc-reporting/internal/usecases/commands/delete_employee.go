package commands

import (
	"context"

	"github.com/architeacher/reporting/pkg/decorator"
	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/pkg/metrics"
	"github.com/architeacher/reporting/services/svc-reporting/internal/ports"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	DeleteEmployeeCommand struct {
		ID int64
	}

	DeleteEmployeeCommandHandler = decorator.CommandHandler[DeleteEmployeeCommand, struct{}]

	deleteEmployeeCommandHandler struct {
		employeesService ports.EmployeesService
	}
)

func NewDeleteEmployeeCommandHandler(
	svc ports.EmployeesService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
	invalidators ...decorator.Invalidator,
) DeleteEmployeeCommandHandler {
	return decorator.ApplyCommandDecorators[DeleteEmployeeCommand, struct{}](
		decorator.NewCommandInvalidatingDecorator[DeleteEmployeeCommand, struct{}](
			deleteEmployeeCommandHandler{employeesService: svc},
			invalidators...,
		),
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h deleteEmployeeCommandHandler) Handle(ctx context.Context, cmd DeleteEmployeeCommand) (struct{}, error) {
	if err := h.employeesService.DeleteEmployee(ctx, cmd.ID); err != nil {
		return struct{}{}, err
	}

	return struct{}{}, nil
}
