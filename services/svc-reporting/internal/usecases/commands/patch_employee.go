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
	PatchEmployeeCommand struct {
		ID    int64
		Patch model.EmployeePatch
	}

	PatchEmployeeCommandHandler = decorator.CommandHandler[PatchEmployeeCommand, *model.Employee]

	patchEmployeeCommandHandler struct {
		employeesService ports.EmployeesService
	}
)

func NewPatchEmployeeCommandHandler(
	svc ports.EmployeesService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
	invalidators ...decorator.Invalidator,
) PatchEmployeeCommandHandler {
	return decorator.ApplyCommandDecorators[PatchEmployeeCommand, *model.Employee](
		decorator.NewCommandInvalidatingDecorator[PatchEmployeeCommand, *model.Employee](
			patchEmployeeCommandHandler{employeesService: svc},
			invalidators...,
		),
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h patchEmployeeCommandHandler) Handle(ctx context.Context, cmd PatchEmployeeCommand) (*model.Employee, error) {
	return h.employeesService.PatchEmployee(ctx, cmd.ID, cmd.Patch)
}
