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
	CreateEmployeeCommand struct {
		ID        int64
		FirstName string
		LastName  string
		Salary    *float64
		Active    bool
	}

	CreateEmployeeCommandHandler = decorator.CommandHandler[CreateEmployeeCommand, *model.Employee]

	createEmployeeCommandHandler struct {
		employeesService ports.EmployeesService
	}
)

func NewCreateEmployeeCommandHandler(
	svc ports.EmployeesService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
	invalidators ...decorator.Invalidator,
) CreateEmployeeCommandHandler {
	return decorator.ApplyCommandDecorators[CreateEmployeeCommand, *model.Employee](
		decorator.NewCommandInvalidatingDecorator[CreateEmployeeCommand, *model.Employee](
			createEmployeeCommandHandler{employeesService: svc},
			invalidators...,
		),
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h createEmployeeCommandHandler) Handle(ctx context.Context, cmd CreateEmployeeCommand) (*model.Employee, error) {
	return h.employeesService.CreateEmployee(ctx, &model.Employee{
		ID:        cmd.ID,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Salary:    cmd.Salary,
		Active:    cmd.Active,
	})
}
