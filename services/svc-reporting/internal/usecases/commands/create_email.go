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
	CreateEmailCommand struct {
		ID         int64
		Address    string
		EmployeeID *int64
	}

	CreateEmailCommandHandler = decorator.CommandHandler[CreateEmailCommand, *model.Email]

	createEmailCommandHandler struct {
		emailsService ports.EmailsService
	}
)

func NewCreateEmailCommandHandler(
	svc ports.EmailsService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
	invalidators ...decorator.Invalidator,
) CreateEmailCommandHandler {
	return decorator.ApplyCommandDecorators[CreateEmailCommand, *model.Email](
		decorator.NewCommandInvalidatingDecorator[CreateEmailCommand, *model.Email](
			createEmailCommandHandler{emailsService: svc},
			invalidators...,
		),
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h createEmailCommandHandler) Handle(ctx context.Context, cmd CreateEmailCommand) (*model.Email, error) {
	return h.emailsService.CreateEmail(ctx, &model.Email{
		ID:         cmd.ID,
		Address:    cmd.Address,
		EmployeeID: cmd.EmployeeID,
	})
}
