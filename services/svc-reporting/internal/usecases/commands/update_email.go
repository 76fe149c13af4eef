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
	UpdateEmailCommand struct {
		// ID is the path identifier; Email.ID must match it.
		ID    int64
		Email *model.Email
	}

	UpdateEmailCommandHandler = decorator.CommandHandler[UpdateEmailCommand, *model.Email]

	updateEmailCommandHandler struct {
		emailsService ports.EmailsService
	}
)

func NewUpdateEmailCommandHandler(
	svc ports.EmailsService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
	invalidators ...decorator.Invalidator,
) UpdateEmailCommandHandler {
	return decorator.ApplyCommandDecorators[UpdateEmailCommand, *model.Email](
		decorator.NewCommandInvalidatingDecorator[UpdateEmailCommand, *model.Email](
			updateEmailCommandHandler{emailsService: svc},
			invalidators...,
		),
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h updateEmailCommandHandler) Handle(ctx context.Context, cmd UpdateEmailCommand) (*model.Email, error) {
	return h.emailsService.UpdateEmail(ctx, cmd.ID, cmd.Email)
}
