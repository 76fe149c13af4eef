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
	DeleteEmailCommand struct {
		ID int64
	}

	DeleteEmailCommandHandler = decorator.CommandHandler[DeleteEmailCommand, struct{}]

	deleteEmailCommandHandler struct {
		emailsService ports.EmailsService
	}
)

func NewDeleteEmailCommandHandler(
	svc ports.EmailsService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
	invalidators ...decorator.Invalidator,
) DeleteEmailCommandHandler {
	return decorator.ApplyCommandDecorators[DeleteEmailCommand, struct{}](
		decorator.NewCommandInvalidatingDecorator[DeleteEmailCommand, struct{}](
			deleteEmailCommandHandler{emailsService: svc},
			invalidators...,
		),
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h deleteEmailCommandHandler) Handle(ctx context.Context, cmd DeleteEmailCommand) (struct{}, error) {
	if err := h.emailsService.DeleteEmail(ctx, cmd.ID); err != nil {
		return struct{}{}, err
	}

	return struct{}{}, nil
}
