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
	PatchEmailCommand struct {
		ID    int64
		Patch model.EmailPatch
	}

	PatchEmailCommandHandler = decorator.CommandHandler[PatchEmailCommand, *model.Email]

	patchEmailCommandHandler struct {
		emailsService ports.EmailsService
	}
)

func NewPatchEmailCommandHandler(
	svc ports.EmailsService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
	invalidators ...decorator.Invalidator,
) PatchEmailCommandHandler {
	return decorator.ApplyCommandDecorators[PatchEmailCommand, *model.Email](
		decorator.NewCommandInvalidatingDecorator[PatchEmailCommand, *model.Email](
			patchEmailCommandHandler{emailsService: svc},
			invalidators...,
		),
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h patchEmailCommandHandler) Handle(ctx context.Context, cmd PatchEmailCommand) (*model.Email, error) {
	return h.emailsService.PatchEmail(ctx, cmd.ID, cmd.Patch)
}
