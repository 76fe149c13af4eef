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
	GetEmailQuery struct {
		ID int64
	}

	GetEmailQueryHandler = decorator.QueryHandler[GetEmailQuery, *model.Email]

	getEmailQueryHandler struct {
		emailsService ports.EmailsService
	}
)

func NewGetEmailQueryHandler(
	svc ports.EmailsService,
	cache decorator.Cache[GetEmailQuery, *model.Email],
	cacheConfig decorator.CacheConfig,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) GetEmailQueryHandler {
	return decorator.ApplyQueryDecorators[GetEmailQuery, *model.Email](
		decorator.NewQueryCachingDecorator[GetEmailQuery, *model.Email](
			getEmailQueryHandler{emailsService: svc},
			cache,
			cacheConfig,
		),
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h getEmailQueryHandler) Execute(ctx context.Context, query GetEmailQuery) (*model.Email, error) {
	return h.emailsService.GetEmail(ctx, query.ID)
}
