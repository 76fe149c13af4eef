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
	CountEmailsQuery struct {
		Filter *model.EmailCriteria
	}

	CountEmailsQueryHandler = decorator.QueryHandler[CountEmailsQuery, int64]

	countEmailsQueryHandler struct {
		emailsService ports.EmailsService
	}
)

func NewCountEmailsQueryHandler(
	svc ports.EmailsService,
	cache decorator.Cache[CountEmailsQuery, int64],
	cacheConfig decorator.CacheConfig,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) CountEmailsQueryHandler {
	return decorator.ApplyQueryDecorators[CountEmailsQuery, int64](
		decorator.NewQueryCachingDecorator[CountEmailsQuery, int64](
			countEmailsQueryHandler{emailsService: svc},
			cache,
			cacheConfig,
		),
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h countEmailsQueryHandler) Execute(ctx context.Context, query CountEmailsQuery) (int64, error) {
	return h.emailsService.CountEmails(ctx, model.EmailQuery(query.Filter, model.UnpagedRequest()))
}
