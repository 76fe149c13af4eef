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
	// FindEmailsQuery carries the raw filter; its JSON form is the cache key.
	FindEmailsQuery struct {
		Filter *model.EmailCriteria
		Page   model.PageRequest
	}

	FindEmailsQueryHandler = decorator.QueryHandler[FindEmailsQuery, *model.Page[*model.Email]]

	findEmailsQueryHandler struct {
		emailsService ports.EmailsService
	}
)

func NewFindEmailsQueryHandler(
	svc ports.EmailsService,
	cache decorator.Cache[FindEmailsQuery, *model.Page[*model.Email]],
	cacheConfig decorator.CacheConfig,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) FindEmailsQueryHandler {
	return decorator.ApplyQueryDecorators[FindEmailsQuery, *model.Page[*model.Email]](
		decorator.NewQueryCachingDecorator[FindEmailsQuery, *model.Page[*model.Email]](
			findEmailsQueryHandler{emailsService: svc},
			cache,
			cacheConfig,
		),
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h findEmailsQueryHandler) Execute(ctx context.Context, query FindEmailsQuery) (*model.Page[*model.Email], error) {
	return h.emailsService.FindEmails(ctx, model.EmailQuery(query.Filter, query.Page))
}
