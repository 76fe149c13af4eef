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
	GenerateReportQuery struct {
		Request model.ReportRequest
	}

	GenerateReportQueryHandler = decorator.QueryHandler[GenerateReportQuery, *model.Report]

	generateReportQueryHandler struct {
		reportsService ports.ReportsService
	}
)

// NewGenerateReportQueryHandler is never cached: every report carries its own
// generation time.
func NewGenerateReportQueryHandler(
	svc ports.ReportsService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) GenerateReportQueryHandler {
	return decorator.ApplyQueryDecorators[GenerateReportQuery, *model.Report](
		generateReportQueryHandler{reportsService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h generateReportQueryHandler) Execute(ctx context.Context, query GenerateReportQuery) (*model.Report, error) {
	return h.reportsService.GenerateReport(ctx, query.Request)
}
