package http

import (
	"fmt"
	"net/http"

	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/pkg/metrics"
	"github.com/architeacher/reporting/services/svc-reporting/internal/adapters/inbound/http/handlers"
	"github.com/architeacher/reporting/services/svc-reporting/internal/adapters/inbound/http/middleware"
	"github.com/architeacher/reporting/services/svc-reporting/internal/config"
	"github.com/architeacher/reporting/services/svc-reporting/internal/ports"
	"github.com/architeacher/reporting/services/svc-reporting/internal/usecases"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/throttled/throttled/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type RouterConfig struct {
	App            *usecases.Application
	Exporters      ports.ReportExporters
	Config         *config.ServiceConfig
	Logger         logger.Logger
	MetricsClient  metrics.Client
	TracerProvider otelTrace.TracerProvider

	RateLimitStore throttled.GCRAStoreCtx
	// IdempotencyCache may be nil, which disables idempotency handling.
	IdempotencyCache ports.IdempotencyCache
}

func NewRouter(cfg RouterConfig) (http.Handler, error) {
	settings := cfg.Config
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, middleware.CodeRouteNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			fmt.Sprintf("method %s is not allowed on %s", r.Method, r.URL.Path))
	})

	router.Use(middleware.RequestTracking())
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Recovery(cfg.Logger))
	router.Use(chimiddleware.Timeout(settings.HTTPServer.RequestTimeout))
	router.Use(middleware.SecurityHeaders(settings.App.APIVersion))
	router.Use(middleware.CORS(settings.HTTPServer.AllowedOrigins))

	if settings.Telemetry.Metrics.Enabled {
		router.Use(middleware.Metrics(cfg.MetricsClient))
	}

	if settings.Logging.AccessLog.Enabled {
		router.Use(middleware.AccessLogger(cfg.Logger, settings.Logging.AccessLog))
	}

	rateLimit, err := middleware.RateLimit(settings.ThrottledRateLimiting, cfg.RateLimitStore, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("building rate limiter: %w", err)
	}

	router.Use(rateLimit)
	router.Use(middleware.Compression(settings.Compression))

	handler := handlers.NewHandler(cfg.App, cfg.Exporters, settings.Report, cfg.MetricsClient, cfg.Logger)

	var validator func(http.Handler) http.Handler

	if settings.HTTPServer.ValidateRequest {
		swagger, err := handlers.GetSwagger()
		if err != nil {
			return nil, fmt.Errorf("loading OpenAPI document: %w", err)
		}

		validator, err = middleware.RequestValidator(swagger)
		if err != nil {
			return nil, err
		}
	}

	router.Route(handlers.BaseURL, func(r chi.Router) {
		if validator != nil {
			r.Use(validator)
		}

		r.Use(middleware.Idempotency(cfg.IdempotencyCache, settings.Idempotency, cfg.Logger))

		handler.APIRoutes(r)
	})

	handler.OperationalRoutes(router)

	if !settings.Telemetry.Traces.Enabled || cfg.TracerProvider == nil {
		return router, nil
	}

	cfg.Logger.Info().Msg("HTTP tracing enabled")

	return otelhttp.NewHandler(router, settings.App.ServiceName,
		otelhttp.WithTracerProvider(cfg.TracerProvider),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/metrics"
		}),
	), nil
}
