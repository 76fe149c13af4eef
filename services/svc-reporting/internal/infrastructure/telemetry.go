package infrastructure

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/architeacher/reporting/services/svc-reporting/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type (
	ShutdownFunc func(ctx context.Context) error

	exporterFactory func(ctx context.Context, cfg config.Telemetry, out io.Writer) (sdktrace.SpanExporter, error)
)

var exporters = map[string]exporterFactory{
	"grpc": func(ctx context.Context, cfg config.Telemetry, _ io.Writer) (sdktrace.SpanExporter, error) {
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
	},
	"stdout": func(_ context.Context, _ config.Telemetry, out io.Writer) (sdktrace.SpanExporter, error) {
		return stdouttrace.New(stdouttrace.WithWriter(out))
	},
}

// NewTracerProvider builds the SDK tracer provider for the configured
// exporter and installs it, with W3C propagation, as the global one. extra
// attributes are added to the service resource.
func NewTracerProvider(
	ctx context.Context,
	app config.App,
	telemetry config.Telemetry,
	extra ...attribute.KeyValue,
) (trace.TracerProvider, ShutdownFunc, error) {
	return newTracerProvider(ctx, app, telemetry, os.Stdout, extra...)
}

func newTracerProvider(
	ctx context.Context,
	app config.App,
	telemetry config.Telemetry,
	out io.Writer,
	extra ...attribute.KeyValue,
) (*sdktrace.TracerProvider, ShutdownFunc, error) {
	factory, ok := exporters[strings.ToLower(telemetry.ExporterType)]
	if !ok {
		return nil, nil, fmt.Errorf("unsupported exporter type %q", telemetry.ExporterType)
	}

	exporter, err := factory(ctx, telemetry, out)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s exporter: %w", telemetry.ExporterType, err)
	}

	hostName, err := os.Hostname()
	if err != nil {
		return nil, nil, fmt.Errorf("reading host name: %w", err)
	}

	attrs := append([]attribute.KeyValue{
		semconv.ServiceName(app.ServiceName),
		semconv.ServiceVersion(app.ServiceVersion),
		semconv.DeploymentEnvironmentName(app.Env.Name),
		semconv.HostName(hostName),
		attribute.String("commit_sha", app.CommitSHA),
	}, extra...)

	res, err := resource.New(ctx, resource.WithAttributes(attrs...))
	if err != nil {
		return nil, nil, fmt.Errorf("creating resource: %w", err)
	}

	sampler := sdktrace.TraceIDRatioBased(telemetry.Traces.SamplerRatio)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, tp.Shutdown, nil
}

func NewNoopTracerProvider() trace.TracerProvider {
	return noop.NewTracerProvider()
}
