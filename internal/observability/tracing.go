package observability

import (
	"context"
	"errors"
	"fmt"

	"brainvault/internal/config"
	"brainvault/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName    = "brainvault-api"
	serviceVersion = "1.0.0"

	// ErrorCodeKey carries the AppError code of a failed service operation.
	ErrorCodeKey = attribute.Key("error.code")
)

// Tracer starts every span of the API. It is a no-op until InitTracing runs
// with tracing enabled.
var Tracer trace.Tracer = otel.Tracer(serviceName)

// InitTracing installs the tracer provider described by cfg and returns its
// shutdown func. With TRACING_ENABLED off the global no-op provider stays.
func InitTracing(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.TracingEnabled {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
			semconv.DeploymentEnvironment(cfg.Env),
		)),
		sdktrace.WithSampler(samplerFor(cfg.TracingSampleRatio)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	Tracer = tp.Tracer(serviceName)

	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, cfg *config.Config) (sdktrace.SpanExporter, error) {
	switch cfg.TracingExporter {
	case "", "stdout":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "otlp":
		exp, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("otlp exporter for %s: %w", cfg.OTLPEndpoint, err)
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("unknown TRACING_EXPORTER %q", cfg.TracingExporter)
	}
}

// samplerFor keeps an upstream sampling decision and samples ratio of new
// traces.
func samplerFor(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// StartSpan starts an internal span named after a service operation.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan ends a span opened by StartSpan with the operation's result.
// Client-side failures such as NOT_FOUND only tag the span with their code;
// internal and untyped errors also set the span status to Error.
func EndSpan(span trace.Span, err error) {
	defer span.End()
	if err == nil {
		return
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		span.SetAttributes(ErrorCodeKey.String(appErr.Code))
		if appErr.Code != models.CodeInternal {
			return
		}
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
