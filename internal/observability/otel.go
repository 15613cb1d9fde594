package observability

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"

	"pizza-shop/internal/config"
)

const serviceVersion = "0.1.0"

// Setup installs the global tracer provider and, with an OTLP endpoint,
// the global logger provider. The returned logger ships to OTLP too when
// one is configured. The shutdown func flushes every installed provider.
func Setup(ctx context.Context, cfg config.Config, logger *zap.Logger) (*zap.Logger, func(context.Context) error, error) {
	var shutdownFuncs []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	res := newResource(cfg.Env)

	var exporter sdktrace.SpanExporter
	var err error
	switch {
	case cfg.OtelEndpoint != "":
		exporter, err = otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(cfg.OtelEndpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return logger, shutdown, fmt.Errorf("otlp trace exporter: %w", err)
		}
	case cfg.TraceStdout:
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(os.Stdout))
		if err != nil {
			return logger, shutdown, fmt.Errorf("stdout trace exporter: %w", err)
		}
	}
	if exporter != nil {
		tp := NewTracerProvider(exporter, res)
		otel.SetTracerProvider(tp)
		shutdownFuncs = append(shutdownFuncs, tp.Shutdown)
	}

	if cfg.OtelEndpoint == "" {
		return logger, shutdown, nil
	}
	logExporter, err := otlploghttp.New(ctx,
		otlploghttp.WithEndpoint(cfg.OtelEndpoint),
		otlploghttp.WithInsecure(),
	)
	if err != nil {
		return logger, shutdown, fmt.Errorf("otlp log exporter: %w", err)
	}
	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)
	global.SetLoggerProvider(lp)
	shutdownFuncs = append(shutdownFuncs, lp.Shutdown)
	return WithOTel(logger, lp), shutdown, nil
}

func NewTracerProvider(exporter sdktrace.SpanExporter, res *resource.Resource) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
}

func newResource(env string) *resource.Resource {
	own := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(serviceVersion),
		attribute.String("deployment.environment", env),
	)
	res, err := resource.Merge(resource.Default(), own)
	if err != nil {
		// schema URL conflict with the SDK defaults
		return own
	}
	return res
}
