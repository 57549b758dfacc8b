// Package tracing provides the OpenTelemetry tracer used by the use cases.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"

	"github.com/polkiloo/safepick/internal/config"
)

const (
	serviceName     = "safepick"
	instrumentation = "github.com/polkiloo/safepick"
)

// Module provides a trace.TracerProvider selected by config and a Tracer from it.
var Module = fx.Options(
	fx.Provide(
		NewProvider,
		func(tp trace.TracerProvider) trace.Tracer { return tp.Tracer(instrumentation) },
	),
)

// NewProvider builds the provider for cfg.TraceExporter. The exporter is flushed on stop.
func NewProvider(lc fx.Lifecycle, cfg *config.Config) (trace.TracerProvider, error) {
	exporter, err := newExporter(context.Background(), cfg, os.Stdout)
	if err != nil {
		return nil, err
	}
	if exporter == nil {
		return noop.NewTracerProvider(), nil
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	)
	lc.Append(fx.Hook{
		OnStop: tp.Shutdown,
	})
	return tp, nil
}

func newExporter(ctx context.Context, cfg *config.Config, out io.Writer) (sdktrace.SpanExporter, error) {
	switch cfg.TraceExporter {
	case "", config.TraceExporterNone:
		return nil, nil
	case config.TraceExporterStdout:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(out))
		if err != nil {
			return nil, fmt.Errorf("stdout trace exporter: %w", err)
		}
		return exp, nil
	case config.TraceExporterOTLP:
		var opts []otlptracehttp.Option
		if cfg.TraceEndpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpointURL(cfg.TraceEndpoint))
		}
		exp, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("otlp trace exporter: %w", err)
		}
		return exp, nil
	}
	return nil, fmt.Errorf("unknown trace exporter %q", cfg.TraceExporter)
}
