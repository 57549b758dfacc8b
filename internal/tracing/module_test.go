package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/safepick/internal/config"
)

func TestNewProviderDefaultsToNoop(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	tp, err := NewProvider(lc, &config.Config{TraceExporter: config.TraceExporterNone})
	require.NoError(t, err)
	assert.IsType(t, noop.TracerProvider{}, tp)
}

func TestNewProviderStdout(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	tp, err := NewProvider(lc, &config.Config{TraceExporter: config.TraceExporterStdout})
	require.NoError(t, err)
	assert.IsType(t, &sdktrace.TracerProvider{}, tp)

	lc.RequireStart()
	lc.RequireStop()
}

func TestNewProviderRejectsUnknownExporter(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	_, err := NewProvider(lc, &config.Config{TraceExporter: "zipkin"})
	require.ErrorContains(t, err, "unknown trace exporter")
}

func TestStdoutExporterWritesSpans(t *testing.T) {
	var out bytes.Buffer
	exp, err := newExporter(context.Background(), &config.Config{TraceExporter: config.TraceExporterStdout}, &out)
	require.NoError(t, err)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	_, span := tp.Tracer("test").Start(context.Background(), "Withdrawal.CompleteByScan")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	assert.Contains(t, out.String(), "Withdrawal.CompleteByScan")
}

func TestOTLPExporterAcceptsEndpoint(t *testing.T) {
	exp, err := newExporter(context.Background(), &config.Config{
		TraceExporter: config.TraceExporterOTLP,
		TraceEndpoint: "http://127.0.0.1:4318",
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, exp)
	require.NoError(t, exp.Shutdown(context.Background()))
}
