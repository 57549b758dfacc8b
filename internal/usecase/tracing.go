package usecase

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	domainErrors "github.com/polkiloo/safepick/internal/domain/errors"
)

func tracerOrNoop(t trace.Tracer) trace.Tracer {
	if t == nil {
		return noop.NewTracerProvider().Tracer("")
	}
	return t
}

func startSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan tags span with the outcome of err. Only unexpected errors mark the span failed.
func endSpan(span trace.Span, err error) {
	result := outcome(err)
	span.SetAttributes(attribute.String("outcome", result))
	if result == "error" {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domainErrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, domainErrors.ErrUnauthorized), errors.Is(err, domainErrors.ErrForbidden):
		return "unauthorized"
	case errors.Is(err, domainErrors.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domainErrors.ErrTamperedToken):
		return "tampered"
	case errors.Is(err, domainErrors.ErrExpired):
		return "expired"
	case errors.Is(err, domainErrors.ErrDeactivated):
		return "deactivated"
	case errors.Is(err, domainErrors.ErrInvalidCode):
		return "invalid_code"
	case errors.Is(err, domainErrors.ErrValidation):
		return "validation"
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		return "conflict"
	}
	return "error"
}
