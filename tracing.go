package formz

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/zoobzio/formz")

// startValidateSpan creates a span around one validator invocation.
func startValidateSpan(ctx context.Context, host, source string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "formz.Validate",
		trace.WithAttributes(
			attribute.String("formz.host", host),
			attribute.String("formz.source", source),
		),
	)
}

// endValidateSpan records the outcome and ends the span.
func endValidateSpan(span trace.Span, errs []string, err error) {
	span.SetAttributes(attribute.Int("formz.errors", len(errs)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
