package service

import (
	"context"
	"time"

	"menuhub/internal/metrics"
	"menuhub/internal/model"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "menuhub/internal/service"

// startOp opens a span for op and returns a func that records the outcome
// on both the span and the operation metrics.
func startOp(ctx context.Context, m *metrics.Metrics, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, op, trace.WithAttributes(attrs...))
	start := time.Now()

	return ctx, func(err error) {
		code := ""
		if err != nil {
			code = model.CodeOf(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, code)
		}
		m.ObserveOperation(op, code, time.Since(start))
		span.End()
	}
}
