package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attempt tracks the span and metrics of one connection attempt.
type Attempt struct {
	ctx     context.Context
	span    trace.Span
	metrics *AttemptMetrics
	start   time.Time
	once    sync.Once
}

// StartAttempt opens the attempt span and bumps the in-flight gauge. A nil
// tracer uses the package default; nil metrics skips recording.
func StartAttempt(ctx context.Context, tracer trace.Tracer, metrics *AttemptMetrics, id, target string) *Attempt {
	if tracer == nil {
		tracer = Tracer("")
	}
	ctx, span := tracer.Start(ctx, SpanAttempt,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(AttrAttemptID, id),
			attribute.String(AttrTarget, target),
		),
	)
	if metrics != nil {
		metrics.RecordStart(ctx)
	}
	return &Attempt{ctx: ctx, span: span, metrics: metrics, start: time.Now()}
}

// Context carries the attempt span.
func (a *Attempt) Context() context.Context { return a.ctx }

// End closes the span and records the outcome. Only the first call counts.
func (a *Attempt) End(outcome string, err error) {
	a.once.Do(func() {
		d := time.Since(a.start)
		if err != nil {
			a.span.RecordError(err)
			a.span.SetStatus(codes.Error, outcome)
		}
		a.span.SetAttributes(
			attribute.String(AttrOutcome, outcome),
			attribute.Int64(AttrDurationMs, d.Milliseconds()),
		)
		a.span.End()
		if a.metrics != nil {
			a.metrics.RecordEnd(a.ctx, outcome, d)
		}
	})
}

// Duration returns the time since the attempt started.
func (a *Attempt) Duration() time.Duration { return time.Since(a.start) }
