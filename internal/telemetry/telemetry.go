// Package telemetry runs one command operation inside a span, records its
// outcome in the metrics registry and logs it with the invocation id.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Aleph-Alpha/vectorbridge/internal/result"
	"github.com/Aleph-Alpha/vectorbridge/pkg/logger"
	"github.com/Aleph-Alpha/vectorbridge/pkg/metrics"
	"github.com/Aleph-Alpha/vectorbridge/pkg/tracer"
)

// Telemetry bundles the observability clients of one process.
type Telemetry struct {
	Logger  *logger.Logger
	Metrics *metrics.Metrics
	Tracer  *tracer.Tracer

	// InvocationID correlates the log lines and the span of one process.
	InvocationID string
}

// New assigns a fresh invocation id.
func New(log *logger.Logger, m *metrics.Metrics, tr *tracer.Tracer) *Telemetry {
	return &Telemetry{
		Logger:       log,
		Metrics:      m,
		Tracer:       tr,
		InvocationID: uuid.NewString(),
	}
}

// Run executes fn as the named operation. attrs are attached to the span and
// to every log line.
func (t *Telemetry) Run(ctx context.Context, operation string, attrs map[string]interface{}, fn func(context.Context) result.Result) result.Result {
	start := time.Now()

	ctx, span := t.Tracer.StartSpan(ctx, operation)
	defer span.End()

	fields := t.fields(operation, attrs)
	t.Tracer.SetAttributes(span, fields)
	t.Logger.DebugWithContext(ctx, "operation started", nil, fields)

	res := fn(ctx)

	elapsed := time.Since(start)
	t.Metrics.Observe(operation, res.OK(), elapsed)
	fields["duration_ms"] = elapsed.Milliseconds()

	if res.OK() {
		t.Logger.InfoWithContext(ctx, "operation completed", nil, fields)
		return res
	}

	t.Tracer.RecordErrorOnSpan(span, res.Err())
	if result.IsValidation(res.Err()) {
		t.Logger.WarnWithContext(ctx, "operation rejected", res.Err(), fields)
		return res
	}
	fields["error_type"] = string(res.Kind())
	t.Logger.ErrorWithContext(ctx, "operation failed", res.Err(), fields)
	return res
}

func (t *Telemetry) fields(operation string, attrs map[string]interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(attrs)+2)
	for k, v := range attrs {
		fields[k] = v
	}
	fields["operation"] = operation
	fields["invocation_id"] = t.InvocationID
	return fields
}
