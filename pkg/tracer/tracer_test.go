package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

type nopLogger struct{}

func (nopLogger) Info(string, error, ...map[string]interface{})  {}
func (nopLogger) Debug(string, error, ...map[string]interface{}) {}
func (nopLogger) Warn(string, error, ...map[string]interface{})  {}
func (nopLogger) Error(string, error, ...map[string]interface{}) {}

func newRecordingTracer() (*Tracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return NewWithProvider(tp, nopLogger{}), recorder
}

func TestStartSpanRecordsAttributesAndErrors(t *testing.T) {
	tr, recorder := newRecordingTracer()

	_, span := tr.StartSpan(context.Background(), "search")
	tr.SetAttributes(span, map[string]interface{}{
		"collection": "kb_chunks_v1",
		"limit":      10,
		"tenant_id":  int64(7),
		"loaded":     true,
	})
	tr.RecordErrorOnSpan(span, errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "search", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String("collection", "kb_chunks_v1"))
	assert.Contains(t, ended[0].Attributes(), attribute.Int64("tenant_id", 7))
	assert.Contains(t, ended[0].Attributes(), attribute.Bool("loaded", true))
}

func TestContextFromTraceParent(t *testing.T) {
	tr, recorder := newRecordingTracer()

	const parent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	ctx := tr.ContextFromTraceParent(context.Background(), parent)

	sc := trace.SpanContextFromContext(ctx)
	require.True(t, sc.IsValid())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", sc.TraceID().String())

	_, span := tr.StartSpan(ctx, "health")
	span.End()
	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, sc.TraceID(), recorder.Ended()[0].SpanContext().TraceID())
}

func TestContextFromEmptyTraceParent(t *testing.T) {
	tr, _ := newRecordingTracer()
	ctx := context.Background()
	assert.Equal(t, ctx, tr.ContextFromTraceParent(ctx, ""))
}

func TestNewClientWithoutExport(t *testing.T) {
	tr, err := NewClient(DefaultConfig(), nopLogger{})
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.NoError(t, tr.tracer.Shutdown(context.Background()))
}
