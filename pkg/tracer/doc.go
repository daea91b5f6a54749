// Package tracer provides distributed tracing functionality using OpenTelemetry.
//
// Every vectorbridge command runs one operation inside one span. When the
// invoking backend passes its W3C trace context in the TRACEPARENT
// environment variable, the span joins the backend's trace.
//
// Basic Usage:
//
//	tr, err := tracer.NewClient(tracer.Config{
//		ServiceName:  "vectorbridge",
//		AppEnv:       "production",
//		EnableExport: true,
//	}, log)
//	if err != nil {
//		return err
//	}
//
//	ctx = tr.ContextFromTraceParent(ctx, os.Getenv(tracer.TraceParentEnv))
//	ctx, span := tr.StartSpan(ctx, "search")
//	defer span.End()
//
//	tr.SetAttributes(span, map[string]interface{}{"collection": "kb_chunks_v1"})
//	if err != nil {
//		tr.RecordErrorOnSpan(span, err)
//	}
//
// Export:
//
// With EnableExport the provider batches spans to an OTLP/HTTP collector
// configured through the standard OTEL_EXPORTER_OTLP_ENDPOINT variables.
// The FX module shuts the provider down on stop, which flushes the batch
// before the process exits.
//
// Thread Safety:
//
// All methods on the Tracer type are safe for concurrent use.
package tracer
