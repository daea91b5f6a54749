// Package logger provides the structured zap logger used by every
// vectorbridge command.
//
// Entries are JSON on stderr with ISO8601 timestamps, the process id and the
// service name. The level comes from ZAP_LOGGER_LEVEL (debug, info, warning,
// error). Stdout is never written, it carries the command's JSON result.
//
// Basic Usage:
//
//	log, err := logger.NewLoggerClient(logger.Config{Level: logger.Info})
//	if err != nil {
//		return err
//	}
//	log.Info("backup written", nil, map[string]interface{}{
//		"collection": "kb_chunks_v1",
//		"records":    5230,
//	})
//
// Context-aware logging adds trace_id and span_id of the active
// OpenTelemetry span when Config.EnableTracing is set:
//
//	log.ErrorWithContext(ctx, "search failed", err, nil)
//
// FX Integration:
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Supply(logger.DefaultConfig()),
//	)
//
// The module syncs the logger when the application stops.
package logger
