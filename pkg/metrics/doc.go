// Package metrics collects Prometheus metrics for vectorbridge commands.
//
// Each command run records one vectorbridge_operations_total increment and one
// vectorbridge_operation_duration_seconds observation per operation. Because the
// process exits right after printing its result, metrics are pushed to a
// Pushgateway on shutdown instead of being served for scraping.
//
// Usage:
//
//	m := metrics.NewMetrics(metrics.Config{PushgatewayURL: "http://pushgateway:9091"})
//	start := time.Now()
//	err := run()
//	m.Observe("search", err == nil, time.Since(start))
//	_ = m.Push(ctx)
package metrics
