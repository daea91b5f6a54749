package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Status label values for operation metrics.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics holds the registry and the operation metrics of one command run.
type Metrics struct {
	Registry *prometheus.Registry

	// Operations counts operations by name and outcome.
	Operations *prometheus.CounterVec

	// Duration observes operation latency in seconds.
	Duration *prometheus.HistogramVec

	pushgatewayURL string
	job            string
}

// NewMetrics builds the registry and registers the operation metrics.
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	var registerer prometheus.Registerer = registry
	if cfg.ServiceName != "" {
		registerer = prometheus.WrapRegistererWith(prometheus.Labels{"service": cfg.ServiceName}, registry)
	}
	if cfg.Namespace != "" {
		registerer = prometheus.WrapRegistererWithPrefix(cfg.Namespace+"_", registerer)
	}

	if cfg.EnableDefaultCollectors {
		registerer.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	operations := createCounterVec(
		"vectorbridge_operations_total",
		"Number of vectorbridge operations by outcome.",
		[]string{"operation", "status"},
	)
	duration := createHistogramVec(
		"vectorbridge_operation_duration_seconds",
		"Duration of vectorbridge operations in seconds.",
		[]string{"operation"},
		prometheus.ExponentialBuckets(0.005, 2, 14),
	)
	registerer.MustRegister(operations, duration)

	job := cfg.Job
	if job == "" {
		job = DefaultJob
	}

	return &Metrics{
		Registry:       registry,
		Operations:     operations,
		Duration:       duration,
		pushgatewayURL: cfg.PushgatewayURL,
		job:            job,
	}
}

// Observe records the outcome and latency of one operation.
func (m *Metrics) Observe(operation string, success bool, elapsed time.Duration) {
	status := StatusSuccess
	if !success {
		status = StatusFailure
	}
	m.Operations.WithLabelValues(operation, status).Inc()
	m.Duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// PushEnabled reports whether a Pushgateway is configured.
func (m *Metrics) PushEnabled() bool {
	return m.pushgatewayURL != ""
}

// Push sends the registry to the Pushgateway, replacing the job's previous
// group. It is a no-op without a configured Pushgateway.
func (m *Metrics) Push(ctx context.Context) error {
	if !m.PushEnabled() {
		return nil
	}
	pusher := push.New(m.pushgatewayURL, m.job).Gatherer(m.Registry)
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", m.pushgatewayURL, err)
	}
	return nil
}
