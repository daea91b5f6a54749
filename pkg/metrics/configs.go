package metrics

// DefaultJob is the Pushgateway job name used when none is configured.
const DefaultJob = "vectorbridge"

// Config defines the configuration for the Prometheus metrics of a command.
//
// Commands are short-lived, so metrics are not scraped from an HTTP endpoint.
// They are collected in a private registry and pushed to a Pushgateway once,
// when the process stops.
type Config struct {
	// PushgatewayURL is the base URL of the Prometheus Pushgateway.
	// When empty, metrics are collected but never pushed.
	//
	// This setting can be configured via:
	//   - YAML configuration with the "pushgateway_url" key
	//   - Environment variable METRICS_PUSHGATEWAY_URL
	PushgatewayURL string `yaml:"pushgateway_url" envconfig:"METRICS_PUSHGATEWAY_URL"`

	// Job is the Pushgateway grouping key job label.
	//
	// This setting can be configured via:
	//   - YAML configuration with the "job" key
	//   - Environment variable METRICS_JOB
	//
	// Default: "vectorbridge"
	Job string `yaml:"job" envconfig:"METRICS_JOB"`

	// EnableDefaultCollectors controls whether the built-in Go runtime
	// and process metrics are registered as well.
	//
	// This setting can be configured via:
	//   - YAML configuration with the "enable_default_collectors" key
	//   - Environment variable METRICS_ENABLE_DEFAULT_COLLECTORS
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// Namespace sets a global prefix for all metrics registered by this service.
	//
	// Example:
	//   Namespace: "pharia"
	//   → Metric name becomes "pharia_vectorbridge_operations_total"
	//
	// This setting can be configured via:
	//   - YAML configuration with the "namespace" key
	//   - Environment variable METRICS_NAMESPACE
	Namespace string `yaml:"namespace" envconfig:"METRICS_NAMESPACE"`

	// ServiceName identifies the command exposing metrics.
	// It is attached as the "service" label to every metric.
	//
	// This setting can be configured via:
	//   - YAML configuration with the "service_name" key
	//   - Environment variable METRICS_SERVICE_NAME
	ServiceName string `yaml:"service_name" envconfig:"METRICS_SERVICE_NAME"`
}

// DefaultConfig returns a configuration that collects but does not push.
func DefaultConfig() Config {
	return Config{
		Job:         DefaultJob,
		ServiceName: "vectorbridge",
	}
}
