package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"

	// Off discards every entry.
	Off = "off"
)

// Config configures the zap logger.
type Config struct {
	// Level is one of debug, info, warning, error or off. Anything else means info.
	Level string `yaml:"level" envconfig:"ZAP_LOGGER_LEVEL"`

	// ServiceName is attached to every entry as "service".
	ServiceName string `yaml:"service_name" envconfig:"ZAP_LOGGER_SERVICE_NAME"`

	// EnableTracing adds trace_id and span_id to entries logged with a context.
	EnableTracing bool `yaml:"enable_tracing" envconfig:"ZAP_LOGGER_ENABLE_TRACING"`
}

// DefaultConfig logs at info level as the "vectorbridge" service.
func DefaultConfig() Config {
	return Config{
		Level:         Info,
		ServiceName:   "vectorbridge",
		EnableTracing: true,
	}
}
