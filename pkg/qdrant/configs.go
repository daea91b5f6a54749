package qdrant

import (
	"time"
)

// Config holds connection and behavior settings for the Qdrant client.
//
// Example (builder style):
//
//	cfg := qdrant.FromEndpoint("qdrant.internal").
//	    WithApiKey(os.Getenv("QDRANT_API_KEY")).
//	    WithTimeout(10 * time.Second)
type Config struct {
	// Hostname of the Qdrant server, e.g. "localhost".
	Endpoint string `yaml:"endpoint" envconfig:"QDRANT_ENDPOINT"`

	// gRPC port of the Qdrant server. Defaults to 6334.
	Port int `yaml:"port" envconfig:"QDRANT_PORT"`

	// Optional authentication token for secured deployments.
	ApiKey string `yaml:"api_key" envconfig:"QDRANT_API_KEY"`

	// UseTLS enables transport security.
	UseTLS bool `yaml:"tls" envconfig:"QDRANT_TLS"`

	// Maximum duration of the startup health check.
	Timeout time.Duration `yaml:"timeout" envconfig:"QDRANT_TIMEOUT"`

	// Whether to perform version compatibility checks between client and server.
	CheckCompatibility bool `yaml:"check_compatibility" envconfig:"QDRANT_CHECK_COMPATIBILITY"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Endpoint: "localhost",
		Port:     6334,
		Timeout:  5 * time.Second,
	}
}

// FromEndpoint returns a default config pre-filled with a specific endpoint.
func FromEndpoint(host string) Config {
	cfg := DefaultConfig()
	cfg.Endpoint = host
	return cfg
}

func (c Config) WithPort(port int) Config {
	c.Port = port
	return c
}

func (c Config) WithApiKey(key string) Config {
	c.ApiKey = key
	return c
}

func (c Config) WithTimeout(d time.Duration) Config {
	c.Timeout = d
	return c
}

func (c Config) WithTLS(enabled bool) Config {
	c.UseTLS = enabled
	return c
}

func (c Config) WithCompatibilityCheck(enabled bool) Config {
	c.CheckCompatibility = enabled
	return c
}
