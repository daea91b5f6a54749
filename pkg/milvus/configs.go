package milvus

import (
	"fmt"
	"time"
)

// Config holds connection settings for the Milvus client.
//
// Either URI (e.g. "https://in01-xxx.zillizcloud.com:19530") or Host and Port
// select the server. URI wins when both are set.
//
// Example (builder style):
//
//	cfg := milvus.DefaultConfig().
//	    WithHost("milvus.internal").
//	    WithToken(os.Getenv("MILVUS_TOKEN"))
type Config struct {
	// URI of the Milvus server. Takes precedence over Host and Port.
	URI string `yaml:"uri" envconfig:"MILVUS_URI"`

	// Token is an API key or "user:password" pair.
	Token string `yaml:"token" envconfig:"MILVUS_TOKEN"`

	// Host of the Milvus server when URI is empty.
	Host string `yaml:"host" envconfig:"MILVUS_HOST"`

	// Port of the Milvus server when URI is empty.
	Port int `yaml:"port" envconfig:"MILVUS_PORT"`

	// TLS enables transport security.
	TLS bool `yaml:"tls" envconfig:"MILVUS_TLS"`

	// DBName selects a database other than "default".
	DBName string `yaml:"db_name" envconfig:"MILVUS_DB_NAME"`

	// ConnectTimeout bounds the initial dial.
	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"MILVUS_CONNECT_TIMEOUT"`
}

// DefaultConfig returns the settings of a local standalone deployment.
func DefaultConfig() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           19530,
		ConnectTimeout: 10 * time.Second,
	}
}

// Address returns the dial target.
func (c Config) Address() string {
	if c.URI != "" {
		return c.URI
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) WithURI(uri string) Config {
	c.URI = uri
	return c
}

func (c Config) WithHost(host string) Config {
	c.Host = host
	return c
}

func (c Config) WithPort(port int) Config {
	c.Port = port
	return c
}

func (c Config) WithToken(token string) Config {
	c.Token = token
	return c
}

func (c Config) WithTLS(enabled bool) Config {
	c.TLS = enabled
	return c
}
