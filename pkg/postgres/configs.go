package postgres

import "time"

// Config configures the Postgres connection used for advisory locks.
type Config struct {
	// DSN is a libpq-style connection string or URL, e.g.
	// "postgres://user:pass@db:5432/vectorbridge?sslmode=disable".
	DSN string `yaml:"dsn" envconfig:"MIGRATION_LOCK_DSN"`

	// ConnectTimeout bounds the initial connection and ping.
	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"MIGRATION_LOCK_CONNECT_TIMEOUT"`

	// MaxConns caps the pool. Each held lock pins one connection.
	MaxConns int32 `yaml:"max_conns" envconfig:"MIGRATION_LOCK_MAX_CONNS"`
}

// DefaultConfig returns a configuration without a DSN, i.e. locking disabled.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 5 * time.Second,
		MaxConns:       2,
	}
}

// Enabled reports whether a DSN is configured.
func (c Config) Enabled() bool {
	return c.DSN != ""
}
