package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// Load builds the configuration from defaults, the optional YAML file and
// the environment, then validates it.
func Load() (Config, error) {
	return LoadFrom(DefaultConfig())
}

// LoadFrom is Load with caller-supplied defaults.
func LoadFrom(cfg Config) (Config, error) {
	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.overlayEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// overlayEnv processes every section separately: envconfig prefixes the keys
// of nested structs with the parent field name, while the tags here are the
// full variable names.
func (c *Config) overlayEnv() error {
	sections := []interface{}{
		c,
		&c.Collection,
		&c.Migration,
		&c.Snapshot,
		&c.Logger,
		&c.Minio.Connection,
		&c.Minio.UploadConfig,
		&c.Minio.DownloadConfig,
		&c.Lock,
		&c.Metrics,
		&c.Tracer,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return fmt.Errorf("reading environment: %w", err)
		}
	}
	return nil
}

// Section fills out, which already holds its defaults, from the top-level
// key of the YAML file and then from the environment. Drivers use it for
// their own configuration.
func Section(key string, out interface{}) error {
	if path := os.Getenv(FileEnv); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
		var sections map[string]yaml.Node
		if err := yaml.Unmarshal(data, &sections); err != nil {
			return fmt.Errorf("parsing config file %s: %w", path, err)
		}
		if node, ok := sections[key]; ok {
			if err := node.Decode(out); err != nil {
				return fmt.Errorf("parsing %s section of %s: %w", key, path, err)
			}
		}
	}
	if err := envconfig.Process("", out); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	return nil
}

// Validate checks values that would otherwise fail deep inside an operation.
func (c Config) Validate() error {
	var errs []error

	switch c.Driver {
	case DriverMilvus, DriverQdrant:
	default:
		errs = append(errs, fmt.Errorf("unknown driver %q (want %s or %s)", c.Driver, DriverMilvus, DriverQdrant))
	}

	if _, err := vectordb.ParseMetric(c.Collection.Metric); err != nil {
		errs = append(errs, err)
	}
	if c.Collection.Name == "" {
		errs = append(errs, errors.New("default collection name cannot be empty"))
	}
	if c.Collection.Dimension <= 0 {
		errs = append(errs, fmt.Errorf("embedding dimension must be positive, got %d", c.Collection.Dimension))
	}
	if c.Migration.Dimension <= 0 {
		errs = append(errs, fmt.Errorf("migration dimension must be positive, got %d", c.Migration.Dimension))
	}
	if c.Migration.PageSize <= 0 || c.Migration.PageSize > 16384 {
		errs = append(errs, fmt.Errorf("migration page size must be in [1, 16384], got %d", c.Migration.PageSize))
	}
	if c.Migration.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("migration batch size must be positive, got %d", c.Migration.BatchSize))
	}

	switch c.Snapshot.Backend {
	case SnapshotFile, SnapshotMinio:
	default:
		errs = append(errs, fmt.Errorf("unknown snapshot backend %q (want %s or %s)", c.Snapshot.Backend, SnapshotFile, SnapshotMinio))
	}

	return errors.Join(errs...)
}

// Metric returns the parsed collection metric. Validate guarantees it parses.
func (c Config) Metric() vectordb.Metric {
	m, err := vectordb.ParseMetric(c.Collection.Metric)
	if err != nil {
		return vectordb.MetricCosine
	}
	return m
}
