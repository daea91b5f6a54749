package config

import (
	"time"

	"github.com/Aleph-Alpha/vectorbridge/pkg/logger"
	"github.com/Aleph-Alpha/vectorbridge/pkg/metrics"
	"github.com/Aleph-Alpha/vectorbridge/pkg/minio"
	"github.com/Aleph-Alpha/vectorbridge/pkg/postgres"
	"github.com/Aleph-Alpha/vectorbridge/pkg/tracer"
	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// Supported database drivers. A binary links exactly one of them, chosen at
// build time with the "qdrant" build tag.
const (
	DriverMilvus = "milvus"
	DriverQdrant = "qdrant"
)

// Supported snapshot backends.
const (
	SnapshotFile  = "file"
	SnapshotMinio = "minio"
)

// FileEnv names the environment variable holding an optional YAML file that
// is applied before the environment.
const FileEnv = "VECTORBRIDGE_CONFIG"

// Config is the complete configuration of a vectorbridge command, populated
// once at process start and passed down explicitly.
//
// Precedence, lowest first: DefaultConfig, the YAML file named by
// VECTORBRIDGE_CONFIG, environment variables.
type Config struct {
	// Driver names the vector database adapter. It must match the driver the
	// binary was built with.
	Driver string `yaml:"driver" envconfig:"VECTOR_DRIVER"`

	// Timeout bounds a single dispatcher operation. Zero disables it.
	Timeout time.Duration `yaml:"timeout" envconfig:"BRIDGE_TIMEOUT"`

	Collection CollectionConfig `yaml:"collection" ignored:"true"`
	Migration  MigrationConfig  `yaml:"migration" ignored:"true"`
	Snapshot   SnapshotConfig   `yaml:"snapshot" ignored:"true"`

	// Driver sections ("milvus", "qdrant") are read with Section by the
	// driver that is linked in, so this package imports neither SDK.
	Logger  logger.Config   `yaml:"logger" ignored:"true"`
	Minio   minio.Config    `yaml:"minio" ignored:"true"`
	Lock    postgres.Config `yaml:"lock" ignored:"true"`
	Metrics metrics.Config  `yaml:"metrics" ignored:"true"`
	Tracer  tracer.Config   `yaml:"tracer" ignored:"true"`
}

// CollectionConfig describes the default collection and its index.
type CollectionConfig struct {
	// Name is used when a request does not name a collection.
	Name string `yaml:"name" envconfig:"MILVUS_COLLECTION"`

	// Dimension is the embedding size for newly provisioned collections.
	Dimension int `yaml:"dimension" envconfig:"OPENAI_EMBEDDING_DIM"`

	// Metric is the distance metric for indexing and search.
	Metric string `yaml:"metric" envconfig:"RAG_VECTOR_METRIC"`

	// M is the HNSW graph degree.
	M int `yaml:"hnsw_m" envconfig:"MILVUS_HNSW_M"`

	// EfConstruction is the HNSW construction breadth.
	EfConstruction int `yaml:"hnsw_ef_construction" envconfig:"MILVUS_HNSW_EF_CONSTRUCTION"`

	// MinSearchEf is the floor of the search breadth; the dispatcher uses
	// max(MinSearchEf, limit+10).
	MinSearchEf int `yaml:"hnsw_ef" envconfig:"MILVUS_HNSW_EF"`

	// Shards is the shard count of newly created collections.
	Shards int32 `yaml:"shards" envconfig:"MILVUS_SHARDS"`
}

// MigrationConfig tunes the backup, recreate and restore phases.
type MigrationConfig struct {
	// Dimension of the recreated collection. It is not derived from the
	// collection being replaced.
	Dimension int `yaml:"dimension" envconfig:"MIGRATION_DIMENSION"`

	// M and EfConstruction configure the recreated collection's index.
	M              int `yaml:"hnsw_m" envconfig:"MIGRATION_HNSW_M"`
	EfConstruction int `yaml:"hnsw_ef_construction" envconfig:"MIGRATION_EF_CONSTRUCTION"`

	// PageSize is the backup page size; it must stay below the database's
	// per-request result cap of 16384.
	PageSize int `yaml:"page_size" envconfig:"MIGRATION_PAGE_SIZE"`

	// BatchSize is the number of rows per restore insert.
	BatchSize int `yaml:"batch_size" envconfig:"MIGRATION_BATCH_SIZE"`

	// BatchesPerSecond throttles restore inserts. Zero means unthrottled.
	BatchesPerSecond float64 `yaml:"batches_per_second" envconfig:"MIGRATION_BATCHES_PER_SECOND"`

	// Timeout bounds a whole migration command. Zero disables it.
	Timeout time.Duration `yaml:"timeout" envconfig:"MIGRATION_TIMEOUT"`
}

// SnapshotConfig selects where backup snapshots are kept.
type SnapshotConfig struct {
	// Backend is "file" or "minio".
	Backend string `yaml:"backend" envconfig:"SNAPSHOT_BACKEND"`

	// Dir is the directory of the file backend.
	Dir string `yaml:"dir" envconfig:"SNAPSHOT_DIR"`

	// Prefix is prepended to object keys of the minio backend.
	Prefix string `yaml:"prefix" envconfig:"SNAPSHOT_PREFIX"`
}

// DefaultConfig returns the defaults every command starts from.
func DefaultConfig() Config {
	return Config{
		Driver:  DriverMilvus,
		Timeout: 60 * time.Second,
		Collection: CollectionConfig{
			Name:           "kb_chunks_v1",
			Dimension:      3072,
			Metric:         string(vectordb.MetricCosine),
			M:              16,
			EfConstruction: 200,
			MinSearchEf:    96,
			Shards:         2,
		},
		Migration: MigrationConfig{
			Dimension:      3072,
			M:              16,
			EfConstruction: 256,
			PageSize:       10000,
			BatchSize:      1000,
		},
		Snapshot: SnapshotConfig{
			Backend: SnapshotFile,
			Dir:     ".",
		},
		Logger:  logger.DefaultConfig(),
		Minio:   minio.DefaultConfig(),
		Lock:    postgres.DefaultConfig(),
		Metrics: metrics.DefaultConfig(),
		Tracer:  tracer.DefaultConfig(),
	}
}

// WithServiceName names the running command in logs, metrics and traces.
func (c Config) WithServiceName(name string) Config {
	c.Logger.ServiceName = name
	c.Metrics.ServiceName = name
	c.Tracer.ServiceName = name
	return c
}
