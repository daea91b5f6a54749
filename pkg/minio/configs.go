package minio

import "time"

const (
	unknownSize int64 = -1

	// DefaultSmallFileThreshold is the size below which Get reads into an
	// exactly sized slice instead of a pooled buffer.
	DefaultSmallFileThreshold int64 = 1 * 1024 * 1024

	defaultOperationTimeout = 10 * time.Second
)

// Config defines the top-level configuration for MinIO.
type Config struct {
	Connection     ConnectionConfig `yaml:"connection"`
	UploadConfig   UploadConfig     `yaml:"upload"`
	DownloadConfig DownloadConfig   `yaml:"download"`
}

// ConnectionConfig contains MinIO server connection details.
type ConnectionConfig struct {
	Endpoint        string `yaml:"endpoint" envconfig:"MINIO_ENDPOINT"`                   // e.g. "localhost:9000"
	AccessKeyID     string `yaml:"access_key_id" envconfig:"MINIO_ACCESS_KEY_ID"`         // MinIO access key
	SecretAccessKey string `yaml:"secret_access_key" envconfig:"MINIO_SECRET_ACCESS_KEY"` // MinIO secret key
	UseSSL          bool   `yaml:"use_ssl" envconfig:"MINIO_USE_SSL"`                     // "https" when true
	BucketName      string `yaml:"bucket_name" envconfig:"MINIO_BUCKET"`                  // bucket holding snapshots
	Region          string `yaml:"region" envconfig:"MINIO_REGION"`                       // e.g. "us-east-1"

	// AccessBucketCreation allows NewClient to create a missing bucket.
	AccessBucketCreation bool `yaml:"access_bucket_creation" envconfig:"MINIO_BUCKET_CREATION"`
}

// UploadConfig defines the configuration for upload constraints.
type UploadConfig struct {
	MinPartSize uint64 `yaml:"min_part_size" envconfig:"MINIO_MIN_PART_SIZE"` // Part size for multipart uploads, 0 lets the SDK decide
}

// DownloadConfig tunes how Get buffers objects.
type DownloadConfig struct {
	SmallFileThreshold int64 `yaml:"small_file_threshold" envconfig:"MINIO_SMALL_FILE_THRESHOLD"` // Size in bytes below which we use pre-allocated buffer
	InitialBufferSize  int   `yaml:"initial_buffer_size" envconfig:"MINIO_INITIAL_BUFFER_SIZE"`   // Initial buffer size for large files
}

// DefaultConfig returns a local, plain-HTTP configuration with a
// "vectorbridge-snapshots" bucket that is created on demand.
func DefaultConfig() Config {
	return Config{
		Connection: ConnectionConfig{
			Endpoint:             "localhost:9000",
			BucketName:           "vectorbridge-snapshots",
			Region:               "us-east-1",
			AccessBucketCreation: true,
		},
		DownloadConfig: DownloadConfig{
			SmallFileThreshold: DefaultSmallFileThreshold,
			InitialBufferSize:  4 * 1024 * 1024,
		},
	}
}
