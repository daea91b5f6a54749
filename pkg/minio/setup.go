package minio

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Logger defines the interface for logging operations within the MinIO client.
type Logger interface {
	// Info logs informational messages with optional error and additional fields
	Info(msg string, err error, fields ...map[string]interface{})

	// Debug logs debug-level messages with optional error and additional fields
	Debug(msg string, err error, fields ...map[string]interface{})

	// Warn logs warning messages with optional error and additional fields
	Warn(msg string, err error, fields ...map[string]interface{})

	// Error logs error messages with the associated error and optional additional fields
	Error(msg string, err error, fields ...map[string]interface{})
}

// Minio wraps the standard MinIO client with the configured bucket.
type Minio struct {
	// Client is the standard MinIO client for high-level operations
	Client *minio.Client

	// cfg holds the configuration for this MinIO client instance
	cfg Config

	// logger is used for logging operations and errors
	logger Logger

	// bufferPool manages reusable byte buffers to reduce memory allocations
	bufferPool *BufferPool
}

// BufferPool implements a pool of bytes.Buffers to reduce memory allocations.
type BufferPool struct {
	pool sync.Pool
}

// NewBufferPool creates a new BufferPool instance.
func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

// Get returns a buffer from the pool. Callers should Reset it before use.
func (bp *BufferPool) Get() *bytes.Buffer {
	return bp.pool.Get().(*bytes.Buffer)
}

// Put returns a buffer to the pool for future reuse.
func (bp *BufferPool) Put(b *bytes.Buffer) {
	bp.pool.Put(b)
}

// NewClient creates and validates a new MinIO client.
// It validates the connection and ensures the configured bucket exists.
//
// Example:
//
//	client, err := minio.NewClient(ctx, config, myLogger)
//	if err != nil {
//	    return fmt.Errorf("failed to initialize MinIO client: %w", err)
//	}
func NewClient(ctx context.Context, cfg Config, logger Logger) (*Minio, error) {
	fields := map[string]interface{}{
		"endpoint": cfg.Connection.Endpoint,
		"region":   cfg.Connection.Region,
		"secure":   cfg.Connection.UseSSL,
		"bucket":   cfg.Connection.BucketName,
	}

	client, err := connectToMinio(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to minio", err, fields)
		return nil, TranslateError("connect", err)
	}

	minioClient := &Minio{
		Client:     client,
		cfg:        cfg,
		logger:     logger,
		bufferPool: NewBufferPool(),
	}

	if err := minioClient.validateConnection(ctx); err != nil {
		logger.Error("failed to validate minio connection", err, fields)
		return nil, TranslateError("connect", err)
	}
	if err := minioClient.ensureBucketExists(ctx); err != nil {
		logger.Error("failed to verify bucket", err, fields)
		return nil, TranslateError("ensure_bucket", err)
	}

	return minioClient, nil
}

// Bucket returns the configured bucket name.
func (m *Minio) Bucket() string {
	return m.cfg.Connection.BucketName
}

// connectToMinio creates a new standard MinIO client.
func connectToMinio(cfg Config, logger Logger) (*minio.Client, error) {
	if cfg.Connection.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint cannot be empty")
	}

	logger.Debug("connecting to minio", nil, map[string]interface{}{
		"endpoint": cfg.Connection.Endpoint,
		"region":   cfg.Connection.Region,
		"secure":   cfg.Connection.UseSSL,
	})

	return minio.New(cfg.Connection.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Connection.AccessKeyID, cfg.Connection.SecretAccessKey, ""),
		Secure: cfg.Connection.UseSSL,
		Region: cfg.Connection.Region,
	})
}

// validateConnection checks that the endpoint answers with valid credentials.
func (m *Minio) validateConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	_, err := m.Client.BucketExists(ctx, m.cfg.Connection.BucketName)
	return err
}

// ensureBucketExists checks if the configured bucket exists and creates it
// when AccessBucketCreation allows it.
func (m *Minio) ensureBucketExists(ctx context.Context) error {
	bucketName := m.cfg.Connection.BucketName
	if bucketName == "" {
		return fmt.Errorf("bucket name is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	exists, err := m.Client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists, bucket: %v, err: %w", bucketName, err)
	}
	if exists {
		return nil
	}

	if !m.cfg.Connection.AccessBucketCreation {
		return fmt.Errorf("bucket %q does not exist and bucket creation is disabled", bucketName)
	}

	m.logger.Info("bucket does not exist, creating it", nil, map[string]interface{}{
		"bucket": bucketName,
		"region": m.cfg.Connection.Region,
	})

	if err := m.Client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{
		Region: m.cfg.Connection.Region,
	}); err != nil {
		return err
	}

	m.logger.Info("successfully created bucket", nil, map[string]interface{}{
		"bucket": bucketName,
	})
	return nil
}
