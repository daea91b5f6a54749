package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// Put uploads an object to the configured bucket and returns its size.
func (m *Minio) Put(ctx context.Context, objectKey string, reader io.Reader, size ...int64) (int64, error) {
	actualSize := unknownSize
	if len(size) > 0 && size[0] != 0 {
		actualSize = size[0]
	}

	response, err := m.Client.PutObject(ctx, m.cfg.Connection.BucketName, objectKey, reader, actualSize, minio.PutObjectOptions{
		PartSize:    m.cfg.UploadConfig.MinPartSize,
		ContentType: "application/json",
	})
	if err != nil {
		return 0, TranslateError("put_object", err)
	}
	return response.Size, nil
}

// Get retrieves an object and returns its contents. A missing object is
// reported as vectordb.ErrNotFound.
func (m *Minio) Get(ctx context.Context, objectKey string) ([]byte, error) {
	reader, err := m.Client.GetObject(ctx, m.cfg.Connection.BucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, TranslateError("get_object", err)
	}
	defer func(reader io.ReadCloser) {
		if err := reader.Close(); err != nil {
			m.logger.Warn("failed to close object reader", err, map[string]interface{}{"object": objectKey})
		}
	}(reader)

	// GetObject is lazy; Stat is the first call that reaches the server.
	objectInfo, err := reader.Stat()
	if err != nil {
		return nil, TranslateError("get_object", err)
	}
	size := objectInfo.Size

	threshold := m.cfg.DownloadConfig.SmallFileThreshold
	if threshold <= 0 {
		threshold = DefaultSmallFileThreshold
	}
	if size < threshold {
		data := make([]byte, size)
		if _, err = io.ReadFull(reader, data); err != nil {
			return nil, fmt.Errorf("failed to read object data: %w", err)
		}
		return data, nil
	}

	bufferSize := min(size, int64(m.cfg.DownloadConfig.InitialBufferSize))
	buffer := m.bufferPool.Get()
	buffer.Reset()
	if buffer.Cap() < int(bufferSize) {
		buffer.Grow(int(bufferSize))
	}

	if _, err = io.Copy(buffer, reader); err != nil {
		m.bufferPool.Put(buffer)
		return nil, fmt.Errorf("failed to read large object: %w", err)
	}

	// Copy out so the pooled buffer can be reused.
	result := make([]byte, buffer.Len())
	copy(result, buffer.Bytes())
	m.bufferPool.Put(buffer)

	return result, nil
}

// Delete removes an object from the configured bucket.
func (m *Minio) Delete(ctx context.Context, objectKey string) error {
	err := m.Client.RemoveObject(ctx, m.cfg.Connection.BucketName, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return TranslateError("delete_object", err)
	}
	return nil
}
