package minio

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// TranslateError classifies a MinIO error into a vectordb error kind so
// snapshot failures are reported like database failures.
func TranslateError(op string, err error) error {
	if err == nil {
		return nil
	}
	var classified *vectordb.Error
	if errors.As(err, &classified) {
		return err
	}
	return vectordb.NewError(op, classify(err), err)
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return vectordb.ErrUnavailable
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return vectordb.ErrUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return vectordb.ErrUnavailable
	}

	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NoSuchUpload":
		return vectordb.ErrNotFound
	case "InvalidArgument", "InvalidBucketName", "InvalidObjectName", "EntityTooLarge":
		return vectordb.ErrInvalidArgument
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "SlowDown", "ServiceUnavailable", "RequestTimeout":
		return vectordb.ErrUnavailable
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "endpoint cannot be empty"):
		return vectordb.ErrUnavailable
	case strings.Contains(msg, "does not exist"):
		return vectordb.ErrNotFound
	}
	return nil
}
