package milvus

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// TranslateError classifies a Milvus SDK error into a vectordb error kind.
//
// The SDK surfaces server failures as plain errors carrying the server's
// reason text, and transport failures as gRPC status errors. Both are
// inspected; anything unrecognised keeps its original message and is
// reported as an internal failure by vectordb.KindOf.
func TranslateError(op string, err error) error {
	if err == nil {
		return nil
	}
	var vErr *vectordb.Error
	if errors.As(err, &vErr) {
		return err
	}
	return vectordb.NewError(op, classify(err), err)
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return vectordb.ErrUnavailable
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled, codes.Unauthenticated:
			return vectordb.ErrUnavailable
		case codes.NotFound:
			return vectordb.ErrNotFound
		case codes.AlreadyExists:
			return vectordb.ErrAlreadySatisfied
		case codes.InvalidArgument:
			return vectordb.ErrInvalidArgument
		case codes.Unimplemented:
			return vectordb.ErrUnsupported
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "already exist"),
		strings.Contains(msg, "at most one distinct index"):
		return vectordb.ErrAlreadySatisfied
	case strings.Contains(msg, "not exist"),
		strings.Contains(msg, "doesn't exist"),
		strings.Contains(msg, "not found"),
		strings.Contains(msg, "can't find"):
		return vectordb.ErrNotFound
	case strings.Contains(msg, "context deadline exceeded"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "transport"):
		return vectordb.ErrUnavailable
	case strings.Contains(msg, "cannot parse expression"),
		strings.Contains(msg, "invalid"),
		strings.Contains(msg, "should be"),
		strings.Contains(msg, "mismatch"):
		return vectordb.ErrInvalidArgument
	}
	return nil
}
