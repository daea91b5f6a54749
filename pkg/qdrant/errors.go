package qdrant

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// TranslateError classifies a Qdrant SDK error into a vectordb error kind.
// The SDK returns gRPC status errors, so the status code is authoritative;
// message patterns cover errors the client wraps itself.
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
		case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled, codes.Unauthenticated, codes.PermissionDenied:
			return vectordb.ErrUnavailable
		case codes.NotFound:
			return vectordb.ErrNotFound
		case codes.AlreadyExists:
			return vectordb.ErrAlreadySatisfied
		case codes.InvalidArgument, codes.FailedPrecondition:
			return vectordb.ErrInvalidArgument
		case codes.Unimplemented:
			return vectordb.ErrUnsupported
		}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found"), strings.Contains(msg, "doesn't exist"):
		return vectordb.ErrNotFound
	case strings.Contains(msg, "already exists"):
		return vectordb.ErrAlreadySatisfied
	}
	return nil
}
