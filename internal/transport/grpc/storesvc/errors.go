package storesvc

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/murkotick/product-live-catalog/internal/pkg/docstore"
)

// mapError translates store errors into gRPC status codes.
// Unknown errors become codes.Internal.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	switch {
	case errors.Is(err, docstore.ErrEmptyCollection),
		errors.Is(err, docstore.ErrEmptyKey),
		errors.Is(err, docstore.ErrNilDocument),
		errors.Is(err, errMalformed):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, docstore.ErrClosed):
		return status.Error(codes.Unavailable, err.Error())
	}

	return status.Error(codes.Internal, err.Error())
}

// fromStatus restores the sentinel errors callers classify with errors.Is.
func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Canceled:
		return fmt.Errorf("%w: %s", context.Canceled, st.Message())
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", context.DeadlineExceeded, st.Message())
	case codes.Unavailable:
		if st.Message() == docstore.ErrClosed.Error() {
			return docstore.ErrClosed
		}
	case codes.InvalidArgument:
		for _, sentinel := range []error{docstore.ErrEmptyCollection, docstore.ErrEmptyKey, docstore.ErrNilDocument} {
			if st.Message() == sentinel.Error() {
				return sentinel
			}
		}
	}
	return err
}
