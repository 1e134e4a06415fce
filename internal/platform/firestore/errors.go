package firestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/craftconnect/tasktrigger/internal/store"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MapError maps a Firestore error to an appropriate store error.
// It wraps the original error to preserve context and provide better debugging information.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	// Context errors pass through so callers can still match them.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", store.ErrTaskNotFound, err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%w: %v", store.ErrPermissionDenied, err)
	case codes.Unavailable, codes.DeadlineExceeded, codes.Aborted,
		codes.ResourceExhausted, codes.Internal:
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	case codes.FailedPrecondition, codes.InvalidArgument:
		return fmt.Errorf("%w: %v", store.ErrUpdateFailed, err)
	}

	// Return the original error for errors that don't have specific mappings
	return err
}
