package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation  = errors.New("validation")  // 400
	ErrNotFound    = errors.New("not found")   // 404
	ErrForbidden   = errors.New("forbidden")   // 403
	ErrConflict    = errors.New("conflict")    // 409
	ErrUnavailable = errors.New("unavailable") // 503, retryable
)

// storeErr classifies a persistence failure: timeouts and cancellations become
// retryable Unavailable, everything else passes through for the boundary to
// treat as internal.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: store timeout: %v", ErrUnavailable, err)
	}
	return err
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return storeErr(err)
}
