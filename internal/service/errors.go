package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/and161185/goph-feed/internal/errs"
)

// storageErr wraps an unexpected repository error as ErrStorageUnavailable.
// Context cancellation and deadline errors pass through unchanged.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", errs.ErrStorageUnavailable, err)
}
