package errors

import (
	"context"
	"errors"
	"net"

	"github.com/redis/go-redis/v9"
)

// MapStoreError maps errors returned by session, marker and avatar stores
// onto AppError codes:
//   - context.DeadlineExceeded → Timeout
//   - context.Canceled → Canceled
//   - redis.Nil → NotFound
//   - network failures and a closed client → Unavailable
//
// Errors that already carry a code, or that are not recognized, are returned unchanged.
func MapStoreError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "Request timed out. Please try again.")
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "Request was canceled.")
	case errors.Is(err, redis.Nil):
		return Wrap(err, ErrCodeNotFound, "Resource not found")
	case errors.Is(err, redis.ErrClosed):
		return Wrap(err, ErrCodeUnavailable, "Session storage is unavailable.")
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return Wrap(err, ErrCodeUnavailable, "Session storage is unavailable.")
	}
	return err
}
