package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound        = errors.New("resource not found")
	ErrDatasetNotFound = fmt.Errorf("%w: dataset", ErrNotFound)
	ErrNoticeNotFound  = fmt.Errorf("%w: notice", ErrNotFound)
	ErrReportNotFound  = fmt.Errorf("%w: report", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("%w: user", ErrNotFound)

	ErrUnauthenticated      = errors.New("authentication required")
	ErrForbidden            = errors.New("permission denied")
	ErrSubscriptionRequired = errors.New("an active subscription is required")

	ErrInvalidInput = errors.New("invalid input")
)

// NewNotFoundError wraps ErrNotFound with the resource and id
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// NewValidationError wraps ErrInvalidInput with the offending field
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidInput, field, reason)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
