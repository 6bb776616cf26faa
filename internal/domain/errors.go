package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConflict         = errors.New("order id already exists")
	ErrNotFound         = errors.New("order not found")
	ErrStoreUnavailable = errors.New("order store unavailable")
)

// ValidationError describes a malformed request payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
