package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("resource not found")
	ErrNoRecords             = fmt.Errorf("no records: %w", ErrNotFound)
	ErrValidation            = errors.New("validation failed")
	ErrDuplicateVendor       = errors.New("vendor already exists")
	ErrVendorInUse           = errors.New("vendor has entries")
	ErrDefaultVendorConflict = errors.New("default vendor changed concurrently, retry")
	ErrDuplicateUser         = errors.New("user already exists")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrUserInactive          = errors.New("account has been disabled")
)

// ValidationError rejects a submission because of one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
