// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by services
// and mapped to user-facing messages by the hosting application.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrInvalidArgument indicates the input data is malformed or fails validation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAccessDenied indicates the caller is not authorized for the requested
	// operation. Access denials are always audited before this error is returned.
	ErrAccessDenied = errors.New("access denied")

	// ErrKeyNotFound indicates the key provider cannot resolve a key id.
	ErrKeyNotFound = errors.New("key not found")

	// ErrIntegrityViolation indicates an integrity tag mismatch on decrypt or
	// validate: the payload has been tampered with or corrupted.
	ErrIntegrityViolation = errors.New("integrity violation")

	// ErrNotFound indicates the requested resource does not exist. Absence of a
	// configuration key is not an error for reads; this sentinel is reserved for
	// callers that require presence.
	ErrNotFound = errors.New("not found")

	// ErrSerialization indicates a backup, restore, import, or export document
	// could not be parsed or written.
	ErrSerialization = errors.New("serialization error")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
