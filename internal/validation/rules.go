// Package validation provides custom validation rules for configuration
// keys, user ids, and key material inputs.
package validation

import (
	"encoding/base64"
	"regexp"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/configvault/internal/errors"
)

var (
	// keyRegex restricts configuration keys to path-like identifiers:
	// segments of letters, digits, dot, dash, and underscore joined by
	// "/" or ":".
	keyRegex = regexp.MustCompile(`^[A-Za-z0-9._\-]+([/:][A-Za-z0-9._\-]+)*$`)

	// userIDRegex restricts user identifiers to a flat token.
	userIDRegex = regexp.MustCompile(`^[A-Za-z0-9._\-@]+$`)
)

// WrapValidationError converts validation failures into ErrInvalidArgument
// so callers can branch on the sentinel.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidArgument, err.Error())
}

// ConfigurationKey validates a configuration key.
var ConfigurationKey = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_key_type", "must be a string")
	}
	if s == "" {
		return nil // Required handles empty strings
	}
	if !keyRegex.MatchString(s) {
		return validation.NewError("validation_key_format",
			"must contain only letters, digits, '.', '_', '-' in '/'- or ':'-separated segments")
	}
	return nil
})

// UserID validates a user identifier.
var UserID = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_user_id_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	if !userIDRegex.MatchString(s) {
		return validation.NewError("validation_user_id_format",
			"must contain only letters, digits, '.', '_', '-', '@'")
	}
	return nil
})

// Base64 validates that a string is valid base64-encoded data. Used for
// wrapped key material passed through configuration.
var Base64 = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_base64_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return validation.NewError("validation_base64", "must be valid base64-encoded data")
	}
	return nil
})

// maxKeyLength matches the widest key column across the SQL backends.
const maxKeyLength = 512

// ValidateSetInput validates the inputs of a store write.
func ValidateSetInput(key, userID string) error {
	err := validation.Errors{
		"key": validation.Validate(key,
			validation.Required, validation.Length(1, maxKeyLength), ConfigurationKey),
		"user_id": validation.Validate(userID,
			validation.Required, validation.Length(1, 255), UserID),
	}.Filter()
	return WrapValidationError(err)
}
