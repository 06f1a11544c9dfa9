// Package common defines shared sentinel errors and small helpers used across
// recipekeeper packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Validation errors for user-supplied fields.
	ErrorValidation = errors.New("validation error")

	// Auth errors. ErrorUnauthorized never says whether the email or the
	// password was wrong.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("permission denied")

	ErrorInternal = errors.New("internal error")
)
