// Package apperrors defines the error kinds the repository raises and the
// HTTP layer maps to status codes.
package apperrors

import "errors"

var (
	ErrValidation         = errors.New("invalid request")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrQuery              = errors.New("query failed")

	// ErrConflict is reserved; nothing produces it yet.
	ErrConflict = errors.New("conflict")
)
