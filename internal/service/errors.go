package service

import "errors"

var (
	// ErrValidation marks input that failed structural validation.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized marks a failed login or an invalid access token.
	ErrUnauthorized = errors.New("unauthorized")
)
