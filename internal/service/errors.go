package service

import "errors"

var (
	// ErrValidation marks client-input problems; controllers map it to 400.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is deliberately vague about whether the account
	// exists or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers malformed, expired and revoked refresh tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)
