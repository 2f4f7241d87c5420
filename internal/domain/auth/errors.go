package auth

import "errors"

var (
	// ErrInvalidCredentials indicates a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrDuplicateAccount indicates the email is already registered.
	ErrDuplicateAccount = errors.New("an account with this email already exists")
	// ErrInvalidInput indicates invalid sign-up input.
	ErrInvalidInput = errors.New("invalid auth input")
	// ErrUnauthorized indicates a missing, unknown or expired token.
	ErrUnauthorized = errors.New("unauthorized")
)
