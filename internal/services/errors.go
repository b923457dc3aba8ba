package services

import "errors"

// Error kinds returned by UserService. Match them with errors.Is;
// the wrapped cause carries internal detail for logging only.
var (
	ErrValidation         = errors.New("all fields are required")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrStoreFailure       = errors.New("store failure")
	ErrHashFailure        = errors.New("password hash failure")
	ErrTokenFailure       = errors.New("token issuance failure")
)
