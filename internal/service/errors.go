package service

import "errors"

// Domain failure taxonomy. Handlers map these to HTTP statuses with errors.Is;
// anything else is a 500.
var (
	// ErrConflict reports a duplicate unique field or duplicate membership.
	ErrConflict = errors.New("conflict")

	// ErrInvalidArgument reports failed validation (title length, malformed enum).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidCredentials reports a login failure. Deliberately uniform for
	// unknown user and wrong password so usernames cannot be enumerated.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized reports a valid identity with insufficient permission.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound reports an id that does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrLimitExceeded reports the item image cap being reached.
	ErrLimitExceeded = errors.New("limit exceeded")
)
