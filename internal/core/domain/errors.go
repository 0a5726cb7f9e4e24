package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Account Errors.

	// ErrInvalidUsername indicates a username that cannot be represented in a record.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrPolicyViolation indicates a password failed one or more composition rules.
	// The concrete error is a *PolicyViolation listing the failed rules.
	ErrPolicyViolation = errors.New("password policy violation")

	// ErrPasswordInUse indicates the chosen password is already stored for another user.
	ErrPasswordInUse = errors.New("password already in use")

	// ErrLoggedOut indicates the account handle has been logged out.
	ErrLoggedOut = errors.New("account logged out")

	// ErrTooManyAttempts indicates the login retry budget is exhausted.
	ErrTooManyAttempts = errors.New("too many failed attempts")

	// Store Errors.

	// ErrStoreIO indicates the record store could not be read, written or replaced.
	// The store's previous durable state is left unmodified.
	ErrStoreIO = errors.New("record store I/O failure")

	// ErrUnstorable indicates a value contains bytes the record format cannot hold.
	ErrUnstorable = errors.New("value cannot be stored in record format")
)
