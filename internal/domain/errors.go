package domain

import "errors"

// Failure taxonomy for credential and profile operations. Services return
// these (possibly wrapped); the HTTP layer translates them to responses.
var (
	// ErrInvalidInput marks programmer-level misuse such as hashing an
	// empty plaintext.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmailTaken is returned by registration when the email already
	// has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password
	// on login so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidCurrentPassword is distinguishable from
	// ErrInvalidCredentials because change-password callers are already
	// authenticated.
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")

	// ErrInvalidOrExpiredToken covers unknown, expired and already
	// consumed reset tokens without distinguishing which.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// ErrNotFound means the record vanished mid-operation.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable wraps store or transport failures.
	ErrUnavailable = errors.New("store unavailable")
)
