package domain

import "errors"

// Sentinel errors shared across services and repositories. Controllers map
// these to HTTP error codes; services wrap unexpected failures with %w.
var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrProfileNotFound is returned when a profile was never initialized.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidKey is returned when a websafe conference key cannot be
	// decoded. Distinct from ErrNotFound: the key is malformed, not missing.
	ErrInvalidKey = errors.New("invalid conference key")

	// ErrAlreadyRegistered is returned when the caller already holds a seat
	// in the conference.
	ErrAlreadyRegistered = errors.New("already registered")

	// ErrNoSeatsAvailable is returned when a conference has no seats left.
	ErrNoSeatsAvailable = errors.New("no seats available")

	// ErrNotRegistered is returned when unregistering from a conference the
	// caller holds no seat in.
	ErrNotRegistered = errors.New("not registered for this conference")

	// ErrInvalidInput is returned for semantically invalid request data.
	ErrInvalidInput = errors.New("invalid input")
)
