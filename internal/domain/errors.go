package domain

import (
	"errors"
)

// Sentinel errors shared by repositories and services. Callers classify with
// errors.Is; the HTTP layer maps them to status codes.
var (
	// ErrNotFound: referenced room/profile/application does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCapacityExceeded: the conditional reservation matched no row — the
	// room filled up or left the available state. Expected under contention.
	ErrCapacityExceeded = errors.New("room capacity exceeded")

	// ErrInvalidTransition: the application is already approved or rejected.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNoEligibleRoom: no compatible room with a free slot exists.
	ErrNoEligibleRoom = errors.New("no eligible room")

	// ErrInvalidInput: malformed request fields, rejected before any mutation.
	ErrInvalidInput = errors.New("invalid input")
)
