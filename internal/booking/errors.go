// Package booking implements the reservation core: the atomic booking
// transaction, cancellation, and credential-gated lookup.  The package
// depends only on the Store contract defined in store.go so the engines
// can be exercised against an in-memory store in tests.
package booking

import "errors"

// Sentinel errors returned by the engines.  Handlers translate these
// into HTTP responses; every failure path occurs before commit, so a
// caller seeing any of these can assume zero side effects.
var (
	// ErrInvalidParams signals malformed input that slipped past the
	// transport-level validation (empty seat set, nil IDs).
	ErrInvalidParams = errors.New("invalid parameters")

	// ErrSeatUnavailable is returned when at least one requested seat
	// is already reserved, or does not exist for the concert.  The
	// whole booking is aborted; no subset is ever reserved.
	ErrSeatUnavailable = errors.New("seat unavailable")

	// ErrNotFound is returned when no reservation matches the given
	// number or credentials.
	ErrNotFound = errors.New("reservation not found")

	// ErrInvalidCredentials is returned when the phone number or
	// password does not match the reservation being canceled.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidStatus is returned when cancellation targets a
	// reservation that is already CANCELED.
	ErrInvalidStatus = errors.New("reservation already canceled")

	// ErrNumberTaken is returned by Tx.InsertReservation when the
	// generated reservation number collides with an existing row.
	// The engine retries with a fresh number; it never surfaces to
	// callers of Book.
	ErrNumberTaken = errors.New("reservation number taken")
)
