package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/dayeon/concert-seat-reservation/internal/model"
)

// Tx is the mutation surface available inside one atomic unit.  Every
// implementation must guarantee that seats returned by SeatsForUpdate
// stay locked against concurrent bookings and cancellations until the
// enclosing transaction commits or rolls back.
type Tx interface {
	// SeatsForUpdate locks and returns the current state of the given
	// seats of a concert.  Seats that do not exist, or belong to a
	// different concert, are simply absent from the result; callers
	// detect this by comparing lengths.  The seat IDs must be passed
	// in canonical (sorted) order so overlapping multi-seat requests
	// acquire row locks in the same order and cannot deadlock.
	SeatsForUpdate(ctx context.Context, concertID uuid.UUID, seatIDs []uuid.UUID) ([]SeatState, error)

	// InsertReservation persists a new reservation row and populates
	// its CreatedAt.  It returns ErrNumberTaken when res.Number
	// collides with an existing reservation.
	InsertReservation(ctx context.Context, res *model.Reservation) error

	// LinkSeats records ownership of the seats by the reservation.
	LinkSeats(ctx context.Context, reservationID uuid.UUID, seatIDs []uuid.UUID) error

	// UpdateSeatStatus flips the status of the given seats.
	UpdateSeatStatus(ctx context.Context, seatIDs []uuid.UUID, status model.SeatStatus) error

	// ReservationForUpdate locks and returns the reservation with the
	// given number along with the IDs of the seats it owns.  Returns
	// ErrNotFound when no such reservation exists.
	ReservationForUpdate(ctx context.Context, number string) (*model.Reservation, []uuid.UUID, error)

	// UpdateReservationStatus sets the status of a reservation.
	UpdateReservationStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) error
}

// Store is the transactional store the engines run against.  The SQL
// implementation lives in internal/repository; tests use an in-memory
// store honoring the same locking contract.
type Store interface {
	// ReservationByNumber returns the reservation with the given
	// number regardless of status, or ErrNotFound.  It takes no lock;
	// it exists so credential checks can run outside the critical
	// section.
	ReservationByNumber(ctx context.Context, number string) (*model.Reservation, error)

	// WithinTx runs fn inside one atomic unit.  When fn returns an
	// error the transaction is rolled back and the error is returned
	// unchanged; otherwise the transaction commits.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// ReadStore is the read-only surface used by the lookup service.  No
// locking is required on this path; it performs no writes.
type ReadStore interface {
	// DetailByNumber returns the full detail of a reservation in any
	// status, or ErrNotFound.
	DetailByNumber(ctx context.Context, number string) (*ReservationDetail, error)

	// ConfirmedDetailByNumber is DetailByNumber restricted to
	// CONFIRMED reservations; canceled ones yield ErrNotFound.
	ConfirmedDetailByNumber(ctx context.Context, number string) (*ReservationDetail, error)

	// ReservationsByPhone returns all reservations for a phone number
	// in any status, newest first.
	ReservationsByPhone(ctx context.Context, phone string) ([]model.Reservation, error)
}

// Hasher abstracts the slow one-way password hash.  Verify must use a
// constant-time comparison.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}
