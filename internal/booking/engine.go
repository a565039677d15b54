package booking

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/dayeon/concert-seat-reservation/internal/model"
)

// numberAttempts bounds how many fresh reservation numbers Book tries
// when inserts collide on the UNIQUE constraint.
const numberAttempts = 5

// Engine executes bookings and cancellations.  Both operations run as
// a single transaction against the store: either every requested seat
// changes state and the ledger is updated, or nothing happens at all.
type Engine struct {
	store  Store
	hasher Hasher
}

// NewEngine constructs an Engine.  Both dependencies must be non-nil.
func NewEngine(store Store, hasher Hasher) *Engine {
	if store == nil || hasher == nil {
		panic("nil dependency passed to NewEngine")
	}
	return &Engine{store: store, hasher: hasher}
}

// Book atomically reserves the requested seats and writes a CONFIRMED
// reservation.  If any seat is not AVAILABLE the whole operation fails
// with ErrSeatUnavailable and no seat is touched.  The password is
// hashed before the transaction begins so the slow bcrypt work never
// runs while seat rows are locked.
func (e *Engine) Book(ctx context.Context, req BookRequest) (*model.Reservation, error) {
	seatIDs := normalizeSeatIDs(req.SeatIDs)
	if len(seatIDs) == 0 || req.ConcertID == uuid.Nil {
		return nil, ErrInvalidParams
	}
	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	res := &model.Reservation{
		ID:           uuid.New(),
		ConcertID:    req.ConcertID,
		CustomerName: req.CustomerName,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
		Status:       model.ReservationConfirmed,
	}
	err = e.store.WithinTx(ctx, func(tx Tx) error {
		seats, err := tx.SeatsForUpdate(ctx, req.ConcertID, seatIDs)
		if err != nil {
			return err
		}
		// a missing row means the seat does not exist for this concert
		if len(seats) != len(seatIDs) {
			return ErrSeatUnavailable
		}
		total := 0
		for _, s := range seats {
			if s.Status != model.SeatAvailable {
				return ErrSeatUnavailable
			}
			total += s.Price
		}
		res.TotalAmount = total
		if err := insertWithFreshNumber(ctx, tx, res); err != nil {
			return err
		}
		if err := tx.LinkSeats(ctx, res.ID, seatIDs); err != nil {
			return err
		}
		return tx.UpdateSeatStatus(ctx, seatIDs, model.SeatReserved)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// insertWithFreshNumber inserts the reservation, regenerating the
// number and retrying when it collides with an existing row.  After
// numberAttempts collisions the last error is returned; a collision
// must never be silently ignored.
func insertWithFreshNumber(ctx context.Context, tx Tx, res *model.Reservation) error {
	for attempt := 0; ; attempt++ {
		num, err := NewNumber()
		if err != nil {
			return err
		}
		res.Number = num
		err = tx.InsertReservation(ctx, res)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrNumberTaken) || attempt+1 >= numberAttempts {
			return err
		}
	}
}

// Cancel verifies the caller owns the reservation, then atomically
// marks it CANCELED and releases its seats back to AVAILABLE.  A
// second cancel of the same reservation fails with ErrInvalidStatus
// without touching seat state again.
func (e *Engine) Cancel(ctx context.Context, req CancelRequest) error {
	// Credentials are checked against an unlocked read first so the
	// bcrypt comparison runs outside the critical section.  Status is
	// re-checked under the row lock below.
	current, err := e.store.ReservationByNumber(ctx, req.Number)
	if err != nil {
		return err
	}
	if current.PhoneNumber != req.PhoneNumber || !e.hasher.Verify(current.PasswordHash, req.Password) {
		return ErrInvalidCredentials
	}
	return e.store.WithinTx(ctx, func(tx Tx) error {
		res, seatIDs, err := tx.ReservationForUpdate(ctx, req.Number)
		if err != nil {
			return err
		}
		if res.Status != model.ReservationConfirmed {
			return ErrInvalidStatus
		}
		if err := tx.UpdateReservationStatus(ctx, res.ID, model.ReservationCanceled); err != nil {
			return err
		}
		return tx.UpdateSeatStatus(ctx, seatIDs, model.SeatAvailable)
	})
}

// normalizeSeatIDs drops nil and duplicate IDs and sorts the rest into
// canonical order.  Sorting fixes the lock acquisition order across
// overlapping requests, which rules out lock-order deadlocks.
func normalizeSeatIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
