package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/dayeon/concert-seat-reservation/internal/booking"
	"github.com/dayeon/concert-seat-reservation/internal/model"
)

// mysqlDupEntry is the MySQL error number for a UNIQUE violation.
const mysqlDupEntry = 1062

// Store is the MySQL implementation of booking.Store.  Seat-row
// serialization relies on InnoDB row locks acquired via
// SELECT ... FOR UPDATE inside WithinTx.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store bound to the given database.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// DB exposes the underlying handle for callers that need to share the
// connection pool (read repositories, health checks).
func (s *Store) DB() *sql.DB { return s.db }

// ReservationByNumber returns the reservation with the given number in
// any status without taking a lock.  It is used for the credential
// check that runs before the cancellation transaction.
func (s *Store) ReservationByNumber(ctx context.Context, number string) (*model.Reservation, error) {
	const q = `SELECT id, reservation_number, concert_id, customer_name, phone_number,
	                  password_hash, total_amount, status, created_at
	           FROM reservations
	           WHERE reservation_number = ?`
	res, err := scanReservation(s.db.QueryRowContext(ctx, q, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

// WithinTx runs fn inside a single database transaction.  The
// transaction is rolled back whenever fn returns an error, so a
// failing booking or cancellation leaves zero observable state.
func (s *Store) WithinTx(ctx context.Context, fn func(tx booking.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&storeTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// storeTx implements booking.Tx over one *sql.Tx.
type storeTx struct {
	tx *sql.Tx
}

// SeatsForUpdate locks the requested seat rows and returns their
// status together with the grade price resolved from seat_grades.
// Seats missing from the concert simply do not come back; the engine
// detects the shortfall by length.  The IN list preserves the caller's
// canonical order and the result is ordered by seat ID so overlapping
// requests contend on locks in the same order.
func (t *storeTx) SeatsForUpdate(ctx context.Context, concertID uuid.UUID, seatIDs []uuid.UUID) ([]booking.SeatState, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, 0, len(seatIDs))
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, concertID)
	for _, id := range seatIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	query := `SELECT s.id, s.status, g.price
	          FROM seats s
	          JOIN concerts c ON c.id = s.concert_id
	          JOIN seat_grades g ON g.venue_id = c.venue_id AND g.name = s.grade
	          WHERE s.concert_id = ? AND s.id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY s.id
	          FOR UPDATE`
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	states := make([]booking.SeatState, 0, len(seatIDs))
	for rows.Next() {
		var st booking.SeatState
		if err := rows.Scan(&st.ID, &st.Status, &st.Price); err != nil {
			return nil, err
		}
		states = append(states, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return states, nil
}

// InsertReservation writes a new reservation row and reads back its
// creation timestamp.  A duplicate reservation_number surfaces as
// booking.ErrNumberTaken so the engine can retry with a fresh number.
func (t *storeTx) InsertReservation(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (id, reservation_number, concert_id, customer_name, phone_number, password_hash, total_amount, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := t.tx.ExecContext(ctx, q,
		res.ID, res.Number, res.ConcertID, res.CustomerName,
		res.PhoneNumber, res.PasswordHash, res.TotalAmount, res.Status,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDupEntry {
			return booking.ErrNumberTaken
		}
		return err
	}
	const sel = `SELECT created_at FROM reservations WHERE id = ?`
	return t.tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt)
}

// LinkSeats inserts the reservation_seats ownership rows in a single
// statement.  Passing an empty slice has no effect and returns nil.
func (t *storeTx) LinkSeats(ctx context.Context, reservationID uuid.UUID, seatIDs []uuid.UUID) error {
	if len(seatIDs) == 0 {
		return nil
	}
	query := `INSERT INTO reservation_seats (reservation_id, seat_id) VALUES `
	args := make([]interface{}, 0, len(seatIDs)*2)
	for i, sid := range seatIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, reservationID, sid)
	}
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}

// UpdateSeatStatus flips the status of the given seats.
func (t *storeTx) UpdateSeatStatus(ctx context.Context, seatIDs []uuid.UUID, status model.SeatStatus) error {
	if len(seatIDs) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(seatIDs))
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, status)
	for _, id := range seatIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	query := `UPDATE seats SET status = ? WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}

// ReservationForUpdate locks the reservation row and returns it along
// with the IDs of the seats it owns.
func (t *storeTx) ReservationForUpdate(ctx context.Context, number string) (*model.Reservation, []uuid.UUID, error) {
	const q = `SELECT id, reservation_number, concert_id, customer_name, phone_number,
	                  password_hash, total_amount, status, created_at
	           FROM reservations
	           WHERE reservation_number = ?
	           FOR UPDATE`
	res, err := scanReservation(t.tx.QueryRowContext(ctx, q, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, booking.ErrNotFound
		}
		return nil, nil, err
	}
	const seatQ = `SELECT seat_id FROM reservation_seats WHERE reservation_id = ?`
	rows, err := t.tx.QueryContext(ctx, seatQ, res.ID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var seatIDs []uuid.UUID
	for rows.Next() {
		var sid uuid.UUID
		if err := rows.Scan(&sid); err != nil {
			return nil, nil, err
		}
		seatIDs = append(seatIDs, sid)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return res, seatIDs, nil
}

// UpdateReservationStatus sets the status of one reservation.
func (t *storeTx) UpdateReservationStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) error {
	const q = `UPDATE reservations SET status = ? WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, q, status, id)
	return err
}

// scanReservation reads one reservations row from a QueryRow result.
func scanReservation(row *sql.Row) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(
		&res.ID, &res.Number, &res.ConcertID, &res.CustomerName, &res.PhoneNumber,
		&res.PasswordHash, &res.TotalAmount, &res.Status, &res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
