package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/dayeon/concert-seat-reservation/internal/booking"
	"github.com/dayeon/concert-seat-reservation/internal/model"
)

// ReservationRepo serves the read-only reservation paths: lookup by
// number and lookup by credentials.  It implements booking.ReadStore.
// These queries take no locks; eventual consistency with an in-flight
// cancellation is acceptable on a read path.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DetailByNumber loads the full reservation view regardless of status.
// It returns booking.ErrNotFound when the number does not exist.
func (r *ReservationRepo) DetailByNumber(ctx context.Context, number string) (*booking.ReservationDetail, error) {
	return r.detailByNumber(ctx, number, false)
}

// ConfirmedDetailByNumber is DetailByNumber restricted to CONFIRMED
// reservations.  Canceled reservations yield booking.ErrNotFound on
// this path; they remain reachable through credential lookup.
func (r *ReservationRepo) ConfirmedDetailByNumber(ctx context.Context, number string) (*booking.ReservationDetail, error) {
	return r.detailByNumber(ctx, number, true)
}

func (r *ReservationRepo) detailByNumber(ctx context.Context, number string, confirmedOnly bool) (*booking.ReservationDetail, error) {
	q := `SELECT r.id, r.reservation_number, r.customer_name, r.phone_number,
	             r.total_amount, r.status, r.created_at,
	             c.name, c.date, v.name
	      FROM reservations r
	      JOIN concerts c ON c.id = r.concert_id
	      JOIN venues v ON v.id = c.venue_id
	      WHERE r.reservation_number = ?`
	if confirmedOnly {
		q += ` AND r.status = 'CONFIRMED'`
	}
	var (
		resID uuid.UUID
		det   booking.ReservationDetail
	)
	err := r.db.QueryRowContext(ctx, q, number).Scan(
		&resID, &det.Number, &det.CustomerName, &det.PhoneNumber,
		&det.TotalAmount, &det.Status, &det.CreatedAt,
		&det.Concert.Name, &det.Concert.Date, &det.Concert.VenueName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	seats, err := r.seatsForReservation(ctx, resID)
	if err != nil {
		return nil, err
	}
	det.Seats = seats
	return &det, nil
}

// seatsForReservation returns the placements of all seats owned by a
// reservation, ordered by section, row and column for deterministic
// output.
func (r *ReservationRepo) seatsForReservation(ctx context.Context, reservationID uuid.UUID) ([]booking.SeatPlacement, error) {
	const q = `SELECT se.section, se.row_no, se.col_no, se.grade
	           FROM reservation_seats rs
	           JOIN seats se ON se.id = rs.seat_id
	           WHERE rs.reservation_id = ?
	           ORDER BY se.section, se.row_no, se.col_no`
	rows, err := r.db.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]booking.SeatPlacement, 0, 4)
	for rows.Next() {
		var p booking.SeatPlacement
		if err := rows.Scan(&p.Section, &p.Row, &p.Column, &p.Grade); err != nil {
			return nil, err
		}
		seats = append(seats, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// ReservationsByPhone returns all reservations for a phone number in
// any status, newest first.  The rows include the password hash so the
// lookup service can verify credentials; the hash never leaves the
// service layer.
func (r *ReservationRepo) ReservationsByPhone(ctx context.Context, phone string) ([]model.Reservation, error) {
	const q = `SELECT id, reservation_number, concert_id, customer_name, phone_number,
	                  password_hash, total_amount, status, created_at
	           FROM reservations
	           WHERE phone_number = ?
	           ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(
			&res.ID, &res.Number, &res.ConcertID, &res.CustomerName, &res.PhoneNumber,
			&res.PasswordHash, &res.TotalAmount, &res.Status, &res.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
