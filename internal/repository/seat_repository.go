package repository // repository defines data access for seats

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dayeon/concert-seat-reservation/internal/model"
)

// SeatView is one seat of a concert's seat map with its grade price
// resolved from seat_grades.
type SeatView struct {
	ID      uuid.UUID        `json:"id"`
	Section string           `json:"section"`
	Row     int              `json:"row"`
	Column  int              `json:"column"`
	Grade   model.Grade      `json:"grade"`
	Status  model.SeatStatus `json:"status"`
	Price   int              `json:"price"`
}

// SeatRepo provides read access to a concert's seat inventory.  Seat
// status is only ever written by the booking store inside its
// transactions; this repository deliberately exposes no mutators.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// ListByConcert retrieves the full seat map of a concert ordered by
// section, row and column, with each seat priced by its grade.
func (r *SeatRepo) ListByConcert(ctx context.Context, concertID uuid.UUID) ([]SeatView, error) {
	const q = `SELECT s.id, s.section, s.row_no, s.col_no, s.grade, s.status, g.price
	           FROM seats s
	           JOIN concerts c ON c.id = s.concert_id
	           JOIN seat_grades g ON g.venue_id = c.venue_id AND g.name = s.grade
	           WHERE s.concert_id = ?
	           ORDER BY s.section, s.row_no, s.col_no`
	rows, err := r.db.QueryContext(ctx, q, concertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]SeatView, 0)
	for rows.Next() {
		var sv SeatView
		if err := rows.Scan(&sv.ID, &sv.Section, &sv.Row, &sv.Column, &sv.Grade, &sv.Status, &sv.Price); err != nil {
			return nil, err
		}
		seats = append(seats, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}
