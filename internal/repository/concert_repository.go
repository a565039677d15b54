package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dayeon/concert-seat-reservation/internal/model"
)

// ConcertSummary is one row of the concert list: the concert plus its
// venue name and reservation progress.
type ConcertSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Date          time.Time `json:"date"`
	PosterURL     *string   `json:"poster_url"`
	VenueName     string    `json:"venue_name"`
	ReservedCount int       `json:"reserved_count"`
	TotalSeats    int       `json:"total_seats"`
}

// GradeAvailability reports the price, row range and reservation
// progress of one pricing tier of a concert.
type GradeAvailability struct {
	Name          model.Grade `json:"name"`
	Price         int         `json:"price"`
	RowStart      int         `json:"row_start"`
	RowEnd        int         `json:"row_end"`
	TotalSeats    int         `json:"total_seats"`
	ReservedCount int         `json:"reserved_count"`
}

// ConcertDetail is the full concert view with venue layout and
// per-grade availability.
type ConcertDetail struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Date        time.Time           `json:"date"`
	Description *string             `json:"description"`
	PosterURL   *string             `json:"poster_url"`
	Venue       VenueInfo           `json:"venue"`
	SeatGrades  []GradeAvailability `json:"seat_grades"`
}

// VenueInfo is the venue slice embedded in a concert detail.
type VenueInfo struct {
	Name              string `json:"name"`
	Address           string `json:"address"`
	SectionCount      int    `json:"section_count"`
	RowsPerSection    int    `json:"rows_per_section"`
	ColumnsPerSection int    `json:"columns_per_section"`
}

// ConcertRepo provides read access to concerts, venues and grade
// availability.  All queries are plain reads; no locking.
type ConcertRepo struct {
	db *sql.DB
}

// NewConcertRepo constructs a ConcertRepo with the given DB handle.
func NewConcertRepo(db *sql.DB) *ConcertRepo { return &ConcertRepo{db: db} }

// ListAll returns all concerts ordered by date ascending, each with
// its seat totals aggregated in the same query.
func (r *ConcertRepo) ListAll(ctx context.Context) ([]ConcertSummary, error) {
	const q = `SELECT c.id, c.name, c.date, c.poster_url, v.name,
	                  COUNT(s.id),
	                  COALESCE(SUM(s.status = 'RESERVED'), 0)
	           FROM concerts c
	           JOIN venues v ON v.id = c.venue_id
	           LEFT JOIN seats s ON s.concert_id = c.id
	           GROUP BY c.id, c.name, c.date, c.poster_url, v.name
	           ORDER BY c.date ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ConcertSummary, 0)
	for rows.Next() {
		var cs ConcertSummary
		var poster sql.NullString
		if err := rows.Scan(&cs.ID, &cs.Name, &cs.Date, &poster, &cs.VenueName, &cs.TotalSeats, &cs.ReservedCount); err != nil {
			return nil, err
		}
		if poster.Valid {
			p := poster.String
			cs.PosterURL = &p
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns the concert row alone, or ErrConcertNotFound.  Used
// by the seat handler to distinguish an unknown concert from a concert
// with no seats.
func (r *ConcertRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Concert, error) {
	const q = `SELECT id, venue_id, name, date, description, poster_url
	           FROM concerts WHERE id = ?`
	var (
		con          model.Concert
		desc, poster sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&con.ID, &con.VenueID, &con.Name, &con.Date, &desc, &poster)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConcertNotFound
		}
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		con.Description = &d
	}
	if poster.Valid {
		p := poster.String
		con.PosterURL = &p
	}
	return &con, nil
}

// GetDetail assembles the full concert view: venue layout plus one
// GradeAvailability per tier ordered by price descending.
func (r *ConcertRepo) GetDetail(ctx context.Context, id uuid.UUID) (*ConcertDetail, error) {
	const q = `SELECT c.id, c.name, c.date, c.description, c.poster_url,
	                  v.id, v.name, v.address, v.section_count, v.rows_per_section, v.columns_per_section
	           FROM concerts c
	           JOIN venues v ON v.id = c.venue_id
	           WHERE c.id = ?`
	var (
		det          ConcertDetail
		venueID      uuid.UUID
		desc, poster sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&det.ID, &det.Name, &det.Date, &desc, &poster,
		&venueID, &det.Venue.Name, &det.Venue.Address,
		&det.Venue.SectionCount, &det.Venue.RowsPerSection, &det.Venue.ColumnsPerSection,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConcertNotFound
		}
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		det.Description = &d
	}
	if poster.Valid {
		p := poster.String
		det.PosterURL = &p
	}
	const gradeQ = `SELECT g.name, g.price, g.row_start, g.row_end,
	                       COUNT(s.id),
	                       COALESCE(SUM(s.status = 'RESERVED'), 0)
	                FROM seat_grades g
	                LEFT JOIN seats s ON s.concert_id = ? AND s.grade = g.name
	                WHERE g.venue_id = ?
	                GROUP BY g.name, g.price, g.row_start, g.row_end
	                ORDER BY g.price DESC`
	rows, err := r.db.QueryContext(ctx, gradeQ, det.ID, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	det.SeatGrades = make([]GradeAvailability, 0, 4)
	for rows.Next() {
		var g GradeAvailability
		if err := rows.Scan(&g.Name, &g.Price, &g.RowStart, &g.RowEnd, &g.TotalSeats, &g.ReservedCount); err != nil {
			return nil, err
		}
		det.SeatGrades = append(det.SeatGrades, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}
