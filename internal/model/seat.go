package model

import "github.com/google/uuid"

// SeatStatus enumerates the occupancy states of a seat.  A seat only
// moves AVAILABLE -> RESERVED (booking) and RESERVED -> AVAILABLE
// (cancellation); both transitions happen exclusively inside the
// booking and cancellation transactions.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatReserved  SeatStatus = "RESERVED"
)

// Grade names the four ranked pricing tiers.  Prices per grade are
// defined per venue in seat_grades.
type Grade string

const (
	GradeSpecial  Grade = "SPECIAL"
	GradePremium  Grade = "PREMIUM"
	GradeAdvanced Grade = "ADVANCED"
	GradeRegular  Grade = "REGULAR"
)

// Seat is one physical seat for one concert, identified by its
// (section, row, column) position in the venue grid.
//
// Fields:
//  ID        – primary key identifier.
//  ConcertID – concert this seat belongs to.
//  Section   – section letter (A, B, C, D).
//  Row       – 1-based row within the section.
//  Column    – 1-based seat within the row.
//  Grade     – pricing tier of this seat.
//  Status    – AVAILABLE or RESERVED.
type Seat struct {
	ID        uuid.UUID  // seats.id
	ConcertID uuid.UUID  // seats.concert_id
	Section   string     // seats.section
	Row       int        // seats.row_no
	Column    int        // seats.col_no
	Grade     Grade      // seats.grade
	Status    SeatStatus // seats.status
}
