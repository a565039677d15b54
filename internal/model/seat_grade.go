package model

import "github.com/google/uuid"

// SeatGrade defines the price and row range of one pricing tier at a
// venue.  Rows RowStart..RowEnd of every section carry this grade.
// SeatGrade rows are immutable reference data consulted when pricing
// seats at booking time.
//
// Fields:
//  ID       – primary key identifier.
//  VenueID  – venue this tier belongs to.
//  Name     – tier name (SPECIAL, PREMIUM, ADVANCED, REGULAR).
//  Price    – price per seat in whole currency units (KRW).
//  RowStart – first row of the tier (1-based, inclusive).
//  RowEnd   – last row of the tier (inclusive).
type SeatGrade struct {
	ID       uuid.UUID // seat_grades.id
	VenueID  uuid.UUID // seat_grades.venue_id
	Name     Grade     // seat_grades.name
	Price    int       // seat_grades.price
	RowStart int       // seat_grades.row_start
	RowEnd   int       // seat_grades.row_end
}
