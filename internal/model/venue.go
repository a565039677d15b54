package model

import "github.com/google/uuid"

// Venue describes a concert hall and the geometry of its seat map.
// Venues are immutable reference data; the seat map is a grid of
// SectionCount sections, each RowsPerSection rows deep and
// ColumnsPerSection seats wide.
//
// Fields:
//  ID                – primary key identifier.
//  Name              – display name of the venue.
//  Address           – street address.
//  SectionCount      – number of sections (A, B, C, ...).
//  RowsPerSection    – rows within each section.
//  ColumnsPerSection – seats within each row.
type Venue struct {
	ID                uuid.UUID // venues.id
	Name              string    // venues.name
	Address           string    // venues.address
	SectionCount      int       // venues.section_count
	RowsPerSection    int       // venues.rows_per_section
	ColumnsPerSection int       // venues.columns_per_section
}
