package model

import (
	"time"

	"github.com/google/uuid"
)

// Concert is a single performance held at a venue.  Every concert
// carries its own seat inventory; two concerts at the same venue do
// not share seats.
//
// Fields:
//  ID          – primary key identifier.
//  VenueID     – venue where the concert takes place.
//  Name        – concert title.
//  Date        – performance date and time (UTC).
//  Description – optional marketing copy.
//  PosterURL   – optional poster image URL.
type Concert struct {
	ID          uuid.UUID // concerts.id
	VenueID     uuid.UUID // concerts.venue_id
	Name        string    // concerts.name
	Date        time.Time // concerts.date
	Description *string   // concerts.description (nullable)
	PosterURL   *string   // concerts.poster_url (nullable)
}
