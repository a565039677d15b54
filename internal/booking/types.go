package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/dayeon/concert-seat-reservation/internal/model"
)

// BookRequest carries the validated input for one booking attempt.
// The transport layer is responsible for syntactic validation (name
// length, phone format, 4-digit password) before constructing one.
type BookRequest struct {
	ConcertID    uuid.UUID
	SeatIDs      []uuid.UUID
	CustomerName string
	PhoneNumber  string
	Password     string
}

// CancelRequest identifies the reservation to cancel together with
// the owner credentials given at booking time.
type CancelRequest struct {
	Number      string
	PhoneNumber string
	Password    string
}

// SeatState is the locked snapshot of one seat read inside the
// booking transaction: its current status plus the grade price used
// to compute the reservation total.
type SeatState struct {
	ID     uuid.UUID
	Status model.SeatStatus
	Price  int
}

// ConcertSummary is the slice of concert information embedded in
// reservation responses.
type ConcertSummary struct {
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	VenueName string    `json:"venue_name"`
}

// SeatPlacement locates one reserved seat within the venue grid.
type SeatPlacement struct {
	Section string      `json:"section"`
	Row     int         `json:"row"`
	Column  int         `json:"column"`
	Grade   model.Grade `json:"grade"`
}

// ReservationDetail is the full reservation view returned to clients.
// It never includes the password hash.
type ReservationDetail struct {
	Number       string                  `json:"reservation_number"`
	CustomerName string                  `json:"customer_name"`
	PhoneNumber  string                  `json:"phone_number"`
	TotalAmount  int                     `json:"total_amount"`
	Status       model.ReservationStatus `json:"status"`
	CreatedAt    time.Time               `json:"created_at"`
	Concert      ConcertSummary          `json:"concert"`
	Seats        []SeatPlacement         `json:"seats"`
}
