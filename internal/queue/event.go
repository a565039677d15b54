// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

import "fmt"

// EventsQueueName is the durable queue carrying reservation lifecycle
// events.
const EventsQueueName = "reservation.events"

// Envelope types.
const (
	TypeReservationConfirmed = "reservation.confirmed"
	TypeReservationCanceled  = "reservation.canceled"
)

// ReservationConfirmedEvent is published when a booking commits.  It
// carries enough information for downstream consumers to log, notify,
// or feed analytics without querying the primary database.  It never
// contains the password hash.
type ReservationConfirmedEvent struct {
	ReservationNumber string   `json:"reservation_number"`
	CustomerName      string   `json:"customer_name"`
	ConcertName       string   `json:"concert_name"`
	VenueName         string   `json:"venue_name"`
	ConcertDate       string   `json:"concert_date"`
	Seats             []string `json:"seats"`
	TotalAmount       int      `json:"total_amount"`
	ConfirmedAt       string   `json:"confirmed_at"`
}

// ReservationCanceledEvent is published when a cancellation commits.
type ReservationCanceledEvent struct {
	ReservationNumber string `json:"reservation_number"`
	PhoneNumber       string `json:"phone_number"`
	CanceledAt        string `json:"canceled_at"`
}

// Envelope wraps one event with its type so both lifecycle events can
// share the reservation.events queue.
type Envelope struct {
	Type      string                     `json:"type"`
	Confirmed *ReservationConfirmedEvent `json:"confirmed,omitempty"`
	Canceled  *ReservationCanceledEvent  `json:"canceled,omitempty"`
}

// SeatLabel renders a seat position like "A3-12" (section A, row 3,
// seat 12) for event payloads and log lines.
func SeatLabel(section string, row, column int) string {
	return fmt.Sprintf("%s%d-%d", section, row, column)
}
