package model

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus enumerates the lifecycle states of a reservation.
// A reservation is created CONFIRMED and may only move to CANCELED;
// rows are never deleted so the ledger keeps a full audit trail.
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCanceled  ReservationStatus = "CANCELED"
)

// Reservation records a customer's booking of one or more seats for a
// concert.  The customer is identified by phone number plus a bcrypt
// hash of their 4-digit password; the raw password is never stored.
//
// Fields:
//  ID           – primary key identifier.
//  Number       – unique human-readable reservation number.
//  ConcertID    – concert being booked.
//  CustomerName – name given at booking time.
//  PhoneNumber  – customer phone number (01X...).
//  PasswordHash – bcrypt hash of the lookup/cancel password.
//  TotalAmount  – sum of the grade prices of all owned seats at
//                 booking time, in whole currency units.
//  Status       – CONFIRMED or CANCELED.
//  CreatedAt    – creation timestamp (UTC).
type Reservation struct {
	ID           uuid.UUID         // reservations.id
	Number       string            // reservations.reservation_number
	ConcertID    uuid.UUID         // reservations.concert_id
	CustomerName string            // reservations.customer_name
	PhoneNumber  string            // reservations.phone_number
	PasswordHash string            // reservations.password_hash
	TotalAmount  int               // reservations.total_amount
	Status       ReservationStatus // reservations.status
	CreatedAt    time.Time         // reservations.created_at
}
