// Package handler exposes the HTTP surface of the service.  Handlers
// validate input, call the booking core and translate its failure
// kinds into status codes: 400 invalid input, 404 not found, 401 bad
// credentials, 409 contention or state conflicts, 500 otherwise.
package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dayeon/concert-seat-reservation/internal/booking"
	"github.com/dayeon/concert-seat-reservation/internal/queue"
	"github.com/dayeon/concert-seat-reservation/internal/service"
)

// Error codes returned in response bodies.  Clients key their
// messaging off these, so they are part of the API contract.
const (
	codeInvalidParams      = "RESERVATION_INVALID_PARAMS"
	codeSeatUnavailable    = "SEAT_UNAVAILABLE"
	codeCreateError        = "RESERVATION_CREATE_ERROR"
	codeFetchError         = "RESERVATION_FETCH_ERROR"
	codeNotFound           = "RESERVATION_NOT_FOUND"
	codeInvalidCredentials = "RESERVATION_INVALID_CREDENTIALS"
	codeCancelNotAllowed   = "RESERVATION_CANCEL_NOT_ALLOWED"
	codeCancelError        = "RESERVATION_CANCEL_ERROR"
)

var (
	phonePattern    = regexp.MustCompile(`^01\d{8,9}$`)
	passwordPattern = regexp.MustCompile(`^\d{4}$`)
)

// fail writes the uniform error body.
func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, echo.Map{"error": code, "message": message})
}

// ReservationHandler wires the booking core to HTTP.
type ReservationHandler struct {
	Engine *booking.Engine
	Lookup *booking.Lookup
}

// NewReservationHandler constructs a ReservationHandler.  Both
// dependencies must be non-nil.
func NewReservationHandler(engine *booking.Engine, lookup *booking.Lookup) *ReservationHandler {
	if engine == nil || lookup == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: engine, Lookup: lookup}
}

type createReservationRequest struct {
	ConcertID    string   `json:"concert_id"`
	SeatIDs      []string `json:"seat_ids"`
	CustomerName string   `json:"customer_name"`
	PhoneNumber  string   `json:"phone_number"`
	Password     string   `json:"password"`
}

// validate checks the request syntactically and converts IDs.  It
// mirrors the constraints enforced by the booking form: name 2-20
// characters, Korean mobile number, numeric 4-digit password, at
// least one seat.
func (req *createReservationRequest) validate() (booking.BookRequest, string) {
	concertID, err := uuid.Parse(req.ConcertID)
	if err != nil {
		return booking.BookRequest{}, "concert_id must be a UUID"
	}
	if len(req.SeatIDs) == 0 {
		return booking.BookRequest{}, "at least one seat must be selected"
	}
	seatIDs := make([]uuid.UUID, 0, len(req.SeatIDs))
	for _, s := range req.SeatIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			return booking.BookRequest{}, "seat_ids must be UUIDs"
		}
		seatIDs = append(seatIDs, id)
	}
	if n := utf8.RuneCountInString(req.CustomerName); n < 2 || n > 20 {
		return booking.BookRequest{}, "customer_name must be 2-20 characters"
	}
	if !phonePattern.MatchString(req.PhoneNumber) {
		return booking.BookRequest{}, "phone_number must match 01X followed by 8-9 digits"
	}
	if !passwordPattern.MatchString(req.Password) {
		return booking.BookRequest{}, "password must be exactly 4 digits"
	}
	return booking.BookRequest{
		ConcertID:    concertID,
		SeatIDs:      seatIDs,
		CustomerName: req.CustomerName,
		PhoneNumber:  req.PhoneNumber,
		Password:     req.Password,
	}, ""
}

// Create handles POST /api/reservations.  On success it returns 201
// with the full reservation detail; when any requested seat is taken
// it returns 409 and guarantees no seat was reserved.
func (h *ReservationHandler) Create(c echo.Context) error {
	var body createReservationRequest
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, codeInvalidParams, "invalid request body")
	}
	req, msg := body.validate()
	if msg != "" {
		return fail(c, http.StatusBadRequest, codeInvalidParams, msg)
	}
	ctx := c.Request().Context()
	res, err := h.Engine.Book(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSeatUnavailable):
			return fail(c, http.StatusConflict, codeSeatUnavailable, "one or more selected seats are already reserved")
		case errors.Is(err, booking.ErrInvalidParams):
			return fail(c, http.StatusBadRequest, codeInvalidParams, "invalid reservation request")
		default:
			log.Printf("reservation: create failed: %v", err)
			return fail(c, http.StatusInternalServerError, codeCreateError, "failed to create reservation")
		}
	}
	detail, err := h.Lookup.ByNumber(ctx, res.Number)
	if err != nil {
		log.Printf("reservation: fetch after create failed: %v", err)
		return fail(c, http.StatusInternalServerError, codeFetchError, "failed to load reservation")
	}
	publishConfirmed(detail)
	return c.JSON(http.StatusCreated, detail)
}

// Get handles GET /api/reservations/:number.  Only CONFIRMED
// reservations are reachable on this path.
func (h *ReservationHandler) Get(c echo.Context) error {
	number := c.Param("number")
	if number == "" {
		return fail(c, http.StatusBadRequest, codeInvalidParams, "reservation number is required")
	}
	detail, err := h.Lookup.ByNumber(c.Request().Context(), number)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return fail(c, http.StatusNotFound, codeNotFound, "reservation not found")
		}
		log.Printf("reservation: get failed: %v", err)
		return fail(c, http.StatusInternalServerError, codeFetchError, "failed to load reservation")
	}
	return c.JSON(http.StatusOK, detail)
}

type lookupRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// LookupByCredentials handles POST /api/reservations/lookup.  It
// returns every reservation matching the phone number and password,
// newest first; zero matches yield 404 so a wrong password leaks
// nothing.
func (h *ReservationHandler) LookupByCredentials(c echo.Context) error {
	var body lookupRequest
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, codeInvalidParams, "invalid request body")
	}
	if !phonePattern.MatchString(body.PhoneNumber) || !passwordPattern.MatchString(body.Password) {
		return fail(c, http.StatusBadRequest, codeInvalidParams, "invalid phone number or password format")
	}
	details, err := h.Lookup.ByCredentials(c.Request().Context(), body.PhoneNumber, body.Password)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return fail(c, http.StatusNotFound, codeNotFound, "no matching reservations")
		}
		log.Printf("reservation: lookup failed: %v", err)
		return fail(c, http.StatusInternalServerError, codeFetchError, "failed to look up reservations")
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": details})
}

type cancelRequest struct {
	Number      string `json:"reservation_number"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// Cancel handles DELETE /api/reservations.  Cancellation releases the
// reservation's seats atomically; a reservation that is already
// canceled fails with 409 and does not touch seat state again.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	var body cancelRequest
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, codeInvalidParams, "invalid request body")
	}
	if body.Number == "" {
		return fail(c, http.StatusBadRequest, codeInvalidParams, "reservation number is required")
	}
	if !phonePattern.MatchString(body.PhoneNumber) || !passwordPattern.MatchString(body.Password) {
		return fail(c, http.StatusBadRequest, codeInvalidParams, "invalid phone number or password format")
	}
	err := h.Engine.Cancel(c.Request().Context(), booking.CancelRequest{
		Number:      body.Number,
		PhoneNumber: body.PhoneNumber,
		Password:    body.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			return fail(c, http.StatusNotFound, codeNotFound, "reservation not found")
		case errors.Is(err, booking.ErrInvalidCredentials):
			return fail(c, http.StatusUnauthorized, codeInvalidCredentials, "phone number or password does not match")
		case errors.Is(err, booking.ErrInvalidStatus):
			return fail(c, http.StatusConflict, codeCancelNotAllowed, "reservation is already canceled")
		default:
			log.Printf("reservation: cancel failed: %v", err)
			return fail(c, http.StatusInternalServerError, codeCancelError, "failed to cancel reservation")
		}
	}
	publishCanceled(body.Number, body.PhoneNumber)
	return c.JSON(http.StatusOK, echo.Map{
		"reservation_number": body.Number,
		"status":             "CANCELED",
	})
}

// publishConfirmed emits the reservation.confirmed event off the
// request path.  Broker failures are logged inside the publisher and
// never affect the HTTP response.
func publishConfirmed(detail *booking.ReservationDetail) {
	seats := make([]string, 0, len(detail.Seats))
	for _, s := range detail.Seats {
		seats = append(seats, queue.SeatLabel(s.Section, s.Row, s.Column))
	}
	event := queue.ReservationConfirmedEvent{
		ReservationNumber: detail.Number,
		CustomerName:      detail.CustomerName,
		ConcertName:       detail.Concert.Name,
		VenueName:         detail.Concert.VenueName,
		ConcertDate:       detail.Concert.Date.UTC().Format(time.RFC3339),
		Seats:             seats,
		TotalAmount:       detail.TotalAmount,
		ConfirmedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = service.PublishReservationConfirmed(ctx, event)
	}()
}

// publishCanceled emits the reservation.canceled event off the
// request path.
func publishCanceled(number, phone string) {
	event := queue.ReservationCanceledEvent{
		ReservationNumber: number,
		PhoneNumber:       phone,
		CanceledAt:        time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = service.PublishReservationCanceled(ctx, event)
	}()
}
