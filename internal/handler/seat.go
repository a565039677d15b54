package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dayeon/concert-seat-reservation/internal/repository"
)

// Seat browse error code.
const codeSeatFetchError = "SEAT_FETCH_ERROR"

// SeatHandler serves the public seat map endpoint.
type SeatHandler struct {
	SeatRepo    *repository.SeatRepo
	ConcertRepo *repository.ConcertRepo
}

// NewSeatHandler constructs a SeatHandler.
func NewSeatHandler(seatRepo *repository.SeatRepo, concertRepo *repository.ConcertRepo) *SeatHandler {
	if seatRepo == nil || concertRepo == nil {
		panic("nil repository passed to NewSeatHandler")
	}
	return &SeatHandler{SeatRepo: seatRepo, ConcertRepo: concertRepo}
}

// ListByConcert handles GET /api/concerts/:id/seats.  It returns the
// full seat map with per-seat prices so clients can render selection
// without a second request.  An unknown concert yields 404 rather
// than an empty map.
func (h *SeatHandler) ListByConcert(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, codeInvalidParams, "invalid concert ID format")
	}
	ctx := c.Request().Context()
	if _, err := h.ConcertRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrConcertNotFound) {
			return fail(c, http.StatusNotFound, codeConcertNotFound, "concert not found")
		}
		log.Printf("seat: concert check failed: %v", err)
		return fail(c, http.StatusInternalServerError, codeSeatFetchError, "failed to load seats")
	}
	seats, err := h.SeatRepo.ListByConcert(ctx, id)
	if err != nil {
		log.Printf("seat: list failed: %v", err)
		return fail(c, http.StatusInternalServerError, codeSeatFetchError, "failed to load seats")
	}
	return c.JSON(http.StatusOK, echo.Map{"seats": seats})
}
