package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dayeon/concert-seat-reservation/internal/repository"
)

// Concert browse error codes.
const (
	codeConcertFetchError = "CONCERT_FETCH_ERROR"
	codeConcertNotFound   = "CONCERT_NOT_FOUND"
)

// ConcertHandler serves the public concert browse endpoints.
type ConcertHandler struct {
	ConcertRepo *repository.ConcertRepo
}

// NewConcertHandler constructs a ConcertHandler.
func NewConcertHandler(concertRepo *repository.ConcertRepo) *ConcertHandler {
	if concertRepo == nil {
		panic("nil repository passed to NewConcertHandler")
	}
	return &ConcertHandler{ConcertRepo: concertRepo}
}

// List handles GET /api/concerts.  Concerts are ordered by date with
// venue name and reservation progress per concert.
func (h *ConcertHandler) List(c echo.Context) error {
	concerts, err := h.ConcertRepo.ListAll(c.Request().Context())
	if err != nil {
		log.Printf("concert: list failed: %v", err)
		return fail(c, http.StatusInternalServerError, codeConcertFetchError, "failed to load concerts")
	}
	return c.JSON(http.StatusOK, echo.Map{"concerts": concerts})
}

// Get handles GET /api/concerts/:id.  The detail includes the venue
// layout and per-grade pricing and availability.
func (h *ConcertHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, codeInvalidParams, "invalid concert ID format")
	}
	detail, err := h.ConcertRepo.GetDetail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrConcertNotFound) {
			return fail(c, http.StatusNotFound, codeConcertNotFound, "concert not found")
		}
		log.Printf("concert: get failed: %v", err)
		return fail(c, http.StatusInternalServerError, codeConcertFetchError, "failed to load concert")
	}
	return c.JSON(http.StatusOK, echo.Map{"concert": detail})
}
