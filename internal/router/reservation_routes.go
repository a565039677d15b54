package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dayeon/concert-seat-reservation/internal/handler"
)

// RegisterReservations registers the reservation endpoints under /api.
// The rate limiter guards the whole group: booking is the contended
// path and lookup exposes a credential oracle, so both are throttled
// per client IP.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, ratelimit echo.MiddlewareFunc) {
	g := e.Group("/api", ratelimit)
	g.POST("/reservations", h.Create)
	g.GET("/reservations/:number", h.Get)
	g.POST("/reservations/lookup", h.LookupByCredentials)
	g.DELETE("/reservations", h.Cancel)
}
