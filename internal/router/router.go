// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dayeon/concert-seat-reservation/internal/handler"
)

// RegisterRoutes registers routes that carry no middleware.  At the
// moment it only exposes a health check endpoint for load balancers
// and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBrowse registers the public browse endpoints under /api.
// The cache middleware is applied here so concert lists and seat maps
// are served from redis when hot; reservation endpoints never pass
// through it.
func RegisterBrowse(e *echo.Echo, concerts *handler.ConcertHandler, seats *handler.SeatHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/api", cache)
	g.GET("/concerts", concerts.List)
	g.GET("/concerts/:id", concerts.Get)
	g.GET("/concerts/:id/seats", seats.ListByConcert)
}
