// Package repository implements persistence over MySQL.  It contains
// the transactional store used by the booking engines as well as the
// read-side repositories serving the browse endpoints.  Sentinel
// values defined here let handlers distinguish failure scenarios
// without inspecting driver errors.
package repository

import "errors"

// ErrConcertNotFound is returned when a concert lookup yields no rows.
// Handlers should translate this into an HTTP 404 response.
var ErrConcertNotFound = errors.New("concert not found")
