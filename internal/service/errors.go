package service

import (
	"fmt"
	"strings"

	"github.com/Sanket4712/moviebook/internal/repository"
)

// ValidationError reports malformed booking input: an empty seat list,
// labels that do not parse, or labels outside the showtime's grid. Handlers
// translate it to a 400 response.
type ValidationError struct {
	Msg    string
	Labels []string // offending labels, if any
}

func (e *ValidationError) Error() string {
	if len(e.Labels) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Msg, strings.Join(e.Labels, ","))
}

// SeatsUnavailableError reports which requested seats are already booked.
// It unwraps to repository.ErrConflict so existing errors.Is checks map it
// to a 409 response.
type SeatsUnavailableError struct {
	Seats []string
}

func (e *SeatsUnavailableError) Error() string {
	return fmt.Sprintf("seats already taken: %s", strings.Join(e.Seats, ","))
}

func (e *SeatsUnavailableError) Unwrap() error { return repository.ErrConflict }

// ErrNotEnoughSeats is returned when a booking requests more seats than the
// showtime has available.
var ErrNotEnoughSeats = fmt.Errorf("not enough seats: %w", repository.ErrConflict)

// ErrAlreadyCancelled is returned when cancelling a booking that is already
// cancelled. The operation has no effect and is reported as a conflict rather
// than silently succeeding.
var ErrAlreadyCancelled = fmt.Errorf("booking already cancelled: %w", repository.ErrConflict)
