// Package repository defines error values reused across repositories. These
// sentinels let handlers and the booking service distinguish failure
// scenarios: ErrForbidden maps to 403, ErrConflict to 409, the *NotFound
// values to 404. Anything else is treated as a storage failure (500).
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed due to existing
// state, such as deleting a showtime that still has bookings or cancelling an
// already-cancelled booking.
var ErrConflict = errors.New("conflict")

// ErrMovieNotFound indicates that a movie lookup yielded no rows.
var ErrMovieNotFound = errors.New("movie not found")

// ErrTheaterNotFound indicates that a theater lookup yielded no rows.
var ErrTheaterNotFound = errors.New("theater not found")

// ErrShowtimeNotFound indicates that a showtime lookup yielded no rows.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrBookingNotFound indicates that a booking lookup yielded no rows.
var ErrBookingNotFound = errors.New("booking not found")

// ErrUserNotFound indicates that a user lookup yielded no rows.
var ErrUserNotFound = errors.New("user not found")

// ErrSeatTaken is returned when inserting a seat claim collides with an
// existing claim for the same (showtime, seat). The unique key on
// booking_seats makes this the authoritative double-booking guard.
var ErrSeatTaken = errors.New("seat already taken")

// ErrCodeTaken is returned when a generated booking code collides with an
// existing one. Callers regenerate and retry.
var ErrCodeTaken = errors.New("booking code already exists")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error (1062).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
