package model

import "fmt"

// Seat is one position in a showtime's seat grid, identified by row letter
// and seat number (e.g. A1). Seats carry no booked flag: whether a seat is
// taken is derived from active claims in booking_seats, which keeps a single
// source of truth for availability.
type Seat struct {
	ID         uint64 // seats.id
	ShowtimeID uint64 // seats.showtime_id
	RowLabel   string // seats.row_label
	SeatNumber uint32 // seats.seat_number
}

// Label returns the customer-facing seat identifier, e.g. "A1".
func (s Seat) Label() string {
	return fmt.Sprintf("%s%d", s.RowLabel, s.SeatNumber)
}
