package model

import "time"

// Booking status values. A booking is created CONFIRMED and may only move to
// CANCELLED; both states are terminal otherwise. Rejected attempts never
// produce a row.
const (
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// Booking is one ledger entry: a user's confirmed purchase of a seat set for
// a showtime. Rows are never deleted; cancellation is a status update.
//
// SeatLabels and TotalCents are frozen at booking time. Changing a showtime's
// price later does not alter an existing booking's total.
type Booking struct {
	ID         uint64    // bookings.id
	Code       string    // bookings.code, globally unique, shown to the customer
	UserID     uint64    // bookings.user_id
	ShowtimeID uint64    // bookings.showtime_id
	Status     string    // bookings.status
	SeatLabels []string  // bookings.seat_labels (comma-joined in the DB)
	SeatCount  uint32    // bookings.seat_count
	TotalCents uint32    // bookings.total_cents
	CreatedAt  time.Time // bookings.created_at
	UpdatedAt  time.Time // bookings.updated_at
}
