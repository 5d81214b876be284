package model

import "time"

// Showtime is a scheduled screening of a movie at a specific theater, screen
// and start time, with its own price and capacity.
//
// AvailableSeats is a denormalized counter maintained alongside the showtime
// for fast availability checks. The invariant
// 0 <= AvailableSeats <= TotalSeats holds at all times; only the booking
// service mutates it.
type Showtime struct {
	ID             uint64    // showtimes.id
	MovieID        uint64    // showtimes.movie_id
	TheaterID      uint64    // showtimes.theater_id
	Screen         uint32    // showtimes.screen
	StartsAt       time.Time // showtimes.starts_at (UTC)
	PriceCents     uint32    // showtimes.price_cents
	TotalSeats     uint32    // showtimes.total_seats
	AvailableSeats uint32    // showtimes.available_seats
	CreatedAt      time.Time // showtimes.created_at
	UpdatedAt      time.Time // showtimes.updated_at
}
