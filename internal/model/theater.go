package model

import "time"

// Theater is a venue with one or more screens where showtimes are scheduled.
type Theater struct {
	ID        uint64    // theaters.id
	Name      string    // theaters.name
	Location  string    // theaters.location
	City      string    // theaters.city
	Screens   uint32    // theaters.screens
	CreatedAt time.Time // theaters.created_at
}
