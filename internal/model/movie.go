package model

import "time"

// Movie represents a film that can be scheduled for screenings.
type Movie struct {
	ID         uint64    // movies.id
	Title      string    // movies.title
	Overview   string    // movies.overview
	RuntimeMin uint32    // movies.runtime_min
	PosterURL  string    // movies.poster_url
	CreatedAt  time.Time // movies.created_at
}
