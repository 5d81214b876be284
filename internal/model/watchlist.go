package model

// Watchlist entry kinds. The watchlist table stores both of a user's movie
// lists; kind tells them apart.
const (
	ListWatchlist = "WATCHLIST"
	ListFavorite  = "FAVORITE"
)
