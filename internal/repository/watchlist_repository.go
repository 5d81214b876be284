package repository

import (
	"context"
	"database/sql"

	"github.com/Sanket4712/moviebook/internal/model"
)

// WatchlistRepo persists per-user movie lists (watchlist and favorites).
type WatchlistRepo struct {
	db *sql.DB
}

// NewWatchlistRepo constructs a WatchlistRepo with the given DB handle.
func NewWatchlistRepo(db *sql.DB) *WatchlistRepo {
	return &WatchlistRepo{db: db}
}

// Add puts a movie on a user's list. Adding a movie that is already on the
// list is a no-op, not an error.
func (r *WatchlistRepo) Add(ctx context.Context, userID, movieID uint64, kind string) error {
	const q = `INSERT INTO watchlist (user_id, movie_id, kind) VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE id = id`
	_, err := r.db.ExecContext(ctx, q, userID, movieID, kind)
	return err
}

// Remove takes a movie off a user's list. Returns ErrMovieNotFound when the
// movie was not on the list.
func (r *WatchlistRepo) Remove(ctx context.Context, userID, movieID uint64, kind string) error {
	const q = `DELETE FROM watchlist WHERE user_id = ? AND movie_id = ? AND kind = ?`
	res, err := r.db.ExecContext(ctx, q, userID, movieID, kind)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// ListMovies returns the movies on a user's list of the given kind, most
// recently added first.
func (r *WatchlistRepo) ListMovies(ctx context.Context, userID uint64, kind string) ([]model.Movie, error) {
	const q = `SELECT m.id, m.title, m.overview, m.runtime_min, m.poster_url, m.created_at
	           FROM watchlist w
	           JOIN movies m ON m.id = w.movie_id
	           WHERE w.user_id = ? AND w.kind = ?
	           ORDER BY w.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Overview, &m.RuntimeMin, &m.PosterURL, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
