package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Sanket4712/moviebook/internal/model"
)

// ShowtimeRepo manages persistence for showtimes. It owns the denormalized
// available_seats counter; the guarded UPDATE statements in
// DecrementAvailableTx and IncrementAvailableTx keep the counter inside
// [0, total_seats] without read-modify-write races.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo {
	return &ShowtimeRepo{db: db}
}

const showtimeColumns = `id, movie_id, theater_id, screen, starts_at, price_cents,
	total_seats, available_seats, created_at, updated_at`

func scanShowtime(row interface{ Scan(...any) error }, s *model.Showtime) error {
	return row.Scan(&s.ID, &s.MovieID, &s.TheaterID, &s.Screen, &s.StartsAt,
		&s.PriceCents, &s.TotalSeats, &s.AvailableSeats, &s.CreatedAt, &s.UpdatedAt)
}

// Create inserts a new showtime and populates the generated ID. The caller
// supplies total_seats; available_seats starts equal to it.
func (r *ShowtimeRepo) Create(ctx context.Context, s *model.Showtime) error {
	const q = `INSERT INTO showtimes (movie_id, theater_id, screen, starts_at, price_cents, total_seats, available_seats)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		s.MovieID, s.TheaterID, s.Screen, s.StartsAt.UTC(), s.PriceCents, s.TotalSeats, s.TotalSeats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.AvailableSeats = s.TotalSeats
	return nil
}

// GetByID retrieves a showtime by ID. Returns ErrShowtimeNotFound when absent.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	const q = `SELECT ` + showtimeColumns + ` FROM showtimes WHERE id = ?`
	var s model.Showtime
	if err := scanShowtime(r.db.QueryRowContext(ctx, q, id), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByIDForUpdateTx loads a showtime with a row lock inside the given
// transaction. Booking and cancellation serialize on this lock so the
// availability check and the subsequent mutations form one atomic unit.
func (r *ShowtimeRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Showtime, error) {
	const q = `SELECT ` + showtimeColumns + ` FROM showtimes WHERE id = ? FOR UPDATE`
	var s model.Showtime
	if err := scanShowtime(tx.QueryRowContext(ctx, q, id), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &s, nil
}

// TheaterShowtimes groups a theater's showtimes for one movie.
type TheaterShowtimes struct {
	TheaterID   uint64           `json:"theater_id"`
	TheaterName string           `json:"theater_name"`
	Location    string           `json:"location"`
	City        string           `json:"city"`
	Showtimes   []ShowtimeDetail `json:"showtimes"`
}

// ShowtimeDetail is one showtime entry in a grouped listing.
type ShowtimeDetail struct {
	ID             uint64 `json:"id"`
	Screen         uint32 `json:"screen"`
	StartsAt       string `json:"starts_at"`
	PriceCents     uint32 `json:"price_cents"`
	TotalSeats     uint32 `json:"total_seats"`
	AvailableSeats uint32 `json:"available_seats"`
}

// ListForMovie returns showtimes for a movie starting at or after from,
// grouped by theater. Grouping key is the theater id; ordering is theater
// name, then start time. An optional theater filter narrows the result.
// An empty result is valid and returns an empty slice.
func (r *ShowtimeRepo) ListForMovie(ctx context.Context, movieID uint64, from time.Time, theaterID *uint64) ([]TheaterShowtimes, error) {
	q := `SELECT s.id, s.screen, s.starts_at, s.price_cents, s.total_seats, s.available_seats,
	             t.id, t.name, t.location, t.city
	      FROM showtimes s
	      JOIN theaters t ON t.id = s.theater_id
	      WHERE s.movie_id = ? AND s.starts_at >= ?`
	args := []any{movieID, from.UTC()}
	if theaterID != nil {
		q += ` AND s.theater_id = ?`
		args = append(args, *theaterID)
	}
	q += ` ORDER BY t.name, s.starts_at`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]TheaterShowtimes, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d ShowtimeDetail
		var startsAt time.Time
		var tID uint64
		var tName, tLoc, tCity string
		if err := rows.Scan(&d.ID, &d.Screen, &startsAt, &d.PriceCents, &d.TotalSeats, &d.AvailableSeats,
			&tID, &tName, &tLoc, &tCity); err != nil {
			return nil, err
		}
		d.StartsAt = startsAt.UTC().Format(time.RFC3339)
		idx, ok := index[tID]
		if !ok {
			idx = len(groups)
			index[tID] = idx
			groups = append(groups, TheaterShowtimes{
				TheaterID:   tID,
				TheaterName: tName,
				Location:    tLoc,
				City:        tCity,
				Showtimes:   []ShowtimeDetail{},
			})
		}
		groups[idx].Showtimes = append(groups[idx].Showtimes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

// DecrementAvailableTx subtracts count from available_seats within tx. The
// WHERE guard refuses to drive the counter negative; in that case the update
// affects no rows and ErrConflict is returned so the booking attempt fails.
func (r *ShowtimeRepo) DecrementAvailableTx(ctx context.Context, tx *sql.Tx, id uint64, count uint32) error {
	const q = `UPDATE showtimes
	           SET available_seats = available_seats - ?
	           WHERE id = ? AND available_seats >= ?`
	res, err := tx.ExecContext(ctx, q, count, id, count)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// IncrementAvailableTx adds count back to available_seats within tx, guarded
// so the counter never exceeds total_seats.
func (r *ShowtimeRepo) IncrementAvailableTx(ctx context.Context, tx *sql.Tx, id uint64, count uint32) error {
	const q = `UPDATE showtimes
	           SET available_seats = available_seats + ?
	           WHERE id = ? AND available_seats + ? <= total_seats`
	res, err := tx.ExecContext(ctx, q, count, id, count)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// UpdatePrice changes a showtime's ticket price. Existing bookings keep their
// frozen totals; only future bookings see the new price.
func (r *ShowtimeRepo) UpdatePrice(ctx context.Context, id uint64, priceCents uint32) error {
	const q = `UPDATE showtimes SET price_cents = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, priceCents, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShowtimeNotFound
	}
	return nil
}

// DeleteByID removes a showtime and its seat grid inside a transaction. The
// deletion is refused with ErrConflict while any bookings reference the
// showtime, cancelled ones included, since the ledger is retained for audit.
func (r *ShowtimeRepo) DeleteByID(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM showtimes WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrShowtimeNotFound
		}
		return err
	}
	var bookings int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE showtime_id = ?`, id).Scan(&bookings); err != nil {
		return err
	}
	if bookings > 0 {
		err = ErrConflict
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM seats WHERE showtime_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM showtimes WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}
