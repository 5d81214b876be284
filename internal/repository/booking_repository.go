package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Sanket4712/moviebook/internal/model"
)

// BookingRepo is the booking ledger: an append-mostly log of bookings keyed
// by id and by globally unique code. Rows are never deleted; cancellation is
// a status update so history survives for audit and reporting.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// CreateTx appends a booking row within tx and populates the generated ID.
// The only unique key on bookings is the code, so a duplicate-key error is
// reported as ErrCodeTaken and the caller regenerates the code and retries.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (code, user_id, showtime_id, status, seat_labels, seat_count, total_cents)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.Code, b.UserID, b.ShowtimeID, b.Status,
		strings.Join(b.SeatLabels, ","), b.SeatCount, b.TotalCents)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrCodeTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	var labels string
	err := row.Scan(&b.ID, &b.Code, &b.UserID, &b.ShowtimeID, &b.Status,
		&labels, &b.SeatCount, &b.TotalCents, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if labels != "" {
		b.SeatLabels = strings.Split(labels, ",")
	}
	return &b, nil
}

const bookingColumns = `id, code, user_id, showtime_id, status, seat_labels,
	seat_count, total_cents, created_at, updated_at`

// GetByID retrieves a booking by ID. Returns ErrBookingNotFound when absent.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetByCode retrieves a booking by its code for confirmation display.
func (r *BookingRepo) GetByCode(ctx context.Context, code string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE code = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetByIDForUpdateTx loads a booking with a row lock so cancellation cannot
// race with itself. Returns ErrBookingNotFound when absent.
func (r *BookingRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
	b, err := scanBooking(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// SetStatusTx updates a booking's status within tx.
func (r *BookingRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	const q = `UPDATE bookings SET status = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// BookingDetail is a booking enriched with movie and theater information for
// history listings and confirmation screens.
type BookingDetail struct {
	ID         uint64   `json:"id"`
	Code       string   `json:"code"`
	Status     string   `json:"status"`
	Seats      []string `json:"seats"`
	TotalCents uint32   `json:"total_cents"`
	ShowtimeID uint64   `json:"showtime_id"`
	StartsAt   string   `json:"starts_at"`
	Screen     uint32   `json:"screen"`
	MovieTitle string   `json:"movie_title"`
	Theater    string   `json:"theater"`
	City       string   `json:"city"`
	CreatedAt  string   `json:"created_at"`
}

const bookingDetailQuery = `SELECT b.id, b.code, b.status, b.seat_labels, b.total_cents,
	       b.showtime_id, s.starts_at, s.screen, m.title, t.name, t.city, b.created_at
	FROM bookings b
	JOIN showtimes s ON s.id = b.showtime_id
	JOIN movies m ON m.id = s.movie_id
	JOIN theaters t ON t.id = s.theater_id`

func collectBookingDetails(rows *sql.Rows) ([]BookingDetail, error) {
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var labels string
		var startsAt, createdAt time.Time
		if err := rows.Scan(&d.ID, &d.Code, &d.Status, &labels, &d.TotalCents,
			&d.ShowtimeID, &startsAt, &d.Screen, &d.MovieTitle, &d.Theater, &d.City, &createdAt); err != nil {
			return nil, err
		}
		d.Seats = []string{}
		if labels != "" {
			d.Seats = strings.Split(labels, ",")
		}
		d.StartsAt = startsAt.UTC().Format(time.RFC3339)
		d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// ListByUser returns all bookings for the given user, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = bookingDetailQuery + ` WHERE b.user_id = ? ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return collectBookingDetails(rows)
}

// ListByShowtime returns all bookings for a showtime, newest first. Used by
// the admin panel.
func (r *BookingRepo) ListByShowtime(ctx context.Context, showtimeID uint64) ([]BookingDetail, error) {
	const q = bookingDetailQuery + ` WHERE b.showtime_id = ? ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, showtimeID)
	if err != nil {
		return nil, err
	}
	return collectBookingDetails(rows)
}
