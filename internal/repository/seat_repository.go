package repository

import (
	"context"
	"database/sql"

	"github.com/Sanket4712/moviebook/internal/model"
)

// Default seat grid dimensions for a showtime: rows A-F with ten seats each.
// The grid is materialized lazily the first time seats for a showtime are
// requested.
const (
	DefaultGridRows    = 6
	DefaultSeatsPerRow = 10
)

// SeatRepo provides access to the static seat grid and to the active seat
// claims in booking_seats. Booked state is derived solely from claims; there
// is no mutable per-seat flag that could drift out of sync with the ledger.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// RowLabelFor converts a zero-based row index to its letter label: 0 -> A,
// 25 -> Z, 26 -> AA.
func RowLabelFor(i int) string {
	if i < 0 {
		return ""
	}
	var res []rune
	for {
		res = append(res, rune('A'+i%26))
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
		res[j], res[k] = res[k], res[j]
	}
	return string(res)
}

// EnsureGridTx materializes the seat grid for a showtime if it does not exist
// yet. Calling it again is a no-op. It returns the number of seats in the
// grid.
//
// Two transactions can race here: both read count=0 and both attempt the
// bulk insert. The unique position key makes the loser's insert fail with a
// duplicate-key error, which means the winner already materialized the same
// fixed grid, so that error is absorbed and the grid re-counted with a
// locking read (the plain COUNT would reread the stale snapshot).
func (r *SeatRepo) EnsureGridTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, gridRows, seatsPerRow int) (int, error) {
	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seats WHERE showtime_id = ?`, showtimeID,
	).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return count, nil
	}

	query := `INSERT INTO seats (showtime_id, row_label, seat_number) VALUES `
	args := make([]any, 0, gridRows*seatsPerRow*3)
	first := true
	for row := 0; row < gridRows; row++ {
		label := RowLabelFor(row)
		for n := 1; n <= seatsPerRow; n++ {
			if !first {
				query += ","
			}
			first = false
			query += "(?, ?, ?)"
			args = append(args, showtimeID, label, n)
		}
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if !isDuplicateKey(err) {
			return 0, err
		}
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM seats WHERE showtime_id = ? FOR UPDATE`, showtimeID,
		).Scan(&count); err != nil {
			return 0, err
		}
		return count, nil
	}
	return gridRows * seatsPerRow, nil
}

// SeatIDsByLabelsTx resolves seat labels (e.g. "A1") to seat ids for a
// showtime within tx. Labels that do not exist in the grid are simply absent
// from the returned map; the caller decides how to report them.
func (r *SeatRepo) SeatIDsByLabelsTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, labels []string) (map[string]uint64, error) {
	ids := make(map[string]uint64, len(labels))
	const q = `SELECT id FROM seats WHERE showtime_id = ? AND row_label = ? AND seat_number = ?`
	for _, label := range labels {
		rowLabel, num, ok := SplitSeatLabel(label)
		if !ok {
			continue
		}
		var id uint64
		err := tx.QueryRowContext(ctx, q, showtimeID, rowLabel, num).Scan(&id)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, err
		}
		ids[label] = id
	}
	return ids, nil
}

// ClaimedLabelsTx returns the labels among seatIDs that already have an
// active claim for the showtime. Callers run this inside the same transaction
// that holds the showtime row lock, so the answer cannot go stale before the
// claims are inserted.
func (r *SeatRepo) ClaimedLabelsTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatIDs []uint64) ([]string, error) {
	if len(seatIDs) == 0 {
		return []string{}, nil
	}
	query := `SELECT CONCAT(se.row_label, se.seat_number)
	          FROM booking_seats bs
	          JOIN seats se ON se.id = bs.seat_id
	          WHERE bs.showtime_id = ? AND bs.seat_id IN (`
	args := make([]any, 0, len(seatIDs)+1)
	args = append(args, showtimeID)
	for i, id := range seatIDs {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += `) ORDER BY se.row_label, se.seat_number`

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	taken := make([]string, 0)
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		taken = append(taken, label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return taken, nil
}

// ClaimSeatsTx inserts active seat claims for a booking. A duplicate-key
// error means another booking already claims one of the seats and is
// translated to ErrSeatTaken.
func (r *SeatRepo) ClaimSeatsTx(ctx context.Context, tx *sql.Tx, bookingID, showtimeID uint64, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	query := `INSERT INTO booking_seats (booking_id, showtime_id, seat_id) VALUES `
	args := make([]any, 0, len(seatIDs)*3)
	for i, id := range seatIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, bookingID, showtimeID, id)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateKey(err) {
			return ErrSeatTaken
		}
		return err
	}
	return nil
}

// ReleaseByBookingTx deletes all active claims for a booking, returning the
// number of seats released. Used when a booking is cancelled.
func (r *SeatRepo) ReleaseByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (int, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM booking_seats WHERE booking_id = ?`, bookingID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// BookedLabels returns the labels of all currently claimed seats for a
// showtime, ordered by row then number. This is the display-only view used by
// the seat map endpoint; booking revalidates inside its own transaction.
func (r *SeatRepo) BookedLabels(ctx context.Context, showtimeID uint64) ([]string, error) {
	const q = `SELECT CONCAT(se.row_label, se.seat_number)
	           FROM booking_seats bs
	           JOIN seats se ON se.id = bs.seat_id
	           WHERE bs.showtime_id = ?
	           ORDER BY se.row_label, se.seat_number`
	rows, err := r.db.QueryContext(ctx, q, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := make([]string, 0)
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}

// CountForShowtime returns the number of seats materialized for a showtime.
// Zero means the grid has not been created yet.
func (r *SeatRepo) CountForShowtime(ctx context.Context, showtimeID uint64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seats WHERE showtime_id = ?`, showtimeID,
	).Scan(&count)
	return count, err
}

// ListForShowtime returns the materialized seat grid ordered by row then
// number. An empty result means the grid has not been created yet.
func (r *SeatRepo) ListForShowtime(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	const q = `SELECT id, showtime_id, row_label, seat_number
	           FROM seats
	           WHERE showtime_id = ?
	           ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.ShowtimeID, &s.RowLabel, &s.SeatNumber); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}
