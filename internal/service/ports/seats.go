package ports

import (
	"context"
	"database/sql"
)

// SeatMap is the booking service's view of the per-showtime seat grid and its
// active claims.
type SeatMap interface {
	// EnsureGridTx lazily materializes the seat grid; idempotent.
	EnsureGridTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, gridRows, seatsPerRow int) (int, error)
	// SeatIDsByLabelsTx resolves labels to seat ids; unknown labels are
	// absent from the result.
	SeatIDsByLabelsTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, labels []string) (map[string]uint64, error)
	// ClaimedLabelsTx returns which of the given seats already have an
	// active claim.
	ClaimedLabelsTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatIDs []uint64) ([]string, error)
	// ClaimSeatsTx records active claims for a booking; a duplicate claim
	// yields repository.ErrSeatTaken.
	ClaimSeatsTx(ctx context.Context, tx *sql.Tx, bookingID, showtimeID uint64, seatIDs []uint64) error
	// ReleaseByBookingTx drops all claims of a booking and reports how many
	// seats were released.
	ReleaseByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (int, error)
}
