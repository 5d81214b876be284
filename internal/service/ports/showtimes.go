// Package ports declares the narrow interfaces the booking service depends
// on. The production implementations are the repositories; tests substitute
// in-memory fakes so the state machine can be exercised without a database.
package ports

import (
	"context"
	"database/sql"

	"github.com/Sanket4712/moviebook/internal/model"
)

// ShowtimeStore is the booking service's view of showtime persistence. All
// methods run inside the caller's transaction.
type ShowtimeStore interface {
	// GetByIDForUpdateTx loads a showtime under a row lock, serializing
	// concurrent bookings for the same showtime.
	GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Showtime, error)
	// DecrementAvailableTx atomically subtracts count from the availability
	// counter, failing with a conflict instead of going negative.
	DecrementAvailableTx(ctx context.Context, tx *sql.Tx, id uint64, count uint32) error
	// IncrementAvailableTx atomically adds count back, capped at total_seats.
	IncrementAvailableTx(ctx context.Context, tx *sql.Tx, id uint64, count uint32) error
}
