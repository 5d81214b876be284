package ports

import (
	"context"
	"database/sql"

	"github.com/Sanket4712/moviebook/internal/model"
	"github.com/Sanket4712/moviebook/internal/queue"
)

// BookingLedger is the append-mostly log of bookings.
type BookingLedger interface {
	// CreateTx appends a booking row; a code collision yields
	// repository.ErrCodeTaken so the caller can regenerate and retry.
	CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	// GetByIDForUpdateTx loads a booking under a row lock.
	GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error)
	// SetStatusTx updates the booking status.
	SetStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error
}

// EventPublisher delivers domain events to the message broker. Publishing is
// best-effort; failures must not fail the booking itself.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}
