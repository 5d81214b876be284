// Package service implements the booking state machine. A booking attempt
// moves requested -> confirmed or requested -> rejected; a confirmed booking
// may move to cancelled. Rejected and cancelled are terminal. All state
// effects of one attempt (ledger row, seat claims, availability counter)
// commit together or not at all.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Sanket4712/moviebook/internal/database"
	"github.com/Sanket4712/moviebook/internal/model"
	"github.com/Sanket4712/moviebook/internal/queue"
	"github.com/Sanket4712/moviebook/internal/repository"
	"github.com/Sanket4712/moviebook/internal/service/ports"
)

// codeRetries bounds how many times a booking is re-attempted after a
// booking-code collision before giving up.
const codeRetries = 5

// BookingService orchestrates seat-availability checks, seat-claim mutation,
// counter adjustment and ledger writes as one transaction per operation. It
// exclusively owns the write path to seats, counters and the ledger; no other
// component mutates them.
//
// The caller's identity arrives explicitly as a userID/role pair injected by
// the HTTP layer. The service never reads ambient session state.
type BookingService struct {
	tx        database.Runner
	showtimes ports.ShowtimeStore
	seats     ports.SeatMap
	ledger    ports.BookingLedger
	publisher ports.EventPublisher // optional; nil disables events

	gridRows    int
	seatsPerRow int
}

// NewBookingService constructs a BookingService. publisher may be nil when no
// broker is configured.
func NewBookingService(tx database.Runner, showtimes ports.ShowtimeStore, seats ports.SeatMap, ledger ports.BookingLedger, publisher ports.EventPublisher) *BookingService {
	if tx == nil || showtimes == nil || seats == nil || ledger == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{
		tx:          tx,
		showtimes:   showtimes,
		seats:       seats,
		ledger:      ledger,
		publisher:   publisher,
		gridRows:    repository.DefaultGridRows,
		seatsPerRow: repository.DefaultSeatsPerRow,
	}
}

// CreateBooking books the given seats for userID on a showtime.
//
// The availability check and all mutations run inside a single transaction
// holding a row lock on the showtime, so two concurrent requests for the same
// seat cannot both succeed; the unique claim constraint backs this up at the
// storage layer. The total is computed from the showtime's current price and
// frozen on the booking.
//
// Error kinds: *ValidationError (bad seat list), repository.ErrShowtimeNotFound,
// ErrNotEnoughSeats, *SeatsUnavailableError. Nothing is retried except a
// booking-code collision.
func (s *BookingService) CreateBooking(ctx context.Context, userID, showtimeID uint64, seatLabels []string) (*model.Booking, error) {
	labels, invalid := repository.NormalizeSeatLabels(seatLabels)
	if len(invalid) > 0 {
		return nil, &ValidationError{Msg: "invalid seat labels", Labels: invalid}
	}
	if len(labels) == 0 {
		return nil, &ValidationError{Msg: "no seats selected"}
	}

	var booking *model.Booking
	for attempt := 0; ; attempt++ {
		code, err := newBookingCode()
		if err != nil {
			return nil, err
		}
		booking, err = s.createWithCode(ctx, userID, showtimeID, labels, code)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrCodeTaken) && attempt < codeRetries {
			continue
		}
		return nil, err
	}

	if s.publisher != nil {
		ev := queue.BookingConfirmedEvent{
			EventID:     uuid.NewString(),
			BookingID:   booking.ID,
			BookingCode: booking.Code,
			UserID:      booking.UserID,
			ShowtimeID:  booking.ShowtimeID,
			Seats:       booking.SeatLabels,
			TotalCents:  booking.TotalCents,
			ConfirmedAt: booking.CreatedAt.UTC().Format(time.RFC3339),
		}
		// Best-effort: the booking is committed, a broker outage must not
		// undo it.
		if err := s.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
			log.Printf("booking: publish confirmed event failed for %s: %v", booking.Code, err)
		}
	}
	return booking, nil
}

// createWithCode runs one booking attempt with a fixed code inside a single
// transaction.
func (s *BookingService) createWithCode(ctx context.Context, userID, showtimeID uint64, labels []string, code string) (*model.Booking, error) {
	var booking *model.Booking
	err := s.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		show, err := s.showtimes.GetByIDForUpdateTx(ctx, tx, showtimeID)
		if err != nil {
			return err
		}
		if uint32(len(labels)) > show.AvailableSeats {
			return ErrNotEnoughSeats
		}
		if _, err := s.seats.EnsureGridTx(ctx, tx, showtimeID, s.gridRows, s.seatsPerRow); err != nil {
			return err
		}
		idsByLabel, err := s.seats.SeatIDsByLabelsTx(ctx, tx, showtimeID, labels)
		if err != nil {
			return err
		}
		var unknown []string
		seatIDs := make([]uint64, 0, len(labels))
		for _, label := range labels {
			id, ok := idsByLabel[label]
			if !ok {
				unknown = append(unknown, label)
				continue
			}
			seatIDs = append(seatIDs, id)
		}
		if len(unknown) > 0 {
			return &ValidationError{Msg: "unknown seats for this showtime", Labels: unknown}
		}

		taken, err := s.seats.ClaimedLabelsTx(ctx, tx, showtimeID, seatIDs)
		if err != nil {
			return err
		}
		if len(taken) > 0 {
			return &SeatsUnavailableError{Seats: taken}
		}

		b := &model.Booking{
			Code:       code,
			UserID:     userID,
			ShowtimeID: showtimeID,
			Status:     model.BookingConfirmed,
			SeatLabels: labels,
			SeatCount:  uint32(len(labels)),
			TotalCents: uint32(len(labels)) * show.PriceCents,
			CreatedAt:  time.Now().UTC(),
		}
		if err := s.ledger.CreateTx(ctx, tx, b); err != nil {
			return err
		}
		if err := s.seats.ClaimSeatsTx(ctx, tx, b.ID, showtimeID, seatIDs); err != nil {
			if errors.Is(err, repository.ErrSeatTaken) {
				// The pre-check ran under the showtime lock, so this only
				// fires when a claim slipped in through another path. Report
				// the whole selection as unavailable.
				return &SeatsUnavailableError{Seats: labels}
			}
			return err
		}
		if err := s.showtimes.DecrementAvailableTx(ctx, tx, showtimeID, b.SeatCount); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrNotEnoughSeats
			}
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelBooking cancels a confirmed booking, releasing its seats and
// restoring the availability counter in one transaction. Only the booking's
// owner (or an admin) may cancel it; cancelling twice returns
// ErrAlreadyCancelled with no state change.
func (s *BookingService) CancelBooking(ctx context.Context, requesterID uint64, requesterRole string, bookingID uint64) error {
	return s.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		b, err := s.ledger.GetByIDForUpdateTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.UserID != requesterID && requesterRole != model.RoleAdmin {
			return repository.ErrForbidden
		}
		if b.Status == model.BookingCancelled {
			return ErrAlreadyCancelled
		}
		if _, err := s.seats.ReleaseByBookingTx(ctx, tx, b.ID); err != nil {
			return err
		}
		if err := s.ledger.SetStatusTx(ctx, tx, b.ID, model.BookingCancelled); err != nil {
			return err
		}
		return s.showtimes.IncrementAvailableTx(ctx, tx, b.ShowtimeID, b.SeatCount)
	})
}
