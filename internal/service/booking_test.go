package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanket4712/moviebook/internal/model"
	"github.com/Sanket4712/moviebook/internal/queue"
	"github.com/Sanket4712/moviebook/internal/repository"
)

// fakeRunner invokes fn directly; the fakes below keep their own state, so no
// real transaction is needed. It counts invocations so collision-retry tests
// can observe how many attempts ran.
type fakeRunner struct {
	calls int
}

func (r *fakeRunner) RunInTx(_ context.Context, fn func(tx *sql.Tx) error) error {
	r.calls++
	return fn(nil)
}

// fakeStore is an in-memory stand-in for the showtime, seat and ledger
// repositories, implementing all three ports against shared state.
type fakeStore struct {
	show *model.Showtime

	seatIDs  map[string]uint64 // label -> seat id
	labels   map[uint64]string // seat id -> label
	claims   map[uint64]uint64 // seat id -> booking id
	bookings map[uint64]*model.Booking
	nextID   uint64

	// failCreates makes the first n ledger inserts report a code collision.
	failCreates int

	events []queue.BookingConfirmedEvent
}

func newFakeStore(available uint32, priceCents uint32) *fakeStore {
	return &fakeStore{
		show: &model.Showtime{
			ID:             1,
			PriceCents:     priceCents,
			TotalSeats:     60,
			AvailableSeats: available,
		},
		seatIDs:  map[string]uint64{},
		labels:   map[uint64]string{},
		claims:   map[uint64]uint64{},
		bookings: map[uint64]*model.Booking{},
	}
}

func (f *fakeStore) GetByIDForUpdateTx(_ context.Context, _ *sql.Tx, id uint64) (*model.Showtime, error) {
	if id != f.show.ID {
		return nil, repository.ErrShowtimeNotFound
	}
	cp := *f.show
	return &cp, nil
}

func (f *fakeStore) DecrementAvailableTx(_ context.Context, _ *sql.Tx, id uint64, count uint32) error {
	if id != f.show.ID || f.show.AvailableSeats < count {
		return repository.ErrConflict
	}
	f.show.AvailableSeats -= count
	return nil
}

func (f *fakeStore) IncrementAvailableTx(_ context.Context, _ *sql.Tx, id uint64, count uint32) error {
	if id != f.show.ID || f.show.AvailableSeats+count > f.show.TotalSeats {
		return repository.ErrConflict
	}
	f.show.AvailableSeats += count
	return nil
}

func (f *fakeStore) EnsureGridTx(_ context.Context, _ *sql.Tx, _ uint64, gridRows, seatsPerRow int) (int, error) {
	if len(f.seatIDs) > 0 {
		return len(f.seatIDs), nil
	}
	var id uint64
	for r := 0; r < gridRows; r++ {
		for n := 1; n <= seatsPerRow; n++ {
			id++
			label := fmt.Sprintf("%s%d", repository.RowLabelFor(r), n)
			f.seatIDs[label] = id
			f.labels[id] = label
		}
	}
	return len(f.seatIDs), nil
}

func (f *fakeStore) SeatIDsByLabelsTx(_ context.Context, _ *sql.Tx, _ uint64, labels []string) (map[string]uint64, error) {
	out := map[string]uint64{}
	for _, l := range labels {
		if id, ok := f.seatIDs[l]; ok {
			out[l] = id
		}
	}
	return out, nil
}

func (f *fakeStore) ClaimedLabelsTx(_ context.Context, _ *sql.Tx, _ uint64, seatIDs []uint64) ([]string, error) {
	var taken []string
	for _, id := range seatIDs {
		if _, ok := f.claims[id]; ok {
			taken = append(taken, f.labels[id])
		}
	}
	return taken, nil
}

func (f *fakeStore) ClaimSeatsTx(_ context.Context, _ *sql.Tx, bookingID, _ uint64, seatIDs []uint64) error {
	for _, id := range seatIDs {
		if _, ok := f.claims[id]; ok {
			return repository.ErrSeatTaken
		}
	}
	for _, id := range seatIDs {
		f.claims[id] = bookingID
	}
	return nil
}

func (f *fakeStore) ReleaseByBookingTx(_ context.Context, _ *sql.Tx, bookingID uint64) (int, error) {
	released := 0
	for id, owner := range f.claims {
		if owner == bookingID {
			delete(f.claims, id)
			released++
		}
	}
	return released, nil
}

func (f *fakeStore) CreateTx(_ context.Context, _ *sql.Tx, b *model.Booking) error {
	if f.failCreates > 0 {
		f.failCreates--
		return repository.ErrCodeTaken
	}
	f.nextID++
	b.ID = f.nextID
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeStore) GetByIDForUpdateTxBooking(id uint64) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

// ledgerView adapts fakeStore to the BookingLedger port; GetByIDForUpdateTx
// collides with the showtime method's name otherwise.
type ledgerView struct{ *fakeStore }

func (l ledgerView) GetByIDForUpdateTx(_ context.Context, _ *sql.Tx, id uint64) (*model.Booking, error) {
	return l.fakeStore.GetByIDForUpdateTxBooking(id)
}

func (l ledgerView) SetStatusTx(_ context.Context, _ *sql.Tx, id uint64, status string) error {
	b, ok := l.bookings[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeStore) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	f.events = append(f.events, ev)
	return nil
}

func newTestService(f *fakeStore) (*BookingService, *fakeRunner) {
	runner := &fakeRunner{}
	return NewBookingService(runner, f, f, ledgerView{f}, f), runner
}

func TestCreateBooking_ConfirmsAndFreezesTotal(t *testing.T) {
	f := newFakeStore(60, 200)
	svc, _ := newTestService(f)

	b, err := svc.CreateBooking(context.Background(), 7, 1, []string{"A1", "A2"})
	require.NoError(t, err)

	assert.Equal(t, model.BookingConfirmed, b.Status)
	assert.Equal(t, []string{"A1", "A2"}, b.SeatLabels)
	assert.Equal(t, uint32(400), b.TotalCents)
	assert.Equal(t, uint32(2), b.SeatCount)
	assert.True(t, len(b.Code) > 3 && b.Code[:3] == "BK-")

	assert.Equal(t, uint32(58), f.show.AvailableSeats)
	assert.Len(t, f.claims, 2)

	require.Len(t, f.events, 1)
	assert.Equal(t, b.Code, f.events[0].BookingCode)
	assert.NotEmpty(t, f.events[0].EventID)
}

func TestCreateBooking_NormalizesAndDeduplicatesLabels(t *testing.T) {
	f := newFakeStore(60, 150)
	svc, _ := newTestService(f)

	b, err := svc.CreateBooking(context.Background(), 7, 1, []string{" a1 ", "A1", "b3"})
	require.NoError(t, err)

	assert.Equal(t, []string{"A1", "B3"}, b.SeatLabels)
	assert.Equal(t, uint32(300), b.TotalCents)
}

func TestCreateBooking_RejectsMalformedLabels(t *testing.T) {
	f := newFakeStore(60, 200)
	svc, runner := newTestService(f)

	_, err := svc.CreateBooking(context.Background(), 7, 1, []string{"A1", "1A", ""})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Labels, "1A")
	assert.Equal(t, 0, runner.calls, "malformed input must be rejected before any transaction")
}

func TestCreateBooking_RejectsEmptySelection(t *testing.T) {
	f := newFakeStore(60, 200)
	svc, _ := newTestService(f)

	_, err := svc.CreateBooking(context.Background(), 7, 1, []string{"  ", ""})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestCreateBooking_UnknownSeatForShowtime(t *testing.T) {
	f := newFakeStore(60, 200)
	svc, _ := newTestService(f)

	// Z9 parses as a label but the grid only has rows A-F.
	_, err := svc.CreateBooking(context.Background(), 7, 1, []string{"A1", "Z9"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"Z9"}, vErr.Labels)
	assert.Empty(t, f.bookings, "rejected attempt must not produce a ledger row")
	assert.Equal(t, uint32(60), f.show.AvailableSeats)
}

func TestCreateBooking_ShowtimeNotFound(t *testing.T) {
	f := newFakeStore(60, 200)
	svc, _ := newTestService(f)

	_, err := svc.CreateBooking(context.Background(), 7, 999, []string{"A1"})
	assert.ErrorIs(t, err, repository.ErrShowtimeNotFound)
}

func TestCreateBooking_SeatAlreadyTaken(t *testing.T) {
	f := newFakeStore(60, 200)
	svc, _ := newTestService(f)

	_, err := svc.CreateBooking(context.Background(), 7, 1, []string{"C5", "C6"})
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), 8, 1, []string{"C6", "C7"})

	var sErr *SeatsUnavailableError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, []string{"C6"}, sErr.Seats)
	assert.ErrorIs(t, err, repository.ErrConflict)

	assert.Len(t, f.bookings, 1, "conflicting attempt must leave no ledger row")
	assert.Equal(t, uint32(58), f.show.AvailableSeats)
	assert.Len(t, f.claims, 2, "C7 must not be claimed when C6 conflicts")
}

func TestCreateBooking_NotEnoughSeats(t *testing.T) {
	f := newFakeStore(1, 200)
	svc, _ := newTestService(f)

	_, err := svc.CreateBooking(context.Background(), 7, 1, []string{"A1", "A2"})

	assert.ErrorIs(t, err, ErrNotEnoughSeats)
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Equal(t, uint32(1), f.show.AvailableSeats)
	assert.Empty(t, f.bookings)
}

func TestCreateBooking_RetriesOnCodeCollision(t *testing.T) {
	f := newFakeStore(60, 200)
	f.failCreates = 2
	svc, runner := newTestService(f)

	b, err := svc.CreateBooking(context.Background(), 7, 1, []string{"D4"})
	require.NoError(t, err)

	assert.Equal(t, 3, runner.calls, "two collisions then success")
	assert.Equal(t, model.BookingConfirmed, b.Status)
	assert.Equal(t, uint32(59), f.show.AvailableSeats)
}

func TestCreateBooking_GivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newFakeStore(60, 200)
	f.failCreates = 100
	svc, runner := newTestService(f)

	_, err := svc.CreateBooking(context.Background(), 7, 1, []string{"D4"})

	assert.ErrorIs(t, err, repository.ErrCodeTaken)
	assert.Equal(t, codeRetries+1, runner.calls)
	assert.Equal(t, uint32(60), f.show.AvailableSeats, "failed attempts must roll back the counter")
}

func TestCancelBooking_ReleasesSeatsAndRestoresCounter(t *testing.T) {
	f := newFakeStore(60, 200)
	svc, _ := newTestService(f)

	b, err := svc.CreateBooking(context.Background(), 7, 1, []string{"E1", "E2", "E3"})
	require.NoError(t, err)
	require.Equal(t, uint32(57), f.show.AvailableSeats)

	require.NoError(t, svc.CancelBooking(context.Background(), 7, model.RoleCustomer, b.ID))

	assert.Equal(t, model.BookingCancelled, f.bookings[b.ID].Status)
	assert.Empty(t, f.claims, "cancelled seats must be claimable again")
	assert.Equal(t, uint32(60), f.show.AvailableSeats)

	// The booking row itself survives with its frozen details.
	assert.Equal(t, []string{"E1", "E2", "E3"}, f.bookings[b.ID].SeatLabels)
	assert.Equal(t, uint32(600), f.bookings[b.ID].TotalCents)
}

func TestCancelBooking_SeatsReusableAfterCancel(t *testing.T) {
	f := newFakeStore(60, 200)
	svc, _ := newTestService(f)

	b, err := svc.CreateBooking(context.Background(), 7, 1, []string{"F1"})
	require.NoError(t, err)
	require.NoError(t, svc.CancelBooking(context.Background(), 7, model.RoleCustomer, b.ID))

	b2, err := svc.CreateBooking(context.Background(), 8, 1, []string{"F1"})
	require.NoError(t, err)
	assert.Equal(t, uint64(8), b2.UserID)
}

func TestCancelBooking_TwiceIsConflict(t *testing.T) {
	f := newFakeStore(60, 200)
	svc, _ := newTestService(f)

	b, err := svc.CreateBooking(context.Background(), 7, 1, []string{"A5"})
	require.NoError(t, err)

	require.NoError(t, svc.CancelBooking(context.Background(), 7, model.RoleCustomer, b.ID))
	err = svc.CancelBooking(context.Background(), 7, model.RoleCustomer, b.ID)

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, uint32(60), f.show.AvailableSeats, "second cancel must not inflate the counter")
}

func TestCancelBooking_ForbiddenForOtherCustomer(t *testing.T) {
	f := newFakeStore(60, 200)
	svc, _ := newTestService(f)

	b, err := svc.CreateBooking(context.Background(), 7, 1, []string{"A5"})
	require.NoError(t, err)

	err = svc.CancelBooking(context.Background(), 8, model.RoleCustomer, b.ID)

	assert.ErrorIs(t, err, repository.ErrForbidden)
	assert.Equal(t, model.BookingConfirmed, f.bookings[b.ID].Status)
}

func TestCancelBooking_AdminMayCancelAnyBooking(t *testing.T) {
	f := newFakeStore(60, 200)
	svc, _ := newTestService(f)

	b, err := svc.CreateBooking(context.Background(), 7, 1, []string{"A5"})
	require.NoError(t, err)

	require.NoError(t, svc.CancelBooking(context.Background(), 99, model.RoleAdmin, b.ID))
	assert.Equal(t, model.BookingCancelled, f.bookings[b.ID].Status)
}

func TestCancelBooking_NotFound(t *testing.T) {
	f := newFakeStore(60, 200)
	svc, _ := newTestService(f)

	err := svc.CancelBooking(context.Background(), 7, model.RoleCustomer, 12345)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestCreateBooking_PublisherFailureDoesNotFailBooking(t *testing.T) {
	f := newFakeStore(60, 200)
	runner := &fakeRunner{}
	svc := NewBookingService(runner, f, f, ledgerView{f}, failingPublisher{})

	b, err := svc.CreateBooking(context.Background(), 7, 1, []string{"B2"})
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, b.Status)
}

type failingPublisher struct{}

func (failingPublisher) PublishBookingConfirmed(context.Context, queue.BookingConfirmedEvent) error {
	return errors.New("broker down")
}

// racingSeatMap reports no active claims in the pre-check regardless of
// state, modeling a competing claim that lands between the check and the
// insert. The claim insert's unique key is then the only guard.
type racingSeatMap struct{ *fakeStore }

func (m racingSeatMap) ClaimedLabelsTx(context.Context, *sql.Tx, uint64, []uint64) ([]string, error) {
	return nil, nil
}

func TestCreateBooking_ClaimInsertConflictMapsToSeatsUnavailable(t *testing.T) {
	f := newFakeStore(60, 200)
	svc := NewBookingService(&fakeRunner{}, f, racingSeatMap{f}, ledgerView{f}, f)

	_, err := svc.CreateBooking(context.Background(), 7, 1, []string{"C5"})
	require.NoError(t, err)

	// The pre-check sees nothing, so only the insert's unique constraint can
	// stop the second booking of C5.
	_, err = svc.CreateBooking(context.Background(), 8, 1, []string{"C5"})

	var sErr *SeatsUnavailableError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, []string{"C5"}, sErr.Seats)
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Equal(t, uint32(59), f.show.AvailableSeats, "the losing attempt must not touch the counter")
}
