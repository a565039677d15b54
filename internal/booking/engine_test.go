package booking

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayeon/concert-seat-reservation/internal/model"
)

var numberPattern = regexp.MustCompile(`^R[2-9A-HJKMNP-Z]{10}$`)

func bookRequest(concertID uuid.UUID, seatIDs []uuid.UUID) BookRequest {
	return BookRequest{
		ConcertID:    concertID,
		SeatIDs:      seatIDs,
		CustomerName: "Kim Dayeon",
		PhoneNumber:  "01012345678",
		Password:     "1234",
	}
}

func TestBookReservesSeatsAndComputesTotal(t *testing.T) {
	store := newMemStore()
	concertID := uuid.New()
	seatIDs := store.addSeats(concertID, 140000, 140000)
	engine := NewEngine(store, plainHasher{})

	res, err := engine.Book(context.Background(), bookRequest(concertID, seatIDs))
	require.NoError(t, err)

	assert.Equal(t, 280000, res.TotalAmount)
	assert.Equal(t, model.ReservationConfirmed, res.Status)
	assert.Regexp(t, numberPattern, res.Number)
	assert.Equal(t, "h:1234", res.PasswordHash)
	for _, id := range seatIDs {
		assert.Equal(t, model.SeatReserved, store.seatStatus(id))
	}

	stored, err := store.ReservationByNumber(context.Background(), res.Number)
	require.NoError(t, err)
	assert.Equal(t, res.ID, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestBookDeduplicatesSeatIDs(t *testing.T) {
	store := newMemStore()
	concertID := uuid.New()
	seatIDs := store.addSeats(concertID, 90000)
	engine := NewEngine(store, plainHasher{})

	res, err := engine.Book(context.Background(), bookRequest(concertID, []uuid.UUID{seatIDs[0], seatIDs[0]}))
	require.NoError(t, err)
	assert.Equal(t, 90000, res.TotalAmount)
}

func TestBookRejectsMissingInput(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store, plainHasher{})

	_, err := engine.Book(context.Background(), bookRequest(uuid.New(), nil))
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = engine.Book(context.Background(), bookRequest(uuid.Nil, []uuid.UUID{uuid.New()}))
	assert.ErrorIs(t, err, ErrInvalidParams)

	// nil IDs are dropped during normalization, leaving an empty set
	_, err = engine.Book(context.Background(), bookRequest(uuid.New(), []uuid.UUID{uuid.Nil}))
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestBookRejectsReservedSeatWholly(t *testing.T) {
	store := newMemStore()
	concertID := uuid.New()
	seatIDs := store.addSeats(concertID, 140000, 140000)
	engine := NewEngine(store, plainHasher{})

	_, err := engine.Book(context.Background(), bookRequest(concertID, seatIDs[:1]))
	require.NoError(t, err)

	// second request overlaps on the taken seat; the free one must
	// not be reserved either
	_, err = engine.Book(context.Background(), bookRequest(concertID, seatIDs))
	assert.ErrorIs(t, err, ErrSeatUnavailable)
	assert.Equal(t, model.SeatAvailable, store.seatStatus(seatIDs[1]))
	assert.Equal(t, 1, store.reservationCount())
}

func TestBookRejectsUnknownSeat(t *testing.T) {
	store := newMemStore()
	concertID := uuid.New()
	seatIDs := store.addSeats(concertID, 140000)
	engine := NewEngine(store, plainHasher{})

	_, err := engine.Book(context.Background(), bookRequest(concertID, append(seatIDs, uuid.New())))
	assert.ErrorIs(t, err, ErrSeatUnavailable)
	assert.Equal(t, model.SeatAvailable, store.seatStatus(seatIDs[0]))
}

func TestBookRejectsSeatOfOtherConcert(t *testing.T) {
	store := newMemStore()
	concertID := uuid.New()
	otherSeats := store.addSeats(uuid.New(), 140000)
	engine := NewEngine(store, plainHasher{})

	_, err := engine.Book(context.Background(), bookRequest(concertID, otherSeats))
	assert.ErrorIs(t, err, ErrSeatUnavailable)
	assert.Equal(t, model.SeatAvailable, store.seatStatus(otherSeats[0]))
}

func TestBookRollsBackOnFailureAfterSeatCheck(t *testing.T) {
	store := newMemStore()
	concertID := uuid.New()
	seatIDs := store.addSeats(concertID, 140000, 140000)
	store.linkErr = errors.New("link failed")
	engine := NewEngine(store, plainHasher{})

	_, err := engine.Book(context.Background(), bookRequest(concertID, seatIDs))
	require.Error(t, err)

	// the failure happened after the availability check and the
	// reservation insert; nothing may survive it
	assert.Equal(t, 0, store.reservationCount())
	for _, id := range seatIDs {
		assert.Equal(t, model.SeatAvailable, store.seatStatus(id))
	}
}

func TestBookRetriesNumberCollisions(t *testing.T) {
	store := newMemStore()
	concertID := uuid.New()
	seatIDs := store.addSeats(concertID, 140000)
	store.collisionsLeft = numberAttempts - 1
	engine := NewEngine(store, plainHasher{})

	res, err := engine.Book(context.Background(), bookRequest(concertID, seatIDs))
	require.NoError(t, err)
	assert.Regexp(t, numberPattern, res.Number)
}

func TestBookGivesUpAfterRepeatedCollisions(t *testing.T) {
	store := newMemStore()
	concertID := uuid.New()
	seatIDs := store.addSeats(concertID, 140000)
	store.collisionsLeft = numberAttempts
	engine := NewEngine(store, plainHasher{})

	_, err := engine.Book(context.Background(), bookRequest(concertID, seatIDs))
	assert.ErrorIs(t, err, ErrNumberTaken)
	assert.Equal(t, model.SeatAvailable, store.seatStatus(seatIDs[0]))
}

func TestConcurrentBookingsSingleWinnerPerSeat(t *testing.T) {
	store := newMemStore()
	concertID := uuid.New()
	seatIDs := store.addSeats(concertID, 140000)
	engine := NewEngine(store, plainHasher{})

	const racers = 20
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Book(context.Background(), bookRequest(concertID, seatIDs))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrSeatUnavailable)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, store.reservationCount())
}

func TestConcurrentOverlappingSeatSets(t *testing.T) {
	store := newMemStore()
	concertID := uuid.New()
	seatIDs := store.addSeats(concertID, 140000, 140000, 140000)
	engine := NewEngine(store, plainHasher{})

	// both requests want the middle seat; whichever loses must not
	// keep its other seat either
	var wg sync.WaitGroup
	var errA, errB error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errA = engine.Book(context.Background(), bookRequest(concertID, seatIDs[:2]))
	}()
	go func() {
		defer wg.Done()
		_, errB = engine.Book(context.Background(), bookRequest(concertID, seatIDs[1:]))
	}()
	wg.Wait()

	require.True(t, (errA == nil) != (errB == nil), "exactly one booking must win")
	loserOnly := seatIDs[2]
	if errB == nil {
		loserOnly = seatIDs[0]
	}
	assert.Equal(t, model.SeatAvailable, store.seatStatus(loserOnly))
	assert.Equal(t, model.SeatReserved, store.seatStatus(seatIDs[1]))
	assert.Equal(t, 1, store.reservationCount())
}

func TestCancelReleasesSeatsForRebooking(t *testing.T) {
	store := newMemStore()
	concertID := uuid.New()
	seatIDs := store.addSeats(concertID, 140000, 140000)
	engine := NewEngine(store, plainHasher{})

	res, err := engine.Book(context.Background(), bookRequest(concertID, seatIDs))
	require.NoError(t, err)

	err = engine.Cancel(context.Background(), CancelRequest{
		Number:      res.Number,
		PhoneNumber: "01012345678",
		Password:    "1234",
	})
	require.NoError(t, err)

	stored, err := store.ReservationByNumber(context.Background(), res.Number)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationCanceled, stored.Status)
	for _, id := range seatIDs {
		assert.Equal(t, model.SeatAvailable, store.seatStatus(id))
	}

	// released seats are bookable again by someone else
	again, err := engine.Book(context.Background(), BookRequest{
		ConcertID:    concertID,
		SeatIDs:      seatIDs,
		CustomerName: "Lee Minji",
		PhoneNumber:  "01098765432",
		Password:     "5678",
	})
	require.NoError(t, err)
	assert.NotEqual(t, res.Number, again.Number)
}

func TestCancelRejectsWrongCredentials(t *testing.T) {
	store := newMemStore()
	concertID := uuid.New()
	seatIDs := store.addSeats(concertID, 140000)
	engine := NewEngine(store, plainHasher{})

	res, err := engine.Book(context.Background(), bookRequest(concertID, seatIDs))
	require.NoError(t, err)

	err = engine.Cancel(context.Background(), CancelRequest{
		Number:      res.Number,
		PhoneNumber: "01012345678",
		Password:    "0000",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = engine.Cancel(context.Background(), CancelRequest{
		Number:      res.Number,
		PhoneNumber: "01099999999",
		Password:    "1234",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// failed attempts must not touch the reservation
	assert.Equal(t, model.SeatReserved, store.seatStatus(seatIDs[0]))
}

func TestCancelUnknownNumber(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store, plainHasher{})

	err := engine.Cancel(context.Background(), CancelRequest{
		Number:      "RXXXXXXXXXX",
		PhoneNumber: "01012345678",
		Password:    "1234",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelTwiceFails(t *testing.T) {
	store := newMemStore()
	concertID := uuid.New()
	seatIDs := store.addSeats(concertID, 140000)
	engine := NewEngine(store, plainHasher{})

	res, err := engine.Book(context.Background(), bookRequest(concertID, seatIDs))
	require.NoError(t, err)

	req := CancelRequest{Number: res.Number, PhoneNumber: "01012345678", Password: "1234"}
	require.NoError(t, engine.Cancel(context.Background(), req))

	err = engine.Cancel(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, model.SeatAvailable, store.seatStatus(seatIDs[0]))
}
