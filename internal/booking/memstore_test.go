package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dayeon/concert-seat-reservation/internal/model"
)

// memStore is an in-memory Store used to exercise the engines. WithinTx
// holds a single mutex for the whole transaction, which is a coarse but
// faithful stand-in for the row locks the SQL store takes: overlapping
// transactions are fully serialized. On error the pre-transaction state
// is restored, matching rollback semantics.
type memStore struct {
	mu           sync.Mutex
	seats        map[uuid.UUID]*memSeat
	reservations map[uuid.UUID]*model.Reservation
	byNumber     map[string]uuid.UUID
	seatLinks    map[uuid.UUID][]uuid.UUID

	// failure injection
	linkErr        error // returned by LinkSeats
	seatUpdateErr  error // returned by UpdateSeatStatus
	collisionsLeft int   // InsertReservation returns ErrNumberTaken while > 0
}

type memSeat struct {
	concertID uuid.UUID
	status    model.SeatStatus
	price     int
}

func newMemStore() *memStore {
	return &memStore{
		seats:        make(map[uuid.UUID]*memSeat),
		reservations: make(map[uuid.UUID]*model.Reservation),
		byNumber:     make(map[string]uuid.UUID),
		seatLinks:    make(map[uuid.UUID][]uuid.UUID),
	}
}

// addSeats registers one seat per price under the given concert and
// returns the new seat IDs.
func (m *memStore) addSeats(concertID uuid.UUID, prices ...int) []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(prices))
	for _, p := range prices {
		id := uuid.New()
		m.seats[id] = &memSeat{concertID: concertID, status: model.SeatAvailable, price: p}
		ids = append(ids, id)
	}
	return ids
}

func (m *memStore) seatStatus(id uuid.UUID) model.SeatStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seats[id].status
}

func (m *memStore) reservationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reservations)
}

func (m *memStore) ReservationByNumber(ctx context.Context, number string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byNumber[number]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m.reservations[id]
	return &cp, nil
}

func (m *memStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.snapshot()
	if err := fn(&memTx{store: m}); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	seats        map[uuid.UUID]*memSeat
	reservations map[uuid.UUID]*model.Reservation
	byNumber     map[string]uuid.UUID
	seatLinks    map[uuid.UUID][]uuid.UUID
}

func (m *memStore) snapshot() memSnapshot {
	s := memSnapshot{
		seats:        make(map[uuid.UUID]*memSeat, len(m.seats)),
		reservations: make(map[uuid.UUID]*model.Reservation, len(m.reservations)),
		byNumber:     make(map[string]uuid.UUID, len(m.byNumber)),
		seatLinks:    make(map[uuid.UUID][]uuid.UUID, len(m.seatLinks)),
	}
	for id, seat := range m.seats {
		cp := *seat
		s.seats[id] = &cp
	}
	for id, res := range m.reservations {
		cp := *res
		s.reservations[id] = &cp
	}
	for n, id := range m.byNumber {
		s.byNumber[n] = id
	}
	for id, links := range m.seatLinks {
		s.seatLinks[id] = append([]uuid.UUID(nil), links...)
	}
	return s
}

func (m *memStore) restore(s memSnapshot) {
	m.seats = s.seats
	m.reservations = s.reservations
	m.byNumber = s.byNumber
	m.seatLinks = s.seatLinks
}

// memTx mutates the store directly; the enclosing WithinTx already
// holds the lock and handles rollback.
type memTx struct {
	store *memStore
}

func (t *memTx) SeatsForUpdate(ctx context.Context, concertID uuid.UUID, seatIDs []uuid.UUID) ([]SeatState, error) {
	out := make([]SeatState, 0, len(seatIDs))
	for _, id := range seatIDs {
		seat, ok := t.store.seats[id]
		if !ok || seat.concertID != concertID {
			continue
		}
		out = append(out, SeatState{ID: id, Status: seat.status, Price: seat.price})
	}
	return out, nil
}

func (t *memTx) InsertReservation(ctx context.Context, res *model.Reservation) error {
	if t.store.collisionsLeft > 0 {
		t.store.collisionsLeft--
		return ErrNumberTaken
	}
	if _, taken := t.store.byNumber[res.Number]; taken {
		return ErrNumberTaken
	}
	res.CreatedAt = time.Now().UTC()
	cp := *res
	t.store.reservations[res.ID] = &cp
	t.store.byNumber[res.Number] = res.ID
	return nil
}

func (t *memTx) LinkSeats(ctx context.Context, reservationID uuid.UUID, seatIDs []uuid.UUID) error {
	if t.store.linkErr != nil {
		return t.store.linkErr
	}
	t.store.seatLinks[reservationID] = append([]uuid.UUID(nil), seatIDs...)
	return nil
}

func (t *memTx) UpdateSeatStatus(ctx context.Context, seatIDs []uuid.UUID, status model.SeatStatus) error {
	if t.store.seatUpdateErr != nil {
		return t.store.seatUpdateErr
	}
	for _, id := range seatIDs {
		if seat, ok := t.store.seats[id]; ok {
			seat.status = status
		}
	}
	return nil
}

func (t *memTx) ReservationForUpdate(ctx context.Context, number string) (*model.Reservation, []uuid.UUID, error) {
	id, ok := t.store.byNumber[number]
	if !ok {
		return nil, nil, ErrNotFound
	}
	cp := *t.store.reservations[id]
	return &cp, append([]uuid.UUID(nil), t.store.seatLinks[id]...), nil
}

func (t *memTx) UpdateReservationStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) error {
	res, ok := t.store.reservations[id]
	if !ok {
		return ErrNotFound
	}
	res.Status = status
	return nil
}

// plainHasher is a deterministic Hasher so tests stay fast; the real
// bcrypt adapter is covered in internal/utils.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }

func (plainHasher) Verify(hash, plain string) bool { return hash == "h:"+plain }
