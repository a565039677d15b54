package booking

import (
	"context"
)

// Lookup retrieves reservations for customers.  It is read-only and
// takes no locks; a lookup racing a cancellation may briefly observe
// the pre-cancel state, which is acceptable because this path performs
// no writes.
type Lookup struct {
	store  ReadStore
	hasher Hasher
}

// NewLookup constructs a Lookup service.
func NewLookup(store ReadStore, hasher Hasher) *Lookup {
	if store == nil || hasher == nil {
		panic("nil dependency passed to NewLookup")
	}
	return &Lookup{store: store, hasher: hasher}
}

// ByNumber returns the detail of a CONFIRMED reservation.  Canceled
// reservations are not retrievable by number; they only appear in
// ByCredentials results.
func (l *Lookup) ByNumber(ctx context.Context, number string) (*ReservationDetail, error) {
	return l.store.ConfirmedDetailByNumber(ctx, number)
}

// ByCredentials returns every reservation (any status) whose phone
// number matches and whose stored hash matches the given password,
// newest first.  Zero matches yield ErrNotFound; a wrong password is
// indistinguishable from having no reservations, so no partial data
// ever leaks.
func (l *Lookup) ByCredentials(ctx context.Context, phone, password string) ([]ReservationDetail, error) {
	rows, err := l.store.ReservationsByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	details := make([]ReservationDetail, 0, len(rows))
	for _, r := range rows {
		if !l.hasher.Verify(r.PasswordHash, password) {
			continue
		}
		d, err := l.store.DetailByNumber(ctx, r.Number)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	if len(details) == 0 {
		return nil, ErrNotFound
	}
	return details, nil
}
