package repository

import (
	"context"
	"sync"

	"github.com/Domenick1991/skybooking/internal/domain"
)

type BookingRepository interface {
	Insert(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Booking, error)
	ListByFlightID(ctx context.Context, flightID string) ([]domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
}

// MemBookingRepository keeps every booking in process memory. Insertion
// order is preserved because ListByEmail must return bookings in store
// order. All records die with the process.
type MemBookingRepository struct {
	mu       sync.RWMutex
	order    []string
	bookings map[string]*domain.Booking
}

func NewBookingRepository() BookingRepository {
	return &MemBookingRepository{bookings: make(map[string]*domain.Booking)}
}

func (r *MemBookingRepository) Insert(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, booking.ID)
	r.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

func (r *MemBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *MemBookingRepository) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]domain.Booking, 0)
	for _, id := range r.order {
		if b := r.bookings[id]; b.HasPassengerEmail(email) {
			matched = append(matched, *cloneBooking(b))
		}
	}
	return matched, nil
}

func (r *MemBookingRepository) ListByFlightID(ctx context.Context, flightID string) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]domain.Booking, 0)
	for _, id := range r.order {
		b := r.bookings[id]
		if b.FlightID == flightID || b.ReturnFlightID == flightID {
			matched = append(matched, *cloneBooking(b))
		}
	}
	return matched, nil
}

func (r *MemBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]domain.Booking, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, *cloneBooking(r.bookings[id]))
	}
	return all, nil
}

func (r *MemBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[booking.ID]; !ok {
		return ErrNotFound
	}
	r.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

// cloneBooking copies the record and its mutable members so callers never
// share state with the store.
func cloneBooking(b *domain.Booking) *domain.Booking {
	c := *b
	c.Passengers = append([]domain.Passenger(nil), b.Passengers...)
	if b.SeatAssignments != nil {
		c.SeatAssignments = make(map[string]string, len(b.SeatAssignments))
		for k, v := range b.SeatAssignments {
			c.SeatAssignments[k] = v
		}
	}
	return &c
}

var _ BookingRepository = (*MemBookingRepository)(nil)
