package repository

import (
	"context"
	"sync"

	"github.com/Domenick1991/skybooking/internal/domain"
)

type FlightStatusRepository interface {
	Get(ctx context.Context, flightID string) (*domain.FlightStatus, error)
	Save(ctx context.Context, status *domain.FlightStatus) error
}

// MemFlightStatusRepository holds one FlightStatus per flight identifier.
// Records are created lazily the first time a booking references a flight,
// so a booking can never point at a missing status.
type MemFlightStatusRepository struct {
	mu       sync.RWMutex
	statuses map[string]*domain.FlightStatus
}

func NewFlightStatusRepository() FlightStatusRepository {
	return &MemFlightStatusRepository{statuses: make(map[string]*domain.FlightStatus)}
}

func (r *MemFlightStatusRepository) Get(ctx context.Context, flightID string) (*domain.FlightStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.statuses[flightID]
	if !ok {
		return nil, ErrNotFound
	}
	c := *s
	return &c, nil
}

func (r *MemFlightStatusRepository) Save(ctx context.Context, status *domain.FlightStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *status
	r.statuses[status.FlightID] = &c
	return nil
}

var _ FlightStatusRepository = (*MemFlightStatusRepository)(nil)
