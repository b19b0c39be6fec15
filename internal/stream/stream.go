package stream

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/Domenick1991/skybooking/internal/domain"
)

// Source produces a lazy sequence of synthetic booking updates. Next blocks
// until the next update is due and reports false once ctx is canceled.
// Handlers take a Source instead of owning timers so tests can inject a
// deterministic sequence.
type Source interface {
	Next(ctx context.Context) (domain.BookingUpdateEvent, bool)
}

// NewBookingSimulator mimics operational churn for one booking: a first
// update after 3s, then one every 5-15s. These updates are simulated
// presentation noise layered on top of real notifier events.
func NewBookingSimulator(bookingID string) Source {
	return &bookingSimulator{bookingID: bookingID}
}

type bookingSimulator struct {
	bookingID string
	started   bool
}

func (s *bookingSimulator) Next(ctx context.Context) (domain.BookingUpdateEvent, bool) {
	delay := time.Duration(5+rand.Intn(10)) * time.Second
	if !s.started {
		delay = 3 * time.Second
		s.started = true
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return domain.BookingUpdateEvent{}, false
	case <-timer.C:
	}

	return s.randomEvent(), true
}

func (s *bookingSimulator) randomEvent() domain.BookingUpdateEvent {
	event := domain.BookingUpdateEvent{
		BookingID: s.bookingID,
		Timestamp: time.Now(),
		Details:   map[string]any{},
	}

	switch rand.Intn(4) {
	case 0:
		event.Type = domain.EventFlightUpdate
		event.Message = "Flight status updated to boarding"
		event.Details["status"] = "boarding"
	case 1:
		gate := fmt.Sprintf("G%d", 1+rand.Intn(30))
		event.Type = domain.EventGateChange
		event.Message = fmt.Sprintf("Gate changed to %s", gate)
		event.Details["gate"] = gate
	case 2:
		minutes := 15 + rand.Intn(45)
		event.Type = domain.EventDelay
		event.Message = fmt.Sprintf("Flight delayed by %d minutes", minutes)
		event.Details["delayMinutes"] = minutes
	default:
		event.Type = domain.EventStatusChange
		event.Message = "Check-in now available"
		event.Details["checkInStatus"] = "available"
	}
	return event
}
