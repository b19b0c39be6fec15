package flights

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/Domenick1991/skybooking/internal/kafka"
	"github.com/Domenick1991/skybooking/internal/repository"
)

var ErrMissingSearchParams = errors.New("origin, destination and departureDate are required")

type FlightUseCase interface {
	Search(ctx context.Context, input SearchInput) (*SearchResult, error)
	GetStatus(ctx context.Context, flightID string) (*domain.FlightStatus, error)
	UpdateStatus(ctx context.Context, flightID string, input StatusUpdateInput) (*domain.FlightStatus, error)
}

type Cache interface {
	GetSearch(ctx context.Context, key string) (*SearchResult, error)
	SetSearch(ctx context.Context, key string, result *SearchResult) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Events interface {
	Emit(event domain.BookingUpdateEvent)
}

type FlightService struct {
	statuses           repository.FlightStatusRepository
	bookings           repository.BookingRepository
	events             Events
	producer           Producer
	notificationsTopic string
	cache              Cache
	generate           func(origin, destination, departureDate, cabinClass string, index int) domain.Flight
	now                func() time.Time
}

type SearchInput struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	CabinClass    string
	Passengers    int
	SortBy        string // "price", "duration" or empty for departure time
}

type SearchResult struct {
	DepartureFlights []domain.Flight `json:"departureFlights"`
	ReturnFlights    []domain.Flight `json:"returnFlights,omitempty"`
}

// StatusUpdateInput is a partial flight-status update; nil fields are left
// alone. Which fields are set decides the event kind fanned out to bookings.
type StatusUpdateInput struct {
	Status            *domain.FlightPhase
	DepartureGate     *string
	ArrivalGate       *string
	DepartureTerminal *string
	ArrivalTerminal   *string
	DelayMinutes      *int
}

type FlightServiceOption func(*FlightService)

func WithGenerator(gen func(origin, destination, departureDate, cabinClass string, index int) domain.Flight) FlightServiceOption {
	return func(s *FlightService) {
		s.generate = gen
	}
}

func WithClock(now func() time.Time) FlightServiceOption {
	return func(s *FlightService) {
		s.now = now
	}
}

func NewFlightService(
	statuses repository.FlightStatusRepository,
	bookings repository.BookingRepository,
	events Events,
	producer Producer,
	notificationsTopic string,
	cache Cache,
	opts ...FlightServiceOption,
) *FlightService {
	service := &FlightService{
		statuses:           statuses,
		bookings:           bookings,
		events:             events,
		producer:           producer,
		notificationsTopic: notificationsTopic,
		cache:              cache,
		generate:           GenerateFlight,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *FlightService) Search(ctx context.Context, input SearchInput) (*SearchResult, error) {
	if input.Origin == "" || input.Destination == "" || input.DepartureDate == "" {
		return nil, ErrMissingSearchParams
	}
	if input.CabinClass == "" {
		input.CabinClass = "Economy"
	}

	result := s.cachedSearch(ctx, input)
	if result == nil {
		result = &SearchResult{
			DepartureFlights: s.generateLeg(input.Origin, input.Destination, input.DepartureDate, input.CabinClass),
		}
		if input.ReturnDate != "" {
			result.ReturnFlights = s.generateLeg(input.Destination, input.Origin, input.ReturnDate, input.CabinClass)
		}
		if s.cache != nil {
			if err := s.cache.SetSearch(ctx, searchKey(input), result); err != nil {
				log.Printf("cache search results: %v", err)
			}
		}
	}

	sortFlights(result.DepartureFlights, input.SortBy)
	sortFlights(result.ReturnFlights, input.SortBy)
	return result, nil
}

func (s *FlightService) cachedSearch(ctx context.Context, input SearchInput) *SearchResult {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.GetSearch(ctx, searchKey(input))
	if err != nil || cached == nil {
		return nil
	}
	return cached
}

func (s *FlightService) generateLeg(origin, destination, date, cabinClass string) []domain.Flight {
	count := 5 + randIntn(6)
	leg := make([]domain.Flight, count)
	for i := range leg {
		leg[i] = s.generate(origin, destination, date, cabinClass, i)
	}
	sortFlights(leg, "")
	return leg
}

func searchKey(input SearchInput) string {
	return fmt.Sprintf("cache:search:%s:%s:%s:%s:%s", input.Origin, input.Destination, input.DepartureDate, input.ReturnDate, input.CabinClass)
}

func sortFlights(flights []domain.Flight, by string) {
	switch by {
	case "price":
		sort.SliceStable(flights, func(i, j int) bool { return flights[i].Price < flights[j].Price })
	case "duration":
		sort.SliceStable(flights, func(i, j int) bool {
			return flightDuration(flights[i]) < flightDuration(flights[j])
		})
	default:
		sort.SliceStable(flights, func(i, j int) bool { return flights[i].DepartureTime < flights[j].DepartureTime })
	}
}

func flightDuration(f domain.Flight) time.Duration {
	dep, err1 := time.Parse(time.RFC3339, f.DepartureTime)
	arr, err2 := time.Parse(time.RFC3339, f.ArrivalTime)
	if err1 != nil || err2 != nil {
		return 0
	}
	return arr.Sub(dep)
}

func (s *FlightService) GetStatus(ctx context.Context, flightID string) (*domain.FlightStatus, error) {
	return s.statuses.Get(ctx, flightID)
}

// UpdateStatus merges the partial update, then emits exactly one event per
// booking whose outbound or return leg references the flight. The event
// kind follows what changed: delayed status wins over a gate change, and
// anything else is a generic flight update.
func (s *FlightService) UpdateStatus(ctx context.Context, flightID string, input StatusUpdateInput) (*domain.FlightStatus, error) {
	current, err := s.statuses.Get(ctx, flightID)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		current.Status = *input.Status
	}
	if input.DepartureGate != nil {
		current.DepartureGate = *input.DepartureGate
	}
	if input.ArrivalGate != nil {
		current.ArrivalGate = *input.ArrivalGate
	}
	if input.DepartureTerminal != nil {
		current.DepartureTerminal = *input.DepartureTerminal
	}
	if input.ArrivalTerminal != nil {
		current.ArrivalTerminal = *input.ArrivalTerminal
	}
	if input.DelayMinutes != nil {
		current.DelayMinutes = *input.DelayMinutes
	}
	if current.Status != domain.FlightDelayed {
		current.DelayMinutes = 0
	}
	current.UpdatedAt = s.now()

	if err := s.statuses.Save(ctx, current); err != nil {
		return nil, err
	}

	affected, err := s.bookings.ListByFlightID(ctx, flightID)
	if err != nil {
		return nil, err
	}

	kind := domain.EventFlightUpdate
	message := "Flight status updated"
	if input.Status != nil && *input.Status == domain.FlightDelayed {
		kind = domain.EventDelay
		message = fmt.Sprintf("Flight %s delayed by %d minutes", current.FlightNumber, current.DelayMinutes)
	} else if input.DepartureGate != nil || input.ArrivalGate != nil {
		kind = domain.EventGateChange
		message = fmt.Sprintf("Gate changed for flight %s", current.FlightNumber)
	}

	for _, b := range affected {
		s.events.Emit(domain.BookingUpdateEvent{
			Type:      kind,
			BookingID: b.ID,
			Message:   message,
			Timestamp: current.UpdatedAt,
			Details:   map[string]any{"flightStatus": current},
		})
		s.notify(ctx, &b, message)
	}

	return current, nil
}

func (s *FlightService) notify(ctx context.Context, b *domain.Booking, message string) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	notification := kafka.BookingNotification{
		Type:         kafka.NotificationFlightUpdate,
		BookingID:    b.ID,
		Email:        b.Passengers[0].Email,
		FlightNumber: b.FlightNumber,
		Message:      message,
		Timestamp:    s.now(),
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, b.ID, notification); err != nil {
		log.Printf("WARNING: failed to publish flight update notification for booking %s: %v", b.ID, err)
	}
}

var _ FlightUseCase = (*FlightService)(nil)
