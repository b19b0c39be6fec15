package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/Domenick1991/skybooking/internal/kafka"
	"github.com/Domenick1991/skybooking/internal/repository"
	"github.com/Domenick1991/skybooking/internal/service/flights"
	"github.com/Domenick1991/skybooking/internal/ticket"
	"github.com/google/uuid"
)

var (
	ErrMissingFields   = errors.New("missing required fields")
	ErrNoPassengers    = errors.New("at least one passenger is required")
	ErrPassengerFields = errors.New("each passenger must have firstName, lastName, and email")
	ErrSeatAssignment  = errors.New("seat assignment references an unknown passenger")
	ErrNotTicketable   = errors.New("e-ticket can only be generated for confirmed bookings")
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	GetBookingsByEmail(ctx context.Context, email string) ([]domain.Booking, error)
	UpdateBooking(ctx context.Context, id string, input UpdateBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id string) (*domain.Booking, error)
	CheckInBooking(ctx context.Context, id string, seatAssignments map[string]string) (*domain.Booking, error)
	OpenCheckInWindows(ctx context.Context) ([]domain.Booking, error)
	ETicket(ctx context.Context, id string) (*ticket.View, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Events interface {
	Emit(event domain.BookingUpdateEvent)
}

// StatusGenerator seeds the operational status for a freshly referenced
// flight.
type StatusGenerator func(flightID, flightNumber string) *domain.FlightStatus

type BookingService struct {
	bookings           repository.BookingRepository
	statuses           repository.FlightStatusRepository
	events             Events
	producer           Producer
	notificationsTopic string
	statusGen          StatusGenerator
	now                func() time.Time
}

type CreateBookingInput struct {
	FlightID      string             `json:"flightId"`
	FlightNumber  string             `json:"flightNumber"`
	Airline       string             `json:"airline"`
	Origin        string             `json:"origin"`
	Destination   string             `json:"destination"`
	DepartureDate string             `json:"departureDate"`
	DepartureTime string             `json:"departureTime"`
	ArrivalTime   string             `json:"arrivalTime"`
	Passengers    []domain.Passenger `json:"passengers"`
	CabinClass    string             `json:"cabinClass"`
	TotalAmount   float64            `json:"totalAmount"`
	PaymentMethod string             `json:"paymentMethod"`
	ReturnFlight  *ReturnFlightInput `json:"returnFlightDetails,omitempty"`
}

type ReturnFlightInput struct {
	FlightID      string `json:"flightId"`
	FlightNumber  string `json:"flightNumber"`
	DepartureDate string `json:"departureDate"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
}

// UpdateBookingInput carries a partial update; nil fields are left alone.
// Status is updatable here: the HTTP layer strips it from PATCH payloads,
// the service itself does not restrict it.
type UpdateBookingInput struct {
	Status              *domain.BookingStatus
	DepartureDate       *string
	DepartureTime       *string
	ArrivalTime         *string
	ReturnDepartureDate *string
	ReturnDepartureTime *string
	ReturnArrivalTime   *string
	Passengers          []domain.Passenger
	CabinClass          *string
	TotalAmount         *float64
	PaymentMethod       *string
	CheckInStatus       *domain.CheckInStatus
	SeatAssignments     map[string]string
}

type BookingServiceOption func(*BookingService)

func WithStatusGenerator(gen StatusGenerator) BookingServiceOption {
	return func(s *BookingService) {
		s.statusGen = gen
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	statuses repository.FlightStatusRepository,
	events Events,
	producer Producer,
	notificationsTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:           bookings,
		statuses:           statuses,
		events:             events,
		producer:           producer,
		notificationsTopic: notificationsTopic,
		statusGen:          flights.RandomStatus,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.FlightID == "" || input.FlightNumber == "" || input.Airline == "" ||
		input.Origin == "" || input.Destination == "" || input.DepartureDate == "" ||
		input.DepartureTime == "" || input.ArrivalTime == "" || input.CabinClass == "" ||
		input.TotalAmount == 0 || input.PaymentMethod == "" {
		return nil, ErrMissingFields
	}
	if len(input.Passengers) == 0 {
		return nil, ErrNoPassengers
	}
	for _, p := range input.Passengers {
		if p.FirstName == "" || p.LastName == "" || p.Email == "" {
			return nil, ErrPassengerFields
		}
	}
	if rf := input.ReturnFlight; rf != nil {
		if rf.FlightID == "" || rf.FlightNumber == "" || rf.DepartureDate == "" ||
			rf.DepartureTime == "" || rf.ArrivalTime == "" {
			return nil, ErrMissingFields
		}
	}

	now := s.now()

	passengers := append([]domain.Passenger(nil), input.Passengers...)
	for i := range passengers {
		if passengers[i].ID == "" {
			passengers[i].ID = uuid.NewString()
		}
	}

	booking := &domain.Booking{
		ID:            uuid.NewString(),
		Status:        domain.BookingStatusConfirmed,
		FlightID:      input.FlightID,
		FlightNumber:  input.FlightNumber,
		Airline:       input.Airline,
		Origin:        input.Origin,
		Destination:   input.Destination,
		DepartureDate: input.DepartureDate,
		DepartureTime: input.DepartureTime,
		ArrivalTime:   input.ArrivalTime,
		Passengers:    passengers,
		CabinClass:    input.CabinClass,
		TotalAmount:   input.TotalAmount,
		PaymentMethod: input.PaymentMethod,
		CheckInStatus: domain.CheckInNotAvailable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if rf := input.ReturnFlight; rf != nil {
		booking.ReturnFlightID = rf.FlightID
		booking.ReturnFlightNumber = rf.FlightNumber
		booking.ReturnDepartureDate = rf.DepartureDate
		booking.ReturnDepartureTime = rf.DepartureTime
		booking.ReturnArrivalTime = rf.ArrivalTime
	}

	if err := s.bookings.Insert(ctx, booking); err != nil {
		return nil, err
	}

	s.seedStatus(ctx, booking.FlightID, booking.FlightNumber)
	if booking.HasReturnFlight() {
		s.seedStatus(ctx, booking.ReturnFlightID, booking.ReturnFlightNumber)
	}

	s.events.Emit(domain.BookingUpdateEvent{
		Type:      domain.EventStatusChange,
		BookingID: booking.ID,
		Message:   "Booking confirmed",
		Timestamp: now,
	})
	s.notify(ctx, booking, kafka.NotificationBookingConfirmed, "Booking confirmed")

	return booking, nil
}

// seedStatus creates a FlightStatus the first time any booking references
// the flight, so bookings never point at a missing status.
func (s *BookingService) seedStatus(ctx context.Context, flightID, flightNumber string) {
	if _, err := s.statuses.Get(ctx, flightID); err == nil {
		return
	}
	if err := s.statuses.Save(ctx, s.statusGen(flightID, flightNumber)); err != nil {
		log.Printf("seed flight status %s: %v", flightID, err)
	}
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) GetBookingsByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	return s.bookings.ListByEmail(ctx, email)
}

func (s *BookingService) UpdateBooking(ctx context.Context, id string, input UpdateBookingInput) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(current, input)
	current.UpdatedAt = s.now()

	if err := s.bookings.Update(ctx, current); err != nil {
		return nil, err
	}

	s.events.Emit(domain.BookingUpdateEvent{
		Type:      domain.EventStatusChange,
		BookingID: current.ID,
		Message:   "Booking details updated",
		Timestamp: current.UpdatedAt,
	})
	s.notify(ctx, current, kafka.NotificationBookingUpdated, "Booking details updated")
	return current, nil
}

// applyUpdate merges the partial input. ID and CreatedAt are not part of the
// input type at all, so they can never change here.
func applyUpdate(b *domain.Booking, input UpdateBookingInput) {
	if input.Status != nil {
		b.Status = *input.Status
	}
	if input.DepartureDate != nil {
		b.DepartureDate = *input.DepartureDate
	}
	if input.DepartureTime != nil {
		b.DepartureTime = *input.DepartureTime
	}
	if input.ArrivalTime != nil {
		b.ArrivalTime = *input.ArrivalTime
	}
	if input.ReturnDepartureDate != nil {
		b.ReturnDepartureDate = *input.ReturnDepartureDate
	}
	if input.ReturnDepartureTime != nil {
		b.ReturnDepartureTime = *input.ReturnDepartureTime
	}
	if input.ReturnArrivalTime != nil {
		b.ReturnArrivalTime = *input.ReturnArrivalTime
	}
	if input.Passengers != nil {
		b.Passengers = input.Passengers
	}
	if input.CabinClass != nil {
		b.CabinClass = *input.CabinClass
	}
	if input.TotalAmount != nil {
		b.TotalAmount = *input.TotalAmount
	}
	if input.PaymentMethod != nil {
		b.PaymentMethod = *input.PaymentMethod
	}
	if input.CheckInStatus != nil {
		b.CheckInStatus = *input.CheckInStatus
	}
	if input.SeatAssignments != nil {
		b.SeatAssignments = input.SeatAssignments
	}
}

// CancelBooking transitions unconditionally. Guarding against a repeated
// cancel is the caller's job; the HTTP layer rejects it with 400.
func (s *BookingService) CancelBooking(ctx context.Context, id string) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current.Status = domain.BookingStatusCancelled
	current.UpdatedAt = s.now()
	if err := s.bookings.Update(ctx, current); err != nil {
		return nil, err
	}

	s.events.Emit(domain.BookingUpdateEvent{
		Type:      domain.EventStatusChange,
		BookingID: current.ID,
		Message:   "Booking cancelled",
		Timestamp: current.UpdatedAt,
	})
	s.notify(ctx, current, kafka.NotificationBookingCancelled, "Booking cancelled")
	return current, nil
}

func (s *BookingService) CheckInBooking(ctx context.Context, id string, seatAssignments map[string]string) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(current.Passengers))
	for _, p := range current.Passengers {
		known[p.ID] = true
	}
	for passengerID := range seatAssignments {
		if !known[passengerID] {
			return nil, ErrSeatAssignment
		}
	}

	current.CheckInStatus = domain.CheckInCompleted
	current.SeatAssignments = seatAssignments
	current.UpdatedAt = s.now()
	if err := s.bookings.Update(ctx, current); err != nil {
		return nil, err
	}

	s.events.Emit(domain.BookingUpdateEvent{
		Type:      domain.EventCheckIn,
		BookingID: current.ID,
		Message:   "Check-in completed",
		Timestamp: current.UpdatedAt,
		Details:   map[string]any{"seatAssignments": seatAssignments},
	})
	s.notify(ctx, current, kafka.NotificationCheckInCompleted, "Check-in completed")
	return current, nil
}

// OpenCheckInWindows flips not_available check-ins to available for
// bookings departing within the next 24 hours. Driven by the worker sweep.
func (s *BookingService) OpenCheckInWindows(ctx context.Context) ([]domain.Booking, error) {
	all, err := s.bookings.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var opened []domain.Booking
	for _, b := range all {
		if b.Status != domain.BookingStatusConfirmed || b.CheckInStatus != domain.CheckInNotAvailable {
			continue
		}
		departure, err := time.Parse("2006-01-02 15:04", b.DepartureDate+" "+b.DepartureTime)
		if err != nil {
			continue
		}
		if departure.Before(now) || departure.Sub(now) > 24*time.Hour {
			continue
		}

		b.CheckInStatus = domain.CheckInAvailable
		b.UpdatedAt = now
		if err := s.bookings.Update(ctx, &b); err != nil {
			log.Printf("open check-in for booking %s: %v", b.ID, err)
			continue
		}

		s.events.Emit(domain.BookingUpdateEvent{
			Type:      domain.EventStatusChange,
			BookingID: b.ID,
			Message:   "Check-in now available",
			Timestamp: now,
			Details:   map[string]any{"checkInStatus": domain.CheckInAvailable},
		})
		s.notify(ctx, &b, kafka.NotificationCheckInOpen, "Check-in now available")
		opened = append(opened, b)
	}
	return opened, nil
}

func (s *BookingService) ETicket(ctx context.Context, id string) (*ticket.View, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.BookingStatusConfirmed && current.Status != domain.BookingStatusCompleted {
		return nil, ErrNotTicketable
	}
	view := ticket.Build(current, s.now())
	return &view, nil
}

// notify publishes to the notifications topic. Failures are logged and
// swallowed: a lost email never fails the booking operation.
func (s *BookingService) notify(ctx context.Context, b *domain.Booking, kind, message string) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	notification := kafka.BookingNotification{
		Type:         kind,
		BookingID:    b.ID,
		Email:        b.Passengers[0].Email,
		FlightNumber: b.FlightNumber,
		Message:      message,
		Timestamp:    s.now(),
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, b.ID, notification); err != nil {
		log.Printf("WARNING: failed to publish %s notification for booking %s: %v", kind, b.ID, err)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
