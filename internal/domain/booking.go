package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type CheckInStatus string

const (
	CheckInNotAvailable CheckInStatus = "not_available"
	CheckInAvailable    CheckInStatus = "available"
	CheckInCompleted    CheckInStatus = "completed"
)

type Passenger struct {
	ID              string `json:"id"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address,omitempty"`
	City            string `json:"city,omitempty"`
	ZipCode         string `json:"zipCode,omitempty"`
	Country         string `json:"country,omitempty"`
	DateOfBirth     string `json:"dateOfBirth,omitempty"`
	PassportNumber  string `json:"passportNumber,omitempty"`
	PassportExpiry  string `json:"passportExpiry,omitempty"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

// Booking is one purchased trip. The return-leg fields are either all set
// or all empty.
type Booking struct {
	ID            string        `json:"id"`
	Status        BookingStatus `json:"status"`
	FlightID      string        `json:"flightId"`
	FlightNumber  string        `json:"flightNumber"`
	Airline       string        `json:"airline"`
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	DepartureDate string        `json:"departureDate"`
	DepartureTime string        `json:"departureTime"`
	ArrivalTime   string        `json:"arrivalTime"`

	ReturnFlightID      string `json:"returnFlightId,omitempty"`
	ReturnFlightNumber  string `json:"returnFlightNumber,omitempty"`
	ReturnDepartureDate string `json:"returnDepartureDate,omitempty"`
	ReturnDepartureTime string `json:"returnDepartureTime,omitempty"`
	ReturnArrivalTime   string `json:"returnArrivalTime,omitempty"`

	Passengers      []Passenger       `json:"passengers"`
	CabinClass      string            `json:"cabinClass"`
	TotalAmount     float64           `json:"totalAmount"`
	PaymentMethod   string            `json:"paymentMethod"`
	CheckInStatus   CheckInStatus     `json:"checkInStatus"`
	SeatAssignments map[string]string `json:"seatAssignments,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

func (b *Booking) HasReturnFlight() bool {
	return b.ReturnFlightID != ""
}

// HasPassengerEmail reports whether any passenger carries exactly this email.
func (b *Booking) HasPassengerEmail(email string) bool {
	for _, p := range b.Passengers {
		if p.Email == email {
			return true
		}
	}
	return false
}

type EventKind string

const (
	EventStatusChange EventKind = "status_change"
	EventCheckIn      EventKind = "check_in"
	EventFlightUpdate EventKind = "flight_update"
	EventGateChange   EventKind = "gate_change"
	EventDelay        EventKind = "delay"
)

// BookingUpdateEvent is a transient notification: delivered to currently
// subscribed listeners, never persisted.
type BookingUpdateEvent struct {
	Type      EventKind      `json:"type"`
	BookingID string         `json:"bookingId"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}
