package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/skybooking/internal/domain"
)

// View is the read-only e-ticket derived from a confirmed booking.
type View struct {
	BookingID        string          `json:"bookingId"`
	BookingReference string          `json:"bookingReference"`
	IssueDate        time.Time       `json:"issueDate"`
	FlightInfo       FlightInfo      `json:"flightInfo"`
	Passengers       []PassengerSeat `json:"passengers"`
	TicketURL        string          `json:"ticketUrl"`
	Terms            string          `json:"termsAndConditions"`
}

type FlightInfo struct {
	Airline       string `json:"airline"`
	FlightNumber  string `json:"flightNumber"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
	CabinClass    string `json:"cabinClass"`
}

type PassengerSeat struct {
	Name string `json:"name"`
	Seat string `json:"seat"`
}

// Build derives the ticket view. Ticketability (confirmed or completed
// status) is the caller's concern.
func Build(b *domain.Booking, issuedAt time.Time) View {
	passengers := make([]PassengerSeat, 0, len(b.Passengers))
	for _, p := range b.Passengers {
		seat := b.SeatAssignments[p.ID]
		if seat == "" {
			seat = "To be assigned"
		}
		passengers = append(passengers, PassengerSeat{
			Name: fmt.Sprintf("%s %s", p.FirstName, p.LastName),
			Seat: seat,
		})
	}

	return View{
		BookingID:        b.ID,
		BookingReference: Reference(b.ID),
		IssueDate:        issuedAt,
		FlightInfo: FlightInfo{
			Airline:       b.Airline,
			FlightNumber:  b.FlightNumber,
			Origin:        b.Origin,
			Destination:   b.Destination,
			DepartureDate: b.DepartureDate,
			DepartureTime: b.DepartureTime,
			ArrivalTime:   b.ArrivalTime,
			CabinClass:    b.CabinClass,
		},
		Passengers: passengers,
		TicketURL:  fmt.Sprintf("/bookings/%s/eticket/download", b.ID),
		Terms:      "Standard terms and conditions apply.",
	}
}

// Reference is the short human-facing booking code.
func Reference(bookingID string) string {
	ref := bookingID
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return strings.ToUpper(ref)
}
