package flights

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/Domenick1991/skybooking/internal/domain"
)

var airlines = []string{"Sky Airlines", "Global Airways", "Frontier Jets", "Pacific Air", "Star Express"}

var terminals = []string{"A", "B", "C", "D"}

func randIntn(n int) int {
	return rand.Intn(n)
}

// GenerateFlight makes up one search result for a route. There is no real
// inventory behind the search; results are stable only while cached.
func GenerateFlight(origin, destination, departureDate, cabinClass string, index int) domain.Flight {
	airline := airlines[rand.Intn(len(airlines))]
	airlineCode := strings.ToUpper(strings.Fields(airline)[0][:2])
	flightNumber := fmt.Sprintf("%s%d", airlineCode, 1000+rand.Intn(9000))

	departure, err := time.Parse("2006-01-02", departureDate)
	if err != nil {
		departure = time.Now()
	}
	// Departures between 06:00 and 22:00.
	departure = departure.Add(time.Duration(6+rand.Intn(16))*time.Hour + time.Duration(rand.Intn(60))*time.Minute)

	duration := time.Duration(1+rand.Intn(11))*time.Hour + time.Duration(rand.Intn(60))*time.Minute
	arrival := departure.Add(duration)

	price := 100 + float64(rand.Intn(200))
	switch cabinClass {
	case "Premium Economy":
		price *= 1.5
	case "Business":
		price *= 2.5
	case "First":
		price *= 4
	}
	price = math.Round(price/10) * 10

	return domain.Flight{
		ID:             fmt.Sprintf("%s-%s-%d-%d", origin, destination, departure.UnixMilli(), index),
		FlightNumber:   flightNumber,
		Airline:        airline,
		Origin:         origin,
		Destination:    destination,
		DepartureTime:  departure.Format(time.RFC3339),
		ArrivalTime:    arrival.Format(time.RFC3339),
		Duration:       fmt.Sprintf("%dh %dm", int(duration.Hours()), int(duration.Minutes())%60),
		Price:          price,
		AvailableSeats: 1 + rand.Intn(30),
		CabinClass:     cabinClass,
	}
}

// RandomStatus seeds the operational state for a flight the first time a
// booking references it. Cancelled is never generated.
func RandomStatus(flightID, flightNumber string) *domain.FlightStatus {
	phases := []domain.FlightPhase{
		domain.FlightScheduled, domain.FlightOnTime, domain.FlightDelayed,
		domain.FlightBoarding, domain.FlightDeparted, domain.FlightArrived,
	}
	phase := phases[rand.Intn(len(phases))]

	status := &domain.FlightStatus{
		FlightID:          flightID,
		FlightNumber:      flightNumber,
		Status:            phase,
		DepartureGate:     fmt.Sprintf("G%d", 1+rand.Intn(30)),
		ArrivalGate:       fmt.Sprintf("G%d", 1+rand.Intn(30)),
		DepartureTerminal: terminals[rand.Intn(len(terminals))],
		ArrivalTerminal:   terminals[rand.Intn(len(terminals))],
		UpdatedAt:         time.Now(),
	}
	if phase == domain.FlightDelayed {
		status.DelayMinutes = 15 + rand.Intn(120)
	}
	return status
}
