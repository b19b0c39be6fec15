package domain

import "time"

type FlightPhase string

const (
	FlightScheduled FlightPhase = "scheduled"
	FlightOnTime    FlightPhase = "on_time"
	FlightDelayed   FlightPhase = "delayed"
	FlightBoarding  FlightPhase = "boarding"
	FlightDeparted  FlightPhase = "departed"
	FlightArrived   FlightPhase = "arrived"
	FlightCancelled FlightPhase = "cancelled"
)

// FlightStatus is the operational state tracked per flight identifier,
// independent of any booking. DelayMinutes is meaningful only while the
// phase is delayed.
type FlightStatus struct {
	FlightID          string      `json:"flightId"`
	FlightNumber      string      `json:"flightNumber"`
	Status            FlightPhase `json:"status"`
	DepartureGate     string      `json:"departureGate,omitempty"`
	ArrivalGate       string      `json:"arrivalGate,omitempty"`
	DepartureTerminal string      `json:"departureTerminal,omitempty"`
	ArrivalTerminal   string      `json:"arrivalTerminal,omitempty"`
	DelayMinutes      int         `json:"delayMinutes"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// Flight is a single search result row.
type Flight struct {
	ID             string  `json:"id"`
	FlightNumber   string  `json:"flightNumber"`
	Airline        string  `json:"airline"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	DepartureTime  string  `json:"departureTime"`
	ArrivalTime    string  `json:"arrivalTime"`
	Duration       string  `json:"duration"`
	Price          float64 `json:"price"`
	AvailableSeats int     `json:"availableSeats"`
	CabinClass     string  `json:"cabinClass"`
}
