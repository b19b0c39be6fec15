package stream

import (
	"context"
	"math/rand"
	"time"
)

// DemoUpdate is the payload of the demo-only flight-status stream. The
// stream walks a fixed script per flight and never consults the status
// store, so it must not be read as operational truth.
type DemoUpdate struct {
	FlightNumber string    `json:"flight_number"`
	Status       string    `json:"status"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
	DelayMinutes int       `json:"delay_minutes,omitempty"`
}

// DemoSource yields scripted status ticks on a fixed cadence.
type DemoSource interface {
	Initial() DemoUpdate
	Next(ctx context.Context) (DemoUpdate, bool)
}

var demoScripts = map[string][]string{
	"SV123": {"boarding", "delayed", "in-air", "landed"},
	"SV456": {"delayed", "boarding", "cancelled"},
}

// NewDemoScript paces through the scripted updates for a flight number.
// Unknown flights get an initial on-time status and then nothing.
func NewDemoScript(flightNumber string, interval time.Duration) DemoSource {
	return &demoScript{
		flightNumber: flightNumber,
		updates:      demoScripts[flightNumber],
		interval:     interval,
	}
}

type demoScript struct {
	flightNumber string
	updates      []string
	interval     time.Duration
	index        int
}

func (d *demoScript) Initial() DemoUpdate {
	flightNumber := d.flightNumber
	if flightNumber == "" {
		flightNumber = "unknown"
	}
	return DemoUpdate{
		FlightNumber: flightNumber,
		Status:       "on-time",
		Message:      "Flight is currently on schedule",
		Timestamp:    time.Now(),
	}
}

func (d *demoScript) Next(ctx context.Context) (DemoUpdate, bool) {
	for {
		timer := time.NewTimer(d.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return DemoUpdate{}, false
		case <-timer.C:
		}

		if len(d.updates) == 0 {
			// Unknown flight: keep the connection open without updates.
			continue
		}

		status := d.updates[d.index%len(d.updates)]
		d.index++

		update := DemoUpdate{
			FlightNumber: d.flightNumber,
			Status:       status,
			Message:      demoStatusMessage(status),
			Timestamp:    time.Now(),
		}
		if status == "delayed" {
			update.DelayMinutes = 15 + rand.Intn(120)
		}
		return update, true
	}
}

func demoStatusMessage(status string) string {
	switch status {
	case "on-time":
		return "Flight is on schedule"
	case "delayed":
		return "Flight is experiencing a delay"
	case "boarding":
		return "Boarding has started"
	case "in-air":
		return "Flight has departed and is in the air"
	case "landed":
		return "Flight has landed at its destination"
	case "cancelled":
		return "Flight has been cancelled"
	default:
		return "Status information unavailable"
	}
}
