package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/Domenick1991/skybooking/internal/notifier"
	"github.com/Domenick1991/skybooking/internal/repository"
	"github.com/Domenick1991/skybooking/internal/service/flights"
	"github.com/Domenick1991/skybooking/internal/stream"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// stubDemo yields its updates in order, then blocks until the client
// disconnects.
type stubDemo struct {
	initial stream.DemoUpdate
	updates []stream.DemoUpdate
}

func (s *stubDemo) Initial() stream.DemoUpdate {
	return s.initial
}

func (s *stubDemo) Next(ctx context.Context) (stream.DemoUpdate, bool) {
	if len(s.updates) == 0 {
		<-ctx.Done()
		return stream.DemoUpdate{}, false
	}
	update := s.updates[0]
	s.updates = s.updates[1:]
	return update, true
}

type flightTestStack struct {
	router   *gin.Engine
	statuses repository.FlightStatusRepository
	bookings repository.BookingRepository
}

func newFlightStack(t *testing.T, demo stream.DemoSource) *flightTestStack {
	t.Helper()

	statuses := repository.NewFlightStatusRepository()
	bookings := repository.NewBookingRepository()
	svc := flights.NewFlightService(statuses, bookings, notifier.New(), nil, "", nil)

	handler := NewFlightHandler(svc, time.Second)
	if demo != nil {
		handler.WithDemoSource(func(string) stream.DemoSource { return demo })
	}

	router := gin.New()
	handler.Register(router.Group("/flights"))
	handler.RegisterDemo(router)

	return &flightTestStack{router: router, statuses: statuses, bookings: bookings}
}

func TestFlightHandler_Search(t *testing.T) {
	stack := newFlightStack(t, nil)

	w := doJSON(t, stack.router, http.MethodGet,
		"/flights/search?origin=JFK&destination=LAX&departureDate=2026-09-10&returnDate=2026-09-20", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var result flights.SearchResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.NotEmpty(t, result.DepartureFlights)
	assert.NotEmpty(t, result.ReturnFlights)
	assert.Equal(t, "JFK", result.DepartureFlights[0].Origin)
	assert.Equal(t, "LAX", result.ReturnFlights[0].Origin)
}

func TestFlightHandler_Search_MissingParams(t *testing.T) {
	stack := newFlightStack(t, nil)

	w := doJSON(t, stack.router, http.MethodGet, "/flights/search?origin=JFK", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "origin, destination and departureDate are required")
}

func TestFlightHandler_GetStatus(t *testing.T) {
	stack := newFlightStack(t, nil)

	assert.NoError(t, stack.statuses.Save(context.Background(), &domain.FlightStatus{
		FlightID:     "JFK-LAX-1",
		FlightNumber: "SV123",
		Status:       domain.FlightBoarding,
	}))

	w := doJSON(t, stack.router, http.MethodGet, "/flights/JFK-LAX-1/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var status domain.FlightStatus
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, domain.FlightBoarding, status.Status)
}

func TestFlightHandler_GetStatus_NotFound(t *testing.T) {
	stack := newFlightStack(t, nil)

	w := doJSON(t, stack.router, http.MethodGet, "/flights/missing/status", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Flight status not found")
}

func TestFlightHandler_UpdateStatus(t *testing.T) {
	stack := newFlightStack(t, nil)

	assert.NoError(t, stack.statuses.Save(context.Background(), &domain.FlightStatus{
		FlightID:     "JFK-LAX-1",
		FlightNumber: "SV123",
		Status:       domain.FlightOnTime,
	}))

	w := doJSON(t, stack.router, http.MethodPut, "/flights/JFK-LAX-1/status", map[string]any{
		"status":       "delayed",
		"delayMinutes": 45,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var status domain.FlightStatus
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, domain.FlightDelayed, status.Status)
	assert.Equal(t, 45, status.DelayMinutes)
}

func TestFlightHandler_UpdateStatus_NotFound(t *testing.T) {
	stack := newFlightStack(t, nil)

	w := doJSON(t, stack.router, http.MethodPut, "/flights/missing/status", map[string]any{
		"status": "delayed",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlightHandler_DemoStream(t *testing.T) {
	demo := &stubDemo{
		initial: stream.DemoUpdate{FlightNumber: "SV123", Status: "on-time", Message: "Flight is currently on schedule"},
		updates: []stream.DemoUpdate{
			{FlightNumber: "SV123", Status: "boarding", Message: "Boarding has started"},
		},
	}
	stack := newFlightStack(t, demo)

	server := httptest.NewServer(stack.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/flight-status?flight=SV123", nil)
	assert.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	body, _ := io.ReadAll(resp.Body)
	text := string(body)
	assert.Contains(t, text, "on-time")
	assert.Contains(t, text, "Boarding has started")
}
