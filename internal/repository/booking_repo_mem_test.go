package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleBooking(id, email string) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		Status:        domain.BookingStatusConfirmed,
		FlightID:      "JFK-LAX-1",
		FlightNumber:  "SV123",
		Airline:       "Sky Airlines",
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureDate: "2026-09-10",
		DepartureTime: "09:15",
		ArrivalTime:   "12:40",
		Passengers: []domain.Passenger{
			{ID: id + "-p1", FirstName: "Ada", LastName: "Lovelace", Email: email},
		},
		CabinClass:    "Economy",
		TotalAmount:   240,
		PaymentMethod: "card",
		CheckInStatus: domain.CheckInNotAvailable,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func TestMemBookingRepository_InsertAndGet(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	b := sampleBooking("b1", "ada@example.com")
	assert.NoError(t, repo.Insert(ctx, b))

	got, err := repo.GetByID(ctx, "b1")
	assert.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestMemBookingRepository_GetByID_NotFound(t *testing.T) {
	repo := NewBookingRepository()

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemBookingRepository_ReturnsCopies(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	assert.NoError(t, repo.Insert(ctx, sampleBooking("b1", "ada@example.com")))

	got, err := repo.GetByID(ctx, "b1")
	assert.NoError(t, err)

	// Mutating the returned record must not leak into the store.
	got.Status = domain.BookingStatusCancelled
	got.Passengers[0].Email = "evil@example.com"

	stored, err := repo.GetByID(ctx, "b1")
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, stored.Status)
	assert.Equal(t, "ada@example.com", stored.Passengers[0].Email)
}

func TestMemBookingRepository_ListByEmail_StoreOrder(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	assert.NoError(t, repo.Insert(ctx, sampleBooking("b1", "ada@example.com")))
	assert.NoError(t, repo.Insert(ctx, sampleBooking("b2", "grace@example.com")))
	assert.NoError(t, repo.Insert(ctx, sampleBooking("b3", "ada@example.com")))

	matched, err := repo.ListByEmail(ctx, "ada@example.com")
	assert.NoError(t, err)
	assert.Len(t, matched, 2)
	assert.Equal(t, "b1", matched[0].ID)
	assert.Equal(t, "b3", matched[1].ID)
}

func TestMemBookingRepository_ListByEmail_ExactMatchOnly(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	assert.NoError(t, repo.Insert(ctx, sampleBooking("b1", "ada@example.com")))

	matched, err := repo.ListByEmail(ctx, "ADA@example.com")
	assert.NoError(t, err)
	assert.Empty(t, matched)
}

func TestMemBookingRepository_ListByFlightID_MatchesReturnLeg(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	outbound := sampleBooking("b1", "ada@example.com")
	withReturn := sampleBooking("b2", "grace@example.com")
	withReturn.FlightID = "LAX-JFK-9"
	withReturn.ReturnFlightID = "JFK-LAX-1"
	withReturn.ReturnFlightNumber = "SV321"
	withReturn.ReturnDepartureDate = "2026-09-20"
	withReturn.ReturnDepartureTime = "18:00"
	withReturn.ReturnArrivalTime = "21:10"
	unrelated := sampleBooking("b3", "joan@example.com")
	unrelated.FlightID = "SFO-SEA-2"

	assert.NoError(t, repo.Insert(ctx, outbound))
	assert.NoError(t, repo.Insert(ctx, withReturn))
	assert.NoError(t, repo.Insert(ctx, unrelated))

	matched, err := repo.ListByFlightID(ctx, "JFK-LAX-1")
	assert.NoError(t, err)
	assert.Len(t, matched, 2)
	assert.Equal(t, "b1", matched[0].ID)
	assert.Equal(t, "b2", matched[1].ID)
}

func TestMemBookingRepository_Update_NotFound(t *testing.T) {
	repo := NewBookingRepository()

	err := repo.Update(context.Background(), sampleBooking("ghost", "ada@example.com"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemFlightStatusRepository_SaveAndGet(t *testing.T) {
	repo := NewFlightStatusRepository()
	ctx := context.Background()

	status := &domain.FlightStatus{
		FlightID:     "JFK-LAX-1",
		FlightNumber: "SV123",
		Status:       domain.FlightOnTime,
		UpdatedAt:    time.Now(),
	}
	assert.NoError(t, repo.Save(ctx, status))

	got, err := repo.Get(ctx, "JFK-LAX-1")
	assert.NoError(t, err)
	assert.Equal(t, status, got)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
