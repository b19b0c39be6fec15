package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/Domenick1991/skybooking/internal/notifier"
	"github.com/Domenick1991/skybooking/internal/repository"
	"github.com/Domenick1991/skybooking/internal/service/booking"
	"github.com/Domenick1991/skybooking/internal/service/flights"
	"github.com/Domenick1991/skybooking/internal/stream"
	"github.com/Domenick1991/skybooking/internal/ticket"
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service   booking.BookingUseCase
	flights   flights.FlightUseCase
	notifier  *notifier.Notifier
	newSource func(bookingID string) stream.Source
}

// updateBookingRequest is the PATCH body. id, flightId, flightNumber,
// createdAt and status have no field here, so they are silently stripped
// from whatever the caller sends.
type updateBookingRequest struct {
	DepartureDate       *string               `json:"departureDate"`
	DepartureTime       *string               `json:"departureTime"`
	ArrivalTime         *string               `json:"arrivalTime"`
	ReturnDepartureDate *string               `json:"returnDepartureDate"`
	ReturnDepartureTime *string               `json:"returnDepartureTime"`
	ReturnArrivalTime   *string               `json:"returnArrivalTime"`
	Passengers          []domain.Passenger    `json:"passengers"`
	CabinClass          *string               `json:"cabinClass"`
	TotalAmount         *float64              `json:"totalAmount"`
	PaymentMethod       *string               `json:"paymentMethod"`
	CheckInStatus       *domain.CheckInStatus `json:"checkInStatus"`
	SeatAssignments     map[string]string     `json:"seatAssignments"`
}

type checkInRequest struct {
	SeatAssignments map[string]string `json:"seatAssignments" binding:"required"`
}

func NewBookingHandler(service booking.BookingUseCase, flightSvc flights.FlightUseCase, events *notifier.Notifier) *BookingHandler {
	return &BookingHandler{
		service:   service,
		flights:   flightSvc,
		notifier:  events,
		newSource: stream.NewBookingSimulator,
	}
}

// WithSource swaps the synthetic update source; tests inject a
// deterministic one here.
func (h *BookingHandler) WithSource(newSource func(bookingID string) stream.Source) *BookingHandler {
	h.newSource = newSource
	return h
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.PATCH("/:id", h.update)
	router.DELETE("/:id", h.cancel)
	router.POST("/:id/checkin", h.checkIn)
	router.GET("/:id/eticket", h.eticket)
	router.GET("/:id/eticket/download", h.eticketDownload)
	router.GET("/:id/events", h.events)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) list(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email parameter is required"})
		return
	}

	bookings, err := h.service.GetBookingsByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) get(c *gin.Context) {
	found, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *BookingHandler) update(c *gin.Context) {
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateBooking(c.Request.Context(), c.Param("id"), booking.UpdateBookingInput{
		DepartureDate:       req.DepartureDate,
		DepartureTime:       req.DepartureTime,
		ArrivalTime:         req.ArrivalTime,
		ReturnDepartureDate: req.ReturnDepartureDate,
		ReturnDepartureTime: req.ReturnDepartureTime,
		ReturnArrivalTime:   req.ReturnArrivalTime,
		Passengers:          req.Passengers,
		CabinClass:          req.CabinClass,
		TotalAmount:         req.TotalAmount,
		PaymentMethod:       req.PaymentMethod,
		CheckInStatus:       req.CheckInStatus,
		SeatAssignments:     req.SeatAssignments,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	existing, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	if existing.Status == domain.BookingStatusCancelled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking is already cancelled"})
		return
	}

	cancelled, err := h.service.CancelBooking(c.Request.Context(), existing.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

func (h *BookingHandler) checkIn(c *gin.Context) {
	existing, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	if existing.Status == domain.BookingStatusCancelled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot check in to a cancelled booking"})
		return
	}
	if existing.CheckInStatus == domain.CheckInCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Check-in already completed"})
		return
	}

	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkedIn, err := h.service.CheckInBooking(c.Request.Context(), existing.ID, req.SeatAssignments)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, checkedIn)
}

func (h *BookingHandler) eticket(c *gin.Context) {
	view, err := h.ticketView(c)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *BookingHandler) eticketDownload(c *gin.Context) {
	view, err := h.ticketView(c)
	if err != nil {
		return
	}

	pdf, err := ticket.RenderPDF(*view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate e-ticket"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=eticket-%s.pdf", view.BookingReference))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ticketView resolves the e-ticket or writes the error response itself.
func (h *BookingHandler) ticketView(c *gin.Context) (*ticket.View, error) {
	view, err := h.service.ETicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return nil, err
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "E-ticket can only be generated for confirmed bookings"})
		return nil, err
	}
	return view, nil
}

// events streams booking updates: the current flight status first, then
// every notifier event for the booking, interleaved with simulated updates
// from the source. The stream ends when the client disconnects.
func (h *BookingHandler) events(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ctx := c.Request.Context()

	if status, err := h.flights.GetStatus(ctx, b.FlightID); err == nil {
		writeEvent(c.Writer, domain.BookingUpdateEvent{
			Type:      domain.EventFlightUpdate,
			BookingID: b.ID,
			Message:   fmt.Sprintf("Flight status: %s", status.Status),
			Timestamp: time.Now(),
			Details:   map[string]any{"flightStatus": status},
		})
	}
	if b.HasReturnFlight() {
		if status, err := h.flights.GetStatus(ctx, b.ReturnFlightID); err == nil {
			writeEvent(c.Writer, domain.BookingUpdateEvent{
				Type:      domain.EventFlightUpdate,
				BookingID: b.ID,
				Message:   fmt.Sprintf("Return flight status: %s", status.Status),
				Timestamp: time.Now(),
				Details:   map[string]any{"flightStatus": status, "isReturnFlight": true},
			})
		}
	}
	c.Writer.Flush()

	updates := make(chan domain.BookingUpdateEvent, 16)
	unsubscribe := h.notifier.Subscribe(b.ID, func(event domain.BookingUpdateEvent) {
		select {
		case updates <- event:
		default:
			// Slow client: drop rather than block the emitter.
		}
	})
	defer unsubscribe()

	source := h.newSource(b.ID)
	go func() {
		for {
			event, ok := source.Next(ctx)
			if !ok {
				return
			}
			select {
			case updates <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	c.Stream(func(w io.Writer) bool {
		select {
		case event := <-updates:
			writeEvent(w, event)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

func writeEvent(w io.Writer, payload any) {
	_ = sse.Encode(w, sse.Event{Data: payload})
}
