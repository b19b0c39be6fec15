package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/Domenick1991/skybooking/internal/repository"
	"github.com/Domenick1991/skybooking/internal/service/flights"
	"github.com/Domenick1991/skybooking/internal/stream"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
	newDemo func(flightNumber string) stream.DemoSource
}

type updateStatusRequest struct {
	Status            *domain.FlightPhase `json:"status"`
	DepartureGate     *string             `json:"departureGate"`
	ArrivalGate       *string             `json:"arrivalGate"`
	DepartureTerminal *string             `json:"departureTerminal"`
	ArrivalTerminal   *string             `json:"arrivalTerminal"`
	DelayMinutes      *int                `json:"delayMinutes"`
}

func NewFlightHandler(service flights.FlightUseCase, demoInterval time.Duration) *FlightHandler {
	return &FlightHandler{
		service: service,
		newDemo: func(flightNumber string) stream.DemoSource {
			return stream.NewDemoScript(flightNumber, demoInterval)
		},
	}
}

// WithDemoSource swaps the demo stream source; tests inject a
// deterministic one here.
func (h *FlightHandler) WithDemoSource(newDemo func(flightNumber string) stream.DemoSource) *FlightHandler {
	h.newDemo = newDemo
	return h
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/search", h.search)
	router.GET("/:id/status", h.getStatus)
	router.PUT("/:id/status", h.updateStatus)
}

// RegisterDemo mounts the demo-only flight status stream outside the
// /flights group, matching its legacy path.
func (h *FlightHandler) RegisterDemo(router gin.IRoutes) {
	router.GET("/flight-status", h.demoStream)
}

func (h *FlightHandler) search(c *gin.Context) {
	passengers, _ := strconv.Atoi(c.DefaultQuery("passengers", "1"))
	result, err := h.service.Search(c.Request.Context(), flights.SearchInput{
		Origin:        c.Query("origin"),
		Destination:   c.Query("destination"),
		DepartureDate: c.Query("departureDate"),
		ReturnDate:    c.Query("returnDate"),
		CabinClass:    c.Query("cabinClass"),
		Passengers:    passengers,
		SortBy:        c.Query("sort"),
	})
	if err != nil {
		if errors.Is(err, flights.ErrMissingSearchParams) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) getStatus(c *gin.Context) {
	status, err := h.service.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Flight status not found"})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *FlightHandler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), flights.StatusUpdateInput{
		Status:            req.Status,
		DepartureGate:     req.DepartureGate,
		ArrivalGate:       req.ArrivalGate,
		DepartureTerminal: req.DepartureTerminal,
		ArrivalTerminal:   req.ArrivalTerminal,
		DelayMinutes:      req.DelayMinutes,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Flight status not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// demoStream walks a scripted status sequence for the requested flight
// number. It never reads the status store and exists for demos only.
func (h *FlightHandler) demoStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	source := h.newDemo(c.Query("flight"))
	writeEvent(c.Writer, source.Initial())
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		update, ok := source.Next(ctx)
		if !ok {
			return false
		}
		writeEvent(w, update)
		return true
	})
}
