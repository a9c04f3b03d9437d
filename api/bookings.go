package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/skybook/internal/backend"
	"github.com/Domenick1991/skybook/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register mounts the handlers on an authenticated group.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/bookings", h.list)
	router.POST("/book-flight", h.create)
}

func (h *BookingHandler) list(c *gin.Context) {
	id, _ := CurrentIdentity(c)
	bookings, err := h.service.ListBookings(c.Request.Context(), id.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, backend.BookingsResponse{Bookings: bookings})
}

func (h *BookingHandler) create(c *gin.Context) {
	var req backend.BookFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, backend.BookFlightResponse{Error: err.Error()})
		return
	}

	id, _ := CurrentIdentity(c)
	b, err := h.service.BookFlight(c.Request.Context(), id, booking.BookFlightInput{
		FlightNumber:  req.FlightNumber,
		Date:          req.Date,
		PassengerName: req.PassengerName,
		Passengers:    req.Passengers,
	})
	if err != nil {
		c.JSON(bookingErrorCode(err), backend.BookFlightResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, backend.BookFlightResponse{Success: true, Booking: b})
}

func bookingErrorCode(err error) int {
	switch {
	case errors.Is(err, booking.ErrFlightNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrNoSeats), errors.Is(err, booking.ErrInProgress):
		return http.StatusConflict
	case errors.Is(err, booking.ErrFlightNumberRequired),
		errors.Is(err, booking.ErrPassengerNameRequired),
		errors.Is(err, booking.ErrInvalidPassengers),
		errors.Is(err, booking.ErrInvalidDate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
