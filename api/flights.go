package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/skybook/internal/backend"
	"github.com/Domenick1991/skybook/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights", h.list)
	router.GET("/flight-status/:flightNumber", h.status)
}

func (h *FlightHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"flights": list})
}

func (h *FlightHandler) status(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context(), c.Param("flightNumber"))
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, flights.ErrNotFound) {
			code = http.StatusNotFound
		}
		c.JSON(code, backend.FlightStatusResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, backend.FlightStatusResponse{Flight: status})
}
