package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/skybook/internal/backend"
	"github.com/Domenick1991/skybook/internal/service/alerts"
	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	service alerts.AlertUseCase
}

func NewAlertHandler(service alerts.AlertUseCase) *AlertHandler {
	return &AlertHandler{service: service}
}

// RegisterLegacy mounts the unauthenticated send endpoint.
func (h *AlertHandler) RegisterLegacy(router gin.IRoutes) {
	router.POST("/send-sms", h.sendLegacy)
}

// Register mounts the handlers on an authenticated group.
func (h *AlertHandler) Register(router *gin.RouterGroup) {
	router.POST("/send-sms", h.send)
	router.POST("/contacts", h.registerContact)
}

func (h *AlertHandler) sendLegacy(c *gin.Context) {
	var req backend.LegacySMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, backend.SMSResponse{Error: err.Error()})
		return
	}

	res, err := h.service.SendLegacy(c.Request.Context(), alerts.LegacyInput{FlightNumber: req.FlightNumber, To: req.To})
	if err != nil {
		c.JSON(alertErrorCode(err), backend.SMSResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, backend.SMSResponse{Success: true, Simulated: res.Simulated, Note: res.Note})
}

func (h *AlertHandler) send(c *gin.Context) {
	var req backend.SMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, backend.SMSResponse{Error: err.Error()})
		return
	}

	id, _ := CurrentIdentity(c)
	res, err := h.service.Send(c.Request.Context(), id, alerts.SendInput{FlightNumber: req.FlightNumber, Message: req.Message})
	if err != nil {
		c.JSON(alertErrorCode(err), backend.SMSResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, backend.SMSResponse{Success: true, Simulated: res.Simulated, Note: res.Note})
}

func (h *AlertHandler) registerContact(c *gin.Context) {
	var req backend.RegisterContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, backend.ErrorResponse{Error: err.Error()})
		return
	}

	id, _ := CurrentIdentity(c)
	contact, err := h.service.RegisterContact(c.Request.Context(), id.ID, req.Phone)
	if err != nil {
		c.JSON(alertErrorCode(err), backend.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "contact": contact})
}

func alertErrorCode(err error) int {
	switch {
	case errors.Is(err, alerts.ErrFlightNotFound):
		return http.StatusNotFound
	case errors.Is(err, alerts.ErrContactNotRegistered),
		errors.Is(err, alerts.ErrFlightNumberRequired),
		errors.Is(err, alerts.ErrInvalidPhone):
		return http.StatusBadRequest
	case errors.Is(err, alerts.ErrDeliveryFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
