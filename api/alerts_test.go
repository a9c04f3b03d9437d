package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/skybook/internal/backend"
	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/service/alerts"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newJSONContext(t *testing.T, method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestAlertHandler_sendLegacy_Simulated(t *testing.T) {
	mockService := &MockAlertUseCase{}
	handler := NewAlertHandler(mockService)
	c, w := newJSONContext(t, "POST", "/send-sms", `{"flightNumber":"GA205","to":"+1234567890"}`)

	mockService.On("SendLegacy", c.Request.Context(), alerts.LegacyInput{FlightNumber: "GA205", To: "+1234567890"}).
		Return(&alerts.Result{Simulated: true, Note: "logged"}, nil)

	handler.sendLegacy(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response backend.SMSResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, backend.SMSResponse{Success: true, Simulated: true, Note: "logged"}, response)
	mockService.AssertExpectations(t)
}

func TestAlertHandler_send_ContactNotRegistered(t *testing.T) {
	mockService := &MockAlertUseCase{}
	handler := NewAlertHandler(mockService)
	c, w := newJSONContext(t, "POST", "/api/send-sms", `{"flightNumber":"GA205","message":"hi"}`)
	c.Set(identityKey, akash)

	mockService.On("Send", c.Request.Context(), akash, alerts.SendInput{FlightNumber: "GA205", Message: "hi"}).
		Return(nil, alerts.ErrContactNotRegistered)

	handler.send(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response backend.SMSResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Success)
	assert.Equal(t, backend.ReasonContactNotRegistered, response.Error)
}

func TestAlertHandler_send_DeliveryFailed(t *testing.T) {
	mockService := &MockAlertUseCase{}
	handler := NewAlertHandler(mockService)
	c, w := newJSONContext(t, "POST", "/api/send-sms", `{"flightNumber":"GA205"}`)
	c.Set(identityKey, akash)

	mockService.On("Send", c.Request.Context(), akash, alerts.SendInput{FlightNumber: "GA205"}).
		Return(nil, errors.Join(alerts.ErrDeliveryFailed, errors.New("broker down")))

	handler.send(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAlertHandler_registerContact(t *testing.T) {
	mockService := &MockAlertUseCase{}
	handler := NewAlertHandler(mockService)
	c, w := newJSONContext(t, "POST", "/api/contacts", `{"phone":"+15550001111"}`)
	c.Set(identityKey, akash)

	mockService.On("RegisterContact", c.Request.Context(), "u1", "+15550001111").
		Return(&domain.Contact{UserID: "u1", Phone: "+15550001111"}, nil)

	handler.registerContact(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestAlertHandler_registerContact_InvalidPhone(t *testing.T) {
	mockService := &MockAlertUseCase{}
	handler := NewAlertHandler(mockService)
	c, w := newJSONContext(t, "POST", "/api/contacts", `{"phone":"12"}`)
	c.Set(identityKey, akash)

	mockService.On("RegisterContact", c.Request.Context(), "u1", "12").Return(nil, alerts.ErrInvalidPhone)

	handler.registerContact(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response backend.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, alerts.ErrInvalidPhone.Error(), response.Error)
}
