package backend

import "github.com/Domenick1991/skybook/internal/domain"

// ReasonContactNotRegistered is the error reason the authenticated SMS endpoint
// returns when the caller has no registered phone number.
const ReasonContactNotRegistered = "contact not registered"

type BookFlightRequest struct {
	FlightNumber  string `json:"flightNumber"`
	From          string `json:"from"`
	To            string `json:"to"`
	Date          string `json:"date"`
	PassengerName string `json:"passengerName"`
	Passengers    int    `json:"passengers,omitempty"`
}

type BookFlightResponse struct {
	Success bool            `json:"success"`
	Booking *domain.Booking `json:"booking,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type BookingsResponse struct {
	Bookings []domain.Booking `json:"bookings"`
}

type FlightStatusResponse struct {
	Flight *domain.FlightStatus `json:"flight"`
	Error  string               `json:"error,omitempty"`
}

type LegacySMSRequest struct {
	FlightNumber string `json:"flightNumber"`
	To           string `json:"to"`
}

type SMSRequest struct {
	FlightNumber string `json:"flightNumber"`
	Message      string `json:"message"`
}

type SMSResponse struct {
	Success   bool   `json:"success"`
	Simulated bool   `json:"simulated"`
	Note      string `json:"note,omitempty"`
	Error     string `json:"error,omitempty"`
}

type RegisterContactRequest struct {
	Phone string `json:"phone"`
}

type AdminStatsResponse struct {
	Stats domain.AdminStats `json:"stats"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
