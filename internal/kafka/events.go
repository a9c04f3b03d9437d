package kafka

import "time"

const (
	EventBookingCreated = "booking_created"
	EventAlertRequested = "alert_requested"
)

type BookingEvent struct {
	Type         string    `json:"type"`
	BookingID    string    `json:"booking_id"`
	UserID       string    `json:"user_id"`
	FlightNumber string    `json:"flight_number"`
	Passengers   int       `json:"passengers"`
	PNR          string    `json:"pnr"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

// AlertEvent is an SMS delivery request handed to the worker.
type AlertEvent struct {
	Type         string    `json:"type"`
	ID           string    `json:"id"`
	UserID       string    `json:"user_id,omitempty"`
	FlightNumber string    `json:"flight_number"`
	To           string    `json:"to"`
	Message      string    `json:"message"`
	Legacy       bool      `json:"legacy"`
	CreatedAt    time.Time `json:"created_at"`
}
