package domain

import (
	"fmt"
	"strings"
	"time"
)

type FlightStatusCode string

const (
	FlightOnTime    FlightStatusCode = "on-time"
	FlightDelayed   FlightStatusCode = "delayed"
	FlightCancelled FlightStatusCode = "cancelled"
)

type Flight struct {
	ID             int64            `json:"id"`
	FlightNumber   string           `json:"flightNumber"`
	Airline        string           `json:"airline"`
	From           string           `json:"from"`
	To             string           `json:"to"`
	Departure      time.Time        `json:"departure"`
	Arrival        time.Time        `json:"arrival"`
	Duration       string           `json:"duration"`
	Price          int64            `json:"price"`
	Class          string           `json:"class"`
	SeatsAvailable int              `json:"seatsAvailable"`
	Status         FlightStatusCode `json:"status"`
	DelayMinutes   *int             `json:"delayMinutes,omitempty"`
}

// StatusLabel renders the status the way the flight list shows it, e.g. "Delayed +45m".
func (f Flight) StatusLabel() string {
	return statusLabel(f.Status, f.DelayMinutes)
}

// FlightStatus is the live status record returned by the backend.
type FlightStatus struct {
	FlightNumber string           `json:"flightNumber"`
	Airline      string           `json:"airline"`
	From         string           `json:"from,omitempty"`
	To           string           `json:"to,omitempty"`
	Status       FlightStatusCode `json:"status"`
	DelayMinutes *int             `json:"delayMinutes,omitempty"`
}

func (s FlightStatus) StatusLabel() string {
	return statusLabel(s.Status, s.DelayMinutes)
}

func statusLabel(status FlightStatusCode, delay *int) string {
	if status == FlightDelayed && delay != nil {
		return fmt.Sprintf("Delayed +%dm", *delay)
	}
	s := string(status)
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
