package domain

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	FlightID      int64         `json:"flightId"`
	FlightNumber  string        `json:"flightNumber"`
	From          string        `json:"from"`
	To            string        `json:"to"`
	BookingDate   string        `json:"bookingDate"`
	Passengers    int           `json:"passengers"`
	TotalAmount   int64         `json:"totalAmount"`
	Status        BookingStatus `json:"status"`
	PNR           string        `json:"pnr"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone,omitempty"`
	AlertsEnabled bool          `json:"alertsEnabled"`
}
