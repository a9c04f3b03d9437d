package catalog

import (
	"time"

	"github.com/Domenick1991/skybook/internal/domain"
)

func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func minutes(n int) *int {
	return &n
}

// Seed returns the fixed reference flights shown before any search.
func Seed() []domain.Flight {
	return []domain.Flight{
		{
			ID: 1, Airline: "SkyWings", FlightNumber: "SW101", From: "New York", To: "London",
			Departure: at(2023, time.December, 1, 8, 0), Arrival: at(2023, time.December, 1, 20, 30),
			Duration: "7h 30m", Price: 499, Class: "economy", SeatsAvailable: 12, Status: domain.FlightOnTime,
		},
		{
			ID: 2, Airline: "Global Air", FlightNumber: "GA205", From: "New York", To: "London",
			Departure: at(2023, time.December, 1, 14, 15), Arrival: at(2023, time.December, 1, 22, 45),
			Duration: "8h 30m", Price: 399, Class: "economy", SeatsAvailable: 5, Status: domain.FlightDelayed,
			DelayMinutes: minutes(45),
		},
		{
			ID: 3, Airline: "Elite Airways", FlightNumber: "EA301", From: "New York", To: "London",
			Departure: at(2023, time.December, 1, 19, 30), Arrival: at(2023, time.December, 2, 7, 0),
			Duration: "7h", Price: 699, Class: "business", SeatsAvailable: 8, Status: domain.FlightOnTime,
		},
		{
			ID: 4, Airline: "QuickFly", FlightNumber: "QF412", From: "New York", To: "London",
			Departure: at(2023, time.December, 1, 6, 45), Arrival: at(2023, time.December, 1, 18, 15),
			Duration: "6h 30m", Price: 549, Class: "premium", SeatsAvailable: 15, Status: domain.FlightOnTime,
		},
		{
			ID: 5, Airline: "British Airways", FlightNumber: "BA789", From: "London", To: "Paris",
			Departure: at(2023, time.December, 2, 9, 10), Arrival: at(2023, time.December, 2, 11, 25),
			Duration: "1h 15m", Price: 189, Class: "economy", SeatsAvailable: 22, Status: domain.FlightDelayed,
			DelayMinutes: minutes(30),
		},
	}
}

// SeedBookings is the sample booking list shown in demo mode when the
// backend cannot be reached. The bookings are attributed to userID.
func SeedBookings(userID string) []domain.Booking {
	return []domain.Booking{
		{
			ID: "1001", UserID: userID, FlightID: 1, FlightNumber: "SW101", From: "New York", To: "London",
			BookingDate: "2023-11-25", Passengers: 2, TotalAmount: 998, Status: domain.BookingStatusConfirmed,
			PNR: "SW101ABC", Email: "user@example.com", Phone: "+1234567890", AlertsEnabled: true,
		},
	}
}
