package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/kafka"
	"github.com/Domenick1991/skybook/internal/repository"
	"github.com/google/uuid"
)

const maxPassengers = 9

var (
	ErrFlightNumberRequired  = errors.New("flightNumber is required")
	ErrPassengerNameRequired = errors.New("passengerName is required")
	ErrInvalidPassengers     = fmt.Errorf("passengers must be between 1 and %d", maxPassengers)
	ErrInvalidDate           = errors.New("date must be YYYY-MM-DD")
	ErrFlightNotFound        = errors.New("flight not found")
	ErrNoSeats               = errors.New("not enough seats available")
	ErrInProgress            = errors.New("booking for this flight is already in progress")
)

type BookingUseCase interface {
	BookFlight(ctx context.Context, user domain.Identity, input BookFlightInput) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]domain.Booking, error)
}

type Locker interface {
	AcquireBookingLock(ctx context.Context, userID, flightNumber string, ttl time.Duration) (bool, error)
	ReleaseBookingLock(ctx context.Context, userID, flightNumber string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type BookingService struct {
	bookings     repository.BookingRepository
	flights      repository.FlightRepository
	locker       Locker
	producer     Producer
	bookingTopic string
	lockTTL      time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

type BookFlightInput struct {
	FlightNumber  string
	Date          string
	PassengerName string
	Passengers    int
}

type BookingServiceOption func(*BookingService)

func WithLocker(l Locker, ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.locker = l
		s.lockTTL = ttl
	}
}

func WithProducer(p Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = p
		s.bookingTopic = topic
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithLogger(l *slog.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.logger = l
	}
}

func NewBookingService(bookings repository.BookingRepository, flights repository.FlightRepository, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		bookings: bookings,
		flights:  flights,
		lockTTL:  10 * time.Second,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) BookFlight(ctx context.Context, user domain.Identity, input BookFlightInput) (*domain.Booking, error) {
	input.FlightNumber = strings.ToUpper(strings.TrimSpace(input.FlightNumber))
	if input.FlightNumber == "" {
		return nil, ErrFlightNumberRequired
	}
	if strings.TrimSpace(input.PassengerName) == "" {
		return nil, ErrPassengerNameRequired
	}
	if input.Passengers == 0 {
		input.Passengers = 1
	}
	if input.Passengers < 0 || input.Passengers > maxPassengers {
		return nil, ErrInvalidPassengers
	}
	date := input.Date
	if date == "" {
		date = s.now().Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, ErrInvalidDate
	}

	flight, err := s.flights.GetByNumber(ctx, input.FlightNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}

	if s.locker != nil {
		// a lock store outage does not block bookings
		ok, err := s.locker.AcquireBookingLock(ctx, user.ID, flight.FlightNumber, s.lockTTL)
		switch {
		case err != nil:
			s.logger.Warn("booking lock unavailable", "user_id", user.ID, "flight", flight.FlightNumber, "error", err)
		case !ok:
			return nil, ErrInProgress
		default:
			defer func() {
				if err := s.locker.ReleaseBookingLock(ctx, user.ID, flight.FlightNumber); err != nil {
					s.logger.Warn("release booking lock", "user_id", user.ID, "flight", flight.FlightNumber, "error", err)
				}
			}()
		}
	}

	id := uuid.New()
	booking := &domain.Booking{
		ID:            id.String(),
		UserID:        user.ID,
		FlightID:      flight.ID,
		FlightNumber:  flight.FlightNumber,
		From:          flight.From,
		To:            flight.To,
		BookingDate:   date,
		Passengers:    input.Passengers,
		TotalAmount:   flight.Price * int64(input.Passengers),
		Status:        domain.BookingStatusConfirmed,
		PNR:           pnr(id),
		Email:         user.Email,
		AlertsEnabled: true,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrNoSeats) {
			return nil, ErrNoSeats
		}
		return nil, err
	}

	if err := s.publish(ctx, booking); err != nil {
		s.logger.Warn("failed to publish booking event", "booking_id", booking.ID, "error", err)
	}
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) publish(ctx context.Context, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:         kafka.EventBookingCreated,
		BookingID:    booking.ID,
		UserID:       booking.UserID,
		FlightNumber: booking.FlightNumber,
		Passengers:   booking.Passengers,
		PNR:          booking.PNR,
		Email:        booking.Email,
		CreatedAt:    s.now().UTC(),
	}
	return s.producer.Publish(ctx, s.bookingTopic, booking.ID, event)
}

// pnr derives a six character record locator from the booking id.
func pnr(id uuid.UUID) string {
	return "SB" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:6])
}

var _ BookingUseCase = (*BookingService)(nil)
