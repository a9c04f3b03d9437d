package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/kafka"
	"github.com/Domenick1991/skybook/internal/repository"
	"github.com/google/uuid"
)

// ErrContactNotRegistered carries the exact reason string clients match on.
var ErrContactNotRegistered = errors.New("contact not registered")

var (
	ErrFlightNumberRequired = errors.New("flightNumber is required")
	ErrInvalidPhone         = errors.New("phone must be an international number like +15551234567")
	ErrFlightNotFound       = errors.New("flight not found")
	ErrDeliveryFailed       = errors.New("sms delivery failed")
)

const simulatedNote = "SMS provider not configured; message was logged, not sent"

var phonePattern = regexp.MustCompile(`^\+?[1-9][0-9]{6,14}$`)

type AlertUseCase interface {
	SendLegacy(ctx context.Context, input LegacyInput) (*Result, error)
	Send(ctx context.Context, user domain.Identity, input SendInput) (*Result, error)
	RegisterContact(ctx context.Context, userID, phone string) (*domain.Contact, error)
}

// Deliverer hands an alert to whatever sends it: the kafka topic the worker
// reads, or the SMS sender directly.
type Deliverer interface {
	Deliver(ctx context.Context, event kafka.AlertEvent) error
}

type LegacyInput struct {
	FlightNumber string
	To           string
}

type SendInput struct {
	FlightNumber string
	Message      string
}

type Result struct {
	Simulated bool
	Note      string
}

type AlertService struct {
	contacts  repository.ContactRepository
	flights   repository.FlightRepository
	deliverer Deliverer
	simulated bool
	now       func() time.Time
	logger    *slog.Logger
}

func NewAlertService(contacts repository.ContactRepository, flights repository.FlightRepository, deliverer Deliverer, simulated bool, logger *slog.Logger) *AlertService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AlertService{
		contacts:  contacts,
		flights:   flights,
		deliverer: deliverer,
		simulated: simulated,
		now:       time.Now,
		logger:    logger,
	}
}

// SendLegacy sends the status of a flight to an arbitrary number. It backs the
// unauthenticated endpoint.
func (s *AlertService) SendLegacy(ctx context.Context, input LegacyInput) (*Result, error) {
	flight, err := s.flight(ctx, input.FlightNumber)
	if err != nil {
		return nil, err
	}
	to := normalizePhone(input.To)
	if !phonePattern.MatchString(to) {
		return nil, ErrInvalidPhone
	}

	return s.deliver(ctx, kafka.AlertEvent{
		FlightNumber: flight.FlightNumber,
		To:           to,
		Message:      statusMessage(flight),
		Legacy:       true,
	})
}

// Send delivers to the caller's registered contact.
func (s *AlertService) Send(ctx context.Context, user domain.Identity, input SendInput) (*Result, error) {
	flight, err := s.flight(ctx, input.FlightNumber)
	if err != nil {
		return nil, err
	}

	contact, err := s.contacts.GetByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContactNotRegistered
		}
		return nil, err
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		message = statusMessage(flight)
	}
	return s.deliver(ctx, kafka.AlertEvent{
		UserID:       user.ID,
		FlightNumber: flight.FlightNumber,
		To:           contact.Phone,
		Message:      message,
	})
}

func (s *AlertService) RegisterContact(ctx context.Context, userID, phone string) (*domain.Contact, error) {
	phone = normalizePhone(phone)
	if !phonePattern.MatchString(phone) {
		return nil, ErrInvalidPhone
	}
	contact := &domain.Contact{UserID: userID, Phone: phone}
	if err := s.contacts.Upsert(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *AlertService) flight(ctx context.Context, flightNumber string) (*domain.Flight, error) {
	flightNumber = strings.ToUpper(strings.TrimSpace(flightNumber))
	if flightNumber == "" {
		return nil, ErrFlightNumberRequired
	}
	flight, err := s.flights.GetByNumber(ctx, flightNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return flight, nil
}

func (s *AlertService) deliver(ctx context.Context, event kafka.AlertEvent) (*Result, error) {
	event.Type = kafka.EventAlertRequested
	event.ID = uuid.NewString()
	event.CreatedAt = s.now().UTC()

	if err := s.deliverer.Deliver(ctx, event); err != nil {
		s.logger.Error("alert delivery", "id", event.ID, "flight", event.FlightNumber, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	res := &Result{Simulated: s.simulated}
	if s.simulated {
		res.Note = simulatedNote
	}
	return res, nil
}

func normalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
}

func statusMessage(f *domain.Flight) string {
	return fmt.Sprintf("SkyBook alert: flight %s from %s to %s is %s.", f.FlightNumber, f.From, f.To, f.StatusLabel())
}

var _ AlertUseCase = (*AlertService)(nil)
