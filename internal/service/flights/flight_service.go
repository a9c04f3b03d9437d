package flights

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/repository"
)

var ErrNotFound = errors.New("flight not found")

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	Status(ctx context.Context, flightNumber string) (*domain.FlightStatus, error)
}

type StatusCache interface {
	GetFlightStatus(ctx context.Context, flightNumber string) (*domain.FlightStatus, error)
	SetFlightStatus(ctx context.Context, status *domain.FlightStatus) error
}

type FlightService struct {
	repo   repository.FlightRepository
	cache  StatusCache
	logger *slog.Logger
}

// NewFlightService builds the service. cache may be nil.
func NewFlightService(repo repository.FlightRepository, cache StatusCache, logger *slog.Logger) *FlightService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlightService{repo: repo, cache: cache, logger: logger}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	return s.repo.List(ctx)
}

func (s *FlightService) Status(ctx context.Context, flightNumber string) (*domain.FlightStatus, error) {
	flightNumber = strings.ToUpper(strings.TrimSpace(flightNumber))
	if flightNumber == "" {
		return nil, ErrNotFound
	}

	if s.cache != nil {
		cached, err := s.cache.GetFlightStatus(ctx, flightNumber)
		if err != nil {
			s.logger.Warn("flight status cache read", "flight", flightNumber, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	flight, err := s.repo.GetByNumber(ctx, flightNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	status := &domain.FlightStatus{
		FlightNumber: flight.FlightNumber,
		Airline:      flight.Airline,
		From:         flight.From,
		To:           flight.To,
		Status:       flight.Status,
		DelayMinutes: flight.DelayMinutes,
	}
	if s.cache != nil {
		if err := s.cache.SetFlightStatus(ctx, status); err != nil {
			s.logger.Warn("flight status cache write", "flight", flightNumber, "error", err)
		}
	}
	return status, nil
}

var _ FlightUseCase = (*FlightService)(nil)
