package api

import (
	"context"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/service/alerts"
	"github.com/Domenick1991/skybook/internal/service/booking"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) BookFlight(ctx context.Context, user domain.Identity, input booking.BookFlightInput) (*domain.Booking, error) {
	args := m.Called(ctx, user, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Status(ctx context.Context, flightNumber string) (*domain.FlightStatus, error) {
	args := m.Called(ctx, flightNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightStatus), args.Error(1)
}

type MockAlertUseCase struct {
	mock.Mock
}

func (m *MockAlertUseCase) SendLegacy(ctx context.Context, input alerts.LegacyInput) (*alerts.Result, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alerts.Result), args.Error(1)
}

func (m *MockAlertUseCase) Send(ctx context.Context, user domain.Identity, input alerts.SendInput) (*alerts.Result, error) {
	args := m.Called(ctx, user, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alerts.Result), args.Error(1)
}

func (m *MockAlertUseCase) RegisterContact(ctx context.Context, userID, phone string) (*domain.Contact, error) {
	args := m.Called(ctx, userID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

type MockStatsUseCase struct {
	mock.Mock
}

func (m *MockStatsUseCase) Stats(ctx context.Context) (domain.AdminStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.AdminStats), args.Error(1)
}
