package admin

import (
	"context"
	"fmt"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/repository"
)

type StatsUseCase interface {
	Stats(ctx context.Context) (domain.AdminStats, error)
}

type StatsService struct {
	users                   repository.UserRepository
	bookings                repository.BookingRepository
	smsConfigured           bool
	aviationStackConfigured bool
}

func NewStatsService(users repository.UserRepository, bookings repository.BookingRepository, smsConfigured, aviationStackConfigured bool) *StatsService {
	return &StatsService{
		users:                   users,
		bookings:                bookings,
		smsConfigured:           smsConfigured,
		aviationStackConfigured: aviationStackConfigured,
	}
}

func (s *StatsService) Stats(ctx context.Context) (domain.AdminStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return domain.AdminStats{}, fmt.Errorf("count users: %w", err)
	}
	totals, err := s.bookings.Totals(ctx)
	if err != nil {
		return domain.AdminStats{}, fmt.Errorf("booking totals: %w", err)
	}
	return domain.AdminStats{
		TotalUsers:              users,
		TotalBookings:           totals.Count,
		TotalRevenue:            totals.Revenue,
		ActiveAlerts:            totals.ActiveAlerts,
		SMSConfigured:           s.smsConfigured,
		AviationStackConfigured: s.aviationStackConfigured,
	}, nil
}

var _ StatsUseCase = (*StatsService)(nil)
