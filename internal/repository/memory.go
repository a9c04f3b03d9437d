package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/skybook/internal/domain"
)

// MemoryStore keeps everything in process memory. The backend uses it when no
// database is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	flights  []domain.Flight
	bookings []domain.Booking
	contacts map[string]domain.Contact
	users    map[string]domain.Identity
	now      func() time.Time
}

func NewMemoryStore(seed []domain.Flight) *MemoryStore {
	flights := make([]domain.Flight, len(seed))
	copy(flights, seed)
	return &MemoryStore{
		flights:  flights,
		contacts: make(map[string]domain.Contact),
		users:    make(map[string]domain.Identity),
		now:      time.Now,
	}
}

// Flights, Bookings, Contacts and Users expose the store through the
// repository interfaces.
func (s *MemoryStore) Flights() FlightRepository   { return memFlights{s} }
func (s *MemoryStore) Bookings() BookingRepository { return memBookings{s} }
func (s *MemoryStore) Contacts() ContactRepository { return memContacts{s} }
func (s *MemoryStore) Users() UserRepository       { return memUsers{s} }

type memFlights struct{ s *MemoryStore }

func (m memFlights) List(_ context.Context) ([]domain.Flight, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := make([]domain.Flight, len(m.s.flights))
	copy(out, m.s.flights)
	return out, nil
}

func (m memFlights) GetByNumber(_ context.Context, flightNumber string) (*domain.Flight, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, f := range m.s.flights {
		if strings.EqualFold(f.FlightNumber, flightNumber) {
			return &f, nil
		}
	}
	return nil, ErrNotFound
}

type memBookings struct{ s *MemoryStore }

func (m memBookings) Create(_ context.Context, b *domain.Booking) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	idx := -1
	for i, f := range m.s.flights {
		if f.ID == b.FlightID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	if m.s.flights[idx].SeatsAvailable < b.Passengers {
		return ErrNoSeats
	}
	for _, existing := range m.s.bookings {
		if existing.ID == b.ID || existing.PNR == b.PNR {
			return ErrAlreadyExists
		}
	}

	m.s.flights[idx].SeatsAvailable -= b.Passengers
	m.s.bookings = append(m.s.bookings, *b)
	return nil
}

func (m memBookings) ListByUser(_ context.Context, userID string) ([]domain.Booking, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := make([]domain.Booking, 0)
	for _, b := range m.s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m memBookings) Totals(_ context.Context) (BookingTotals, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	t := BookingTotals{Count: len(m.s.bookings)}
	for _, b := range m.s.bookings {
		t.Revenue += b.TotalAmount
		if b.AlertsEnabled {
			t.ActiveAlerts++
		}
	}
	return t, nil
}

type memContacts struct{ s *MemoryStore }

func (m memContacts) Upsert(_ context.Context, c *domain.Contact) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if prev, ok := m.s.contacts[c.UserID]; ok {
		c.CreatedAt = prev.CreatedAt
	} else {
		c.CreatedAt = m.s.now().UTC()
	}
	m.s.contacts[c.UserID] = *c
	return nil
}

func (m memContacts) GetByUser(_ context.Context, userID string) (*domain.Contact, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	c, ok := m.s.contacts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

type memUsers struct{ s *MemoryStore }

func (m memUsers) Touch(_ context.Context, id domain.Identity) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.users[id.ID] = id
	return nil
}

func (m memUsers) Count(_ context.Context) (int, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return len(m.s.users), nil
}
