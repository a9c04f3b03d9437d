package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/skybook/internal/domain"
)

// departureLayout is the textual form the date criterion is matched against.
const departureLayout = "2006-01-02T15:04:05"

// Criteria selects flights. An empty Class matches every cabin; Passengers
// is remembered as the default party size for the next booking.
type Criteria struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Date       string `json:"date"`
	Passengers int    `json:"passengers"`
	Class      string `json:"class"`
}

// Catalog holds the seed flights and the currently displayed set. The
// displayed set is either the whole seed or the latest search result.
type Catalog struct {
	mu        sync.RWMutex
	seed      []domain.Flight
	displayed  []domain.Flight
	passengers int
	latency    time.Duration
}

func New(seed []domain.Flight, latency time.Duration) *Catalog {
	return &Catalog{seed: clone(seed), passengers: 1, latency: latency}
}

// LoadSeed resets the displayed set to the seed.
func (c *Catalog) LoadSeed() {
	c.mu.Lock()
	c.displayed = clone(c.seed)
	c.passengers = 1
	c.mu.Unlock()
}

// Search filters the seed and replaces the displayed set. The simulated
// latency is cut short when ctx is done, in which case nothing changes.
func (c *Catalog) Search(ctx context.Context, criteria Criteria) ([]domain.Flight, error) {
	if c.latency > 0 {
		timer := time.NewTimer(c.latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	from := strings.ToLower(criteria.From)
	to := strings.ToLower(criteria.To)
	class := strings.TrimSpace(criteria.Class)

	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]domain.Flight, 0, len(c.seed))
	for _, f := range c.seed {
		if !strings.Contains(strings.ToLower(f.From), from) {
			continue
		}
		if !strings.Contains(strings.ToLower(f.To), to) {
			continue
		}
		if !strings.HasPrefix(f.Departure.Format(departureLayout), criteria.Date) {
			continue
		}
		if class != "" && !strings.EqualFold(f.Class, class) {
			continue
		}
		result = append(result, f)
	}
	c.displayed = result
	if criteria.Passengers > 0 {
		c.passengers = criteria.Passengers
	}
	return clone(result), nil
}

// Filter returns the displayed flights whose number, airline, origin or
// destination contain query. The displayed set is left untouched.
func (c *Catalog) Filter(query string) []domain.Flight {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return clone(c.displayed)
	}

	out := make([]domain.Flight, 0, len(c.displayed))
	for _, f := range c.displayed {
		if strings.Contains(strings.ToLower(f.FlightNumber), q) ||
			strings.Contains(strings.ToLower(f.Airline), q) ||
			strings.Contains(strings.ToLower(f.From), q) ||
			strings.Contains(strings.ToLower(f.To), q) {
			out = append(out, f)
		}
	}
	return out
}

// Passengers is the party size of the latest search, 1 before any search.
func (c *Catalog) Passengers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.passengers
}

func (c *Catalog) Displayed() []domain.Flight {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.displayed)
}

// Find looks a flight up by number in the seed.
func (c *Catalog) Find(flightNumber string) (domain.Flight, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, f := range c.seed {
		if strings.EqualFold(f.FlightNumber, flightNumber) {
			return f, true
		}
	}
	return domain.Flight{}, false
}

// FindByID looks a flight up by id in the seed.
func (c *Catalog) FindByID(id int64) (domain.Flight, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, f := range c.seed {
		if f.ID == id {
			return f, true
		}
	}
	return domain.Flight{}, false
}

func clone(flights []domain.Flight) []domain.Flight {
	if flights == nil {
		return nil
	}
	out := make([]domain.Flight, len(flights))
	copy(out, flights)
	return out
}
