package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/skybook/internal/backend"
	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/notify"
	"github.com/Domenick1991/skybook/internal/session"
)

type recordingPresenter struct {
	mu       sync.Mutex
	messages []string
	surfaces []notify.Surface
}

func (p *recordingPresenter) Notify(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
}

func (p *recordingPresenter) ShowSurface(s notify.Surface) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.surfaces = append(p.surfaces, s)
}

func (p *recordingPresenter) last() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.messages) == 0 {
		return ""
	}
	return p.messages[len(p.messages)-1]
}

type recordingStore struct {
	mu       sync.Mutex
	bookings []domain.Booking
	replaced int
	stats    *domain.AdminStats
	health   []domain.HealthStatus
	gen      uint64
}

func (s *recordingStore) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *recordingStore) ReplaceBookings(gen uint64, bookings []domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.bookings = bookings
	s.replaced++
}

func (s *recordingStore) ReplaceAdminStats(gen uint64, stats domain.AdminStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.stats = &stats
}

func (s *recordingStore) SetHealth(status domain.HealthStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = append(s.health, status)
}

func (s *recordingStore) healthHistory() []domain.HealthStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.HealthStatus(nil), s.health...)
}

type fakeSession struct {
	mu     sync.Mutex
	id     *domain.Identity
	issued int
}

func signedIn() *fakeSession {
	return &fakeSession{id: &domain.Identity{ID: "u1", Email: "akashnarmu06@gmail.com", DisplayName: "Akash M"}}
}

func (s *fakeSession) Current() (domain.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == nil {
		return domain.Identity{}, false
	}
	return *s.id, true
}

func (s *fakeSession) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == nil {
		return "", session.ErrNotSignedIn
	}
	s.issued++
	return "token-" + strconv.Itoa(s.issued), nil
}

// fakeBackend serves the backend contract with per-route handlers and counts hits.
type fakeBackend struct {
	mu     sync.Mutex
	hits   map[string]int
	routes map[string]http.HandlerFunc
	srv    *httptest.Server
}

func newFakeBackend(t *testing.T, routes map[string]http.HandlerFunc) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{hits: make(map[string]int), routes: routes}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		fb.mu.Lock()
		fb.hits[key]++
		h, ok := fb.routes[key]
		fb.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) count(key string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.hits[key]
}

func (fb *fakeBackend) total() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	n := 0
	for _, v := range fb.hits {
		n += v
	}
	return n
}

func (fb *fakeBackend) client() *backend.Client {
	return backend.NewClient(fb.srv.URL)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func respond(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, status, v)
	}
}

func blockFor(d time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(d):
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
		}
	}
}

var sw101 = domain.Flight{ID: 1, FlightNumber: "SW101", Airline: "SkyWings", From: "New York", To: "London", Status: domain.FlightOnTime, Price: 499}

func fastTimeouts() Timeouts {
	return Timeouts{Probe: 100 * time.Millisecond, Legacy: 300 * time.Millisecond, Request: time.Second}
}
