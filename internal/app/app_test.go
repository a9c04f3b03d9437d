package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/skybook/config"
	"github.com/Domenick1991/skybook/internal/backend"
	"github.com/Domenick1991/skybook/internal/catalog"
	"github.com/Domenick1991/skybook/internal/dispatch"
	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/identity"
	"github.com/Domenick1991/skybook/internal/notify"
	"github.com/Domenick1991/skybook/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "app-test-secret"

// remote is a minimal backend keeping bookings per user.
type remote struct {
	mu       sync.Mutex
	bookings map[string][]domain.Booking
	hits     map[string]int
	// hold, when set, parks GET /api/bookings until it is closed
	hold    chan struct{}
	arrived chan struct{}
}

// holdBookings parks booking reads until the returned func is called.
func (r *remote) holdBookings(t *testing.T) func() {
	t.Helper()
	r.mu.Lock()
	r.hold = make(chan struct{})
	r.arrived = make(chan struct{}, 1)
	hold := r.hold
	r.mu.Unlock()

	var once sync.Once
	release := func() { once.Do(func() { close(hold) }) }
	t.Cleanup(release)
	return release
}

func newRemote(t *testing.T) (*remote, *httptest.Server) {
	t.Helper()
	r := &remote{bookings: make(map[string][]domain.Booking), hits: make(map[string]int)}

	auth := func(req *http.Request) (*domain.Identity, bool) {
		token := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
		id, err := identity.ParseToken(secret, token)
		return id, err == nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		r.hit(req)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/bookings", func(w http.ResponseWriter, req *http.Request) {
		r.hit(req)
		id, ok := auth(req)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		r.mu.Lock()
		hold, arrived := r.hold, r.arrived
		r.mu.Unlock()
		if hold != nil {
			select {
			case arrived <- struct{}{}:
			default:
			}
			<-hold
		}
		r.mu.Lock()
		list := append([]domain.Booking{}, r.bookings[id.ID]...)
		r.mu.Unlock()
		_ = json.NewEncoder(w).Encode(backend.BookingsResponse{Bookings: list})
	})
	mux.HandleFunc("/api/book-flight", func(w http.ResponseWriter, req *http.Request) {
		r.hit(req)
		id, ok := auth(req)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body backend.BookFlightRequest
		_ = json.NewDecoder(req.Body).Decode(&body)
		r.mu.Lock()
		r.bookings[id.ID] = append(r.bookings[id.ID], domain.Booking{
			ID: "b" + body.FlightNumber, UserID: id.ID, FlightNumber: body.FlightNumber,
			Status: domain.BookingStatusConfirmed, Passengers: body.Passengers,
		})
		r.mu.Unlock()
		_ = json.NewEncoder(w).Encode(backend.BookFlightResponse{Success: true})
	})
	mux.HandleFunc("/send-sms", func(w http.ResponseWriter, req *http.Request) {
		r.hit(req)
		_ = json.NewEncoder(w).Encode(backend.SMSResponse{Success: true, Simulated: true})
	})
	mux.HandleFunc("/api/send-sms", func(w http.ResponseWriter, req *http.Request) {
		r.hit(req)
		_ = json.NewEncoder(w).Encode(backend.SMSResponse{Success: true})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return r, srv
}

func (r *remote) hit(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits[req.URL.Path]++
}

func (r *remote) count(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits[path]
}

func newTestApp(t *testing.T, backendURL string, opts ...func(*config.ClientConfig)) (*App, *identity.LocalProvider) {
	t.Helper()
	cfg := config.Default().Client
	cfg.SearchLatencyMillis = 0
	cfg.HealthIntervalSeconds = 3600
	for _, opt := range opts {
		opt(&cfg)
	}

	provider := identity.NewLocalProvider(config.IdentityConfig{
		Secret:          secret,
		TokenTTLSeconds: 60,
		Accounts:        []config.Account{{ID: "u1", Email: "akashnarmu06@gmail.com", Name: "Akash M"}},
	})
	a := New(cfg, Deps{Backend: backend.NewClient(backendURL), Provider: provider})
	a.Start(context.Background())
	t.Cleanup(a.Close)
	return a, provider
}

func TestApp_StartLoadsSeedAndPollsHealth(t *testing.T) {
	_, srv := newRemote(t)
	a, _ := newTestApp(t, srv.URL)

	assert.Len(t, a.View().Flights, 5)
	assert.Eventually(t, func() bool { return a.View().Health == domain.HealthOnline }, time.Second, 5*time.Millisecond)
}

func TestApp_SignedOutAlertShowsSignIn(t *testing.T) {
	r, srv := newRemote(t)
	a, _ := newTestApp(t, srv.URL)

	_, err := a.SendDelayAlert(context.Background(), "SW101")
	require.NoError(t, err)

	v := a.View()
	require.NotNil(t, v.Notification)
	assert.Equal(t, dispatch.MsgSignInRequired, v.Notification.Message)
	assert.Equal(t, notify.SurfaceSignIn, v.Surface)
	assert.Equal(t, 0, r.count("/send-sms"))
	assert.Equal(t, 0, r.count("/api/send-sms"))
}

func TestApp_LoginBookLogout(t *testing.T) {
	r, srv := newRemote(t)
	r.bookings["u1"] = []domain.Booking{{ID: "b-existing", UserID: "u1", FlightID: 2, FlightNumber: "GA205"}}
	a, _ := newTestApp(t, srv.URL)

	require.NoError(t, a.Login(context.Background(), ""))
	v := a.View()
	require.NotNil(t, v.Identity)
	assert.Equal(t, "Akash M", v.Identity.DisplayName)
	require.Len(t, v.Bookings, 1)
	require.NotNil(t, v.Bookings[0].Flight)
	assert.Equal(t, "Global Air", v.Bookings[0].Flight.Airline)

	require.NoError(t, a.BookFlight(context.Background(), "SW101", 2))
	v = a.View()
	require.Len(t, v.Bookings, 2)
	assert.Equal(t, "SW101", v.Bookings[1].Booking.FlightNumber)
	assert.Equal(t, "Successfully booked flight SW101!", v.Notification.Message)

	a.Logout(context.Background())
	v = a.View()
	assert.Nil(t, v.Identity)
	assert.Empty(t, v.Bookings)
	assert.Equal(t, "Logged out successfully!", v.Notification.Message)
}

func TestApp_AlertSignedIn(t *testing.T) {
	r, srv := newRemote(t)
	a, _ := newTestApp(t, srv.URL)
	require.NoError(t, a.Login(context.Background(), ""))

	res, err := a.SendDelayAlert(context.Background(), "GA205")
	require.NoError(t, err)
	assert.Equal(t, dispatch.AlertDoneSuccess, res.State)
	assert.Equal(t, 1, r.count("/send-sms"))
	assert.Equal(t, 0, r.count("/api/send-sms"))
	assert.Equal(t, "SMS alert simulated for GA205 (no SMS provider configured)", a.View().Notification.Message)
}

func TestApp_SearchAndFilter(t *testing.T) {
	_, srv := newRemote(t)
	a, _ := newTestApp(t, srv.URL)

	flights, err := a.Search(context.Background(), catalog.Criteria{From: "london", To: "paris", Date: "2023-12-02"})
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "Found 1 flights", a.View().Notification.Message)

	assert.Empty(t, a.SetFilter("skywings"))
	assert.Len(t, a.SetFilter("ba"), 1)
	assert.Len(t, a.View().Flights, 1)
}

func TestApp_UnknownFlight(t *testing.T) {
	_, srv := newRemote(t)
	a, _ := newTestApp(t, srv.URL)

	err := a.BookFlight(context.Background(), "ZZ000", 1)
	assert.ErrorIs(t, err, dispatch.ErrFlightNotFound)
	assert.Equal(t, "Flight ZZ000 not found.", a.View().Notification.Message)
}

func TestApp_CloseUnsubscribes(t *testing.T) {
	_, srv := newRemote(t)
	a, provider := newTestApp(t, srv.URL)

	a.Close()
	_, err := provider.SignIn(context.Background(), "")
	require.NoError(t, err)

	assert.Nil(t, a.View().Identity)
}

func TestApp_LogoutDuringSignInReload(t *testing.T) {
	r, srv := newRemote(t)
	r.bookings["u1"] = []domain.Booking{{ID: "b1", UserID: "u1", FlightID: 1, FlightNumber: "SW101"}}
	release := r.holdBookings(t)
	a, _ := newTestApp(t, srv.URL)

	loginErr := make(chan error, 1)
	go func() {
		loginErr <- a.Login(context.Background(), "")
	}()

	select {
	case <-r.arrived:
	case <-time.After(2 * time.Second):
		t.Fatal("booking reload did not reach the backend")
	}
	a.Logout(context.Background())
	release()

	select {
	case err := <-loginErr:
		assert.ErrorIs(t, err, session.ErrSignInSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("login did not return")
	}

	v := a.View()
	assert.Nil(t, v.Identity)
	assert.Empty(t, v.Bookings)
	assert.Nil(t, v.Stats)
	require.NotNil(t, v.Notification)
	assert.Equal(t, session.MsgLoggedOut, v.Notification.Message)
}

func TestApp_StaleWritesAreDropped(t *testing.T) {
	_, srv := newRemote(t)
	a, _ := newTestApp(t, srv.URL)

	gen := a.Generation()
	a.ReplaceBookings(gen, []domain.Booking{{ID: "b1"}})
	a.ReplaceAdminStats(gen, domain.AdminStats{TotalUsers: 1})
	assert.Len(t, a.View().Bookings, 1)

	a.SignedOut()
	a.ReplaceBookings(gen, []domain.Booking{{ID: "b2"}})
	a.ReplaceAdminStats(gen, domain.AdminStats{TotalUsers: 2})

	v := a.View()
	assert.Empty(t, v.Bookings)
	assert.Nil(t, v.Stats)
	assert.Equal(t, gen+1, a.Generation())
}

func TestApp_BookUsesSearchedPartySize(t *testing.T) {
	r, srv := newRemote(t)
	a, _ := newTestApp(t, srv.URL)
	require.NoError(t, a.Login(context.Background(), ""))

	_, err := a.Search(context.Background(), catalog.Criteria{From: "new york", Passengers: 3})
	require.NoError(t, err)
	require.NoError(t, a.BookFlight(context.Background(), "SW101", 0))

	r.mu.Lock()
	defer r.mu.Unlock()
	require.Len(t, r.bookings["u1"], 1)
	assert.Equal(t, 3, r.bookings["u1"][0].Passengers)
}

func TestApp_DemoBookingsWhenBackendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	a, _ := newTestApp(t, url, func(c *config.ClientConfig) { c.DemoBookings = true })
	require.NoError(t, a.Login(context.Background(), ""))

	v := a.View()
	require.Len(t, v.Bookings, 1)
	assert.Equal(t, "u1", v.Bookings[0].Booking.UserID)
	require.NotNil(t, v.Bookings[0].Flight)
	assert.Equal(t, "SW101", v.Bookings[0].Flight.FlightNumber)

	a.Logout(context.Background())
	assert.Empty(t, a.View().Bookings)
}

func TestApp_NoDemoBookingsByDefault(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	a, _ := newTestApp(t, url)
	require.NoError(t, a.Login(context.Background(), ""))
	assert.Empty(t, a.View().Bookings)
}
