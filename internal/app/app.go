package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Domenick1991/skybook/config"
	"github.com/Domenick1991/skybook/internal/backend"
	"github.com/Domenick1991/skybook/internal/catalog"
	"github.com/Domenick1991/skybook/internal/dispatch"
	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/notify"
	"github.com/Domenick1991/skybook/internal/session"
)

// View is a read-only snapshot of everything the user interface shows.
type View struct {
	Identity     *domain.Identity
	Flights      []domain.Flight
	Bookings     []BookingView
	Stats        *domain.AdminStats
	Health       domain.HealthStatus
	Notification *notify.Notification
	Surface      notify.Surface
}

// BookingView joins a booking with its catalog flight when one is known.
type BookingView struct {
	Booking domain.Booking
	Flight  *domain.Flight
}

// App owns the client state. Components change it only through the Store
// and session.Listener methods below.
type App struct {
	mu       sync.RWMutex
	bookings []domain.Booking
	stats    *domain.AdminStats
	health   domain.HealthStatus
	surface  notify.Surface
	filter   string
	// gen advances on every sign-out; session-scoped writes from an older one are dropped
	gen  uint64
	demo bool

	catalog    *catalog.Catalog
	notifier   *notify.Notifier
	session    *session.Manager
	dispatcher *dispatch.Dispatcher
	poller     *dispatch.HealthPoller
	logger     *slog.Logger

	closeOnce sync.Once
}

type Deps struct {
	Backend  dispatch.Backend
	Provider session.Provider
	Logger   *slog.Logger
}

func New(cfg config.ClientConfig, deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		health: domain.HealthChecking,
		demo:   cfg.DemoBookings,
		logger: logger,
	}
	a.notifier = notify.NewNotifier(cfg.NotificationTTL())
	a.catalog = catalog.New(catalog.Seed(), cfg.SearchLatency())
	a.session = session.NewManager(deps.Provider, a, session.WithLogger(logger))
	a.dispatcher = dispatch.New(deps.Backend, a.session, a, a,
		dispatch.WithTimeouts(dispatch.Timeouts{
			Probe:   cfg.ProbeTimeout(),
			Legacy:  cfg.LegacyTimeout(),
			Request: cfg.RequestTimeout(),
		}),
		dispatch.WithDefaultContact(cfg.DefaultContact),
		dispatch.WithLogger(logger),
	)
	a.poller = dispatch.NewHealthPoller(deps.Backend, a, cfg.HealthInterval(), cfg.ProbeTimeout(), logger)
	return a
}

// Start loads the seed catalog, subscribes to identity changes and starts
// the health poller. Close undoes all of it.
func (a *App) Start(ctx context.Context) {
	a.catalog.LoadSeed()
	a.session.Start(ctx, a)
	a.poller.Start(ctx)
}

func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.poller.Stop()
		a.session.Close()
		a.notifier.Close()
	})
}

func (a *App) Login(ctx context.Context, hint string) error {
	_, err := a.session.Login(ctx, hint)
	return err
}

func (a *App) Logout(ctx context.Context) {
	a.session.Logout(ctx)
}

// Search replaces the displayed flights and reports the count.
func (a *App) Search(ctx context.Context, criteria catalog.Criteria) ([]domain.Flight, error) {
	flights, err := a.catalog.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}
	a.Notify(fmt.Sprintf("Found %d flights", len(flights)))
	return flights, nil
}

// SetFilter sets the keystroke filter applied to the displayed flights.
func (a *App) SetFilter(query string) []domain.Flight {
	a.mu.Lock()
	a.filter = query
	a.mu.Unlock()
	return a.catalog.Filter(query)
}

// BookFlight books flightNumber. A non-positive passengers count falls back
// to the party size of the latest search.
func (a *App) BookFlight(ctx context.Context, flightNumber string, passengers int) error {
	flight, ok := a.catalog.Find(flightNumber)
	if !ok {
		a.Notify(fmt.Sprintf(dispatch.MsgFlightNotFound, flightNumber))
		return dispatch.ErrFlightNotFound
	}
	if passengers <= 0 {
		passengers = a.catalog.Passengers()
	}
	return a.dispatcher.BookFlight(ctx, flight, passengers)
}

func (a *App) SendDelayAlert(ctx context.Context, flightNumber string) (dispatch.AlertResult, error) {
	flight, ok := a.catalog.Find(flightNumber)
	if !ok {
		a.Notify(fmt.Sprintf(dispatch.MsgFlightNotFound, flightNumber))
		return dispatch.AlertResult{}, dispatch.ErrFlightNotFound
	}
	return a.dispatcher.SendDelayAlert(ctx, flight), nil
}

func (a *App) CheckFlightStatus(ctx context.Context, flightNumber string) (*domain.FlightStatus, error) {
	return a.dispatcher.CheckFlightStatus(ctx, flightNumber)
}

func (a *App) RegisterContact(ctx context.Context, phone string) error {
	return a.dispatcher.RegisterContact(ctx, phone)
}

func (a *App) ReloadBookings(ctx context.Context) error {
	return a.dispatcher.LoadBookings(ctx)
}

func (a *App) LoadAdminStats(ctx context.Context) error {
	return a.dispatcher.LoadAdminStats(ctx)
}

// CheckHealth runs one probe outside the polling schedule.
func (a *App) CheckHealth(ctx context.Context) domain.HealthStatus {
	return a.poller.Probe(ctx)
}

func (a *App) View() View {
	a.mu.RLock()
	filter := a.filter
	v := View{
		Health:  a.health,
		Surface: a.surface,
	}
	if a.stats != nil {
		stats := *a.stats
		v.Stats = &stats
	}
	bookings := make([]domain.Booking, len(a.bookings))
	copy(bookings, a.bookings)
	a.mu.RUnlock()

	if id, ok := a.session.Current(); ok {
		v.Identity = &id
	}
	if n, ok := a.notifier.Current(); ok {
		v.Notification = &n
	}
	v.Flights = a.catalog.Filter(filter)

	v.Bookings = make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		bv := BookingView{Booking: b}
		if f, ok := a.catalog.FindByID(b.FlightID); ok {
			bv.Flight = &f
		} else if f, ok := a.catalog.Find(b.FlightNumber); ok {
			bv.Flight = &f
		}
		v.Bookings = append(v.Bookings, bv)
	}
	return v
}

// Notify and ShowSurface implement notify.Presenter.

func (a *App) Notify(message string) {
	a.notifier.Show(message)
}

func (a *App) ShowSurface(s notify.Surface) {
	a.mu.Lock()
	a.surface = s
	a.mu.Unlock()
}

// Generation, ReplaceBookings, ReplaceAdminStats and SetHealth implement dispatch.Store.

func (a *App) Generation() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.gen
}

func (a *App) ReplaceBookings(gen uint64, bookings []domain.Booking) {
	cp := make([]domain.Booking, len(bookings))
	copy(cp, bookings)

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		a.logger.Debug("dropped stale bookings", "generation", gen, "current", a.gen)
		return
	}
	a.bookings = cp
}

func (a *App) ReplaceAdminStats(gen uint64, stats domain.AdminStats) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		a.logger.Debug("dropped stale admin stats", "generation", gen, "current", a.gen)
		return
	}
	a.stats = &stats
}

func (a *App) SetHealth(status domain.HealthStatus) {
	a.mu.Lock()
	a.health = status
	a.mu.Unlock()
}

// SignedIn and SignedOut implement session.Listener.

func (a *App) SignedIn(ctx context.Context, id domain.Identity) {
	gen := a.Generation()
	if err := a.dispatcher.LoadBookings(ctx); err != nil {
		a.logger.Warn("initial booking load failed", "user_id", id.ID, "error", err)
		if a.demo && backend.Classify(err) != backend.ClassOther {
			a.ReplaceBookings(gen, catalog.SeedBookings(id.ID))
		}
	}
	if id.Admin {
		_ = a.dispatcher.LoadAdminStats(ctx)
	}
}

func (a *App) SignedOut() {
	a.mu.Lock()
	a.gen++
	a.bookings = nil
	a.stats = nil
	a.surface = notify.SurfaceNone
	a.mu.Unlock()
}
