package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Domenick1991/skybook/internal/backend"
	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/notify"
	"github.com/Domenick1991/skybook/internal/session"
)

var (
	ErrBookingRejected = errors.New("dispatch: booking rejected")
	ErrFlightNotFound  = errors.New("dispatch: flight not found")
)

// Backend is the subset of the HTTP API the dispatcher drives.
type Backend interface {
	Ping(ctx context.Context) error
	Bookings(ctx context.Context, token string) ([]domain.Booking, error)
	BookFlight(ctx context.Context, token string, req backend.BookFlightRequest) (*backend.BookFlightResponse, error)
	FlightStatus(ctx context.Context, flightNumber string) (*backend.FlightStatusResponse, error)
	SendLegacySMS(ctx context.Context, req backend.LegacySMSRequest) (*backend.SMSResponse, error)
	SendSMS(ctx context.Context, token string, req backend.SMSRequest) (*backend.SMSResponse, error)
	RegisterContact(ctx context.Context, token string, req backend.RegisterContactRequest) error
	AdminStats(ctx context.Context, token string) (*backend.AdminStatsResponse, error)
}

// Session supplies the current identity and a fresh token per call.
type Session interface {
	Current() (domain.Identity, bool)
	Token(ctx context.Context) (string, error)
}

// Store receives state replacements. It is owned by the application controller.
// Session-scoped writes carry the generation read before the request started;
// the store drops writes from a generation that has since ended.
type Store interface {
	Generation() uint64
	ReplaceBookings(gen uint64, bookings []domain.Booking)
	ReplaceAdminStats(gen uint64, stats domain.AdminStats)
	SetHealth(status domain.HealthStatus)
}

type Timeouts struct {
	Probe   time.Duration
	Legacy  time.Duration
	Request time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{Probe: 5 * time.Second, Legacy: 10 * time.Second, Request: 15 * time.Second}
}

func (t Timeouts) withDefaults() Timeouts {
	def := DefaultTimeouts()
	if t.Probe <= 0 {
		t.Probe = def.Probe
	}
	if t.Legacy <= 0 {
		t.Legacy = def.Legacy
	}
	if t.Request <= 0 {
		t.Request = def.Request
	}
	return t
}

type Dispatcher struct {
	backend        Backend
	session        Session
	presenter      notify.Presenter
	store          Store
	timeouts       Timeouts
	defaultContact string
	now            func() time.Time
	logger         *slog.Logger
}

type Option func(*Dispatcher)

// WithTimeouts overrides the call timeouts. Non-positive values keep the defaults.
func WithTimeouts(t Timeouts) Option {
	return func(d *Dispatcher) {
		d.timeouts = t.withDefaults()
	}
}

func WithDefaultContact(contact string) Option {
	return func(d *Dispatcher) {
		d.defaultContact = contact
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

func New(b Backend, s Session, p notify.Presenter, store Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		backend:   b,
		session:   s,
		presenter: p,
		store:     store,
		timeouts:  DefaultTimeouts(),
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// BookFlight books flight for the signed-in user and reloads the booking list
// from the backend on success. It never retries.
func (d *Dispatcher) BookFlight(ctx context.Context, flight domain.Flight, passengers int) error {
	id, ok := d.requireIdentity()
	if !ok {
		return session.ErrNotSignedIn
	}

	token, err := d.session.Token(ctx)
	if err != nil {
		d.logger.Warn("book flight: token", "flight", flight.FlightNumber, "error", err)
		d.presenter.Notify(MsgBookingFailed)
		return err
	}

	if passengers <= 0 {
		passengers = 1
	}
	reqCtx, cancel := context.WithTimeout(ctx, d.timeouts.Request)
	defer cancel()

	resp, err := d.backend.BookFlight(reqCtx, token, backend.BookFlightRequest{
		FlightNumber:  flight.FlightNumber,
		From:          flight.From,
		To:            flight.To,
		Date:          d.now().Format("2006-01-02"),
		PassengerName: id.DisplayName,
		Passengers:    passengers,
	})
	if err != nil {
		d.logger.Warn("book flight failed", "flight", flight.FlightNumber, "error", err)
		d.presenter.Notify(MsgBookingFailed)
		return err
	}
	if !resp.Success {
		d.logger.Warn("book flight rejected", "flight", flight.FlightNumber, "reason", resp.Error)
		d.presenter.Notify(MsgBookingFailed)
		return ErrBookingRejected
	}

	d.presenter.Notify(fmt.Sprintf(MsgBookingSucceeded, flight.FlightNumber))
	_ = d.LoadBookings(ctx)
	return nil
}

// CheckFlightStatus fetches the live status for flightNumber.
func (d *Dispatcher) CheckFlightStatus(ctx context.Context, flightNumber string) (*domain.FlightStatus, error) {
	reqCtx, cancel := context.WithTimeout(ctx, d.timeouts.Request)
	defer cancel()

	resp, err := d.backend.FlightStatus(reqCtx, flightNumber)
	if err != nil || resp == nil || resp.Flight == nil {
		if err == nil {
			err = ErrFlightNotFound
		}
		d.logger.Info("flight status unavailable", "flight", flightNumber, "error", err)
		d.presenter.Notify(fmt.Sprintf(MsgFlightNotFound, flightNumber))
		return nil, err
	}

	st := resp.Flight
	if st.FlightNumber == "" {
		st.FlightNumber = flightNumber
	}
	d.presenter.Notify(fmt.Sprintf(MsgFlightStatus, st.FlightNumber, st.Airline, st.StatusLabel()))
	return st, nil
}

// LoadBookings replaces the local booking list with the backend's. Failures are logged only.
func (d *Dispatcher) LoadBookings(ctx context.Context) error {
	gen := d.store.Generation()
	token, err := d.session.Token(ctx)
	if err != nil {
		d.logger.Debug("load bookings skipped", "error", err)
		return err
	}

	reqCtx, cancel := context.WithTimeout(ctx, d.timeouts.Request)
	defer cancel()

	bookings, err := d.backend.Bookings(reqCtx, token)
	if err != nil {
		d.logger.Warn("load bookings failed", "error", err)
		return err
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	d.store.ReplaceBookings(gen, bookings)
	return nil
}

// LoadAdminStats replaces the local admin stats. Failures are logged only.
func (d *Dispatcher) LoadAdminStats(ctx context.Context) error {
	gen := d.store.Generation()
	token, err := d.session.Token(ctx)
	if err != nil {
		d.logger.Debug("load admin stats skipped", "error", err)
		return err
	}

	reqCtx, cancel := context.WithTimeout(ctx, d.timeouts.Request)
	defer cancel()

	resp, err := d.backend.AdminStats(reqCtx, token)
	if err != nil {
		d.logger.Warn("load admin stats failed", "error", err)
		return err
	}
	d.store.ReplaceAdminStats(gen, resp.Stats)
	return nil
}

// RegisterContact registers phone as the signed-in user's SMS contact.
func (d *Dispatcher) RegisterContact(ctx context.Context, phone string) error {
	if _, ok := d.requireIdentity(); !ok {
		return session.ErrNotSignedIn
	}

	token, err := d.session.Token(ctx)
	if err == nil {
		reqCtx, cancel := context.WithTimeout(ctx, d.timeouts.Request)
		defer cancel()
		err = d.backend.RegisterContact(reqCtx, token, backend.RegisterContactRequest{Phone: phone})
	}
	if err != nil {
		d.logger.Warn("register contact failed", "error", err)
		d.presenter.Notify(MsgContactRegisterFailed)
		return err
	}

	d.presenter.Notify(MsgContactRegistered)
	d.presenter.ShowSurface(notify.SurfaceNone)
	return nil
}

func (d *Dispatcher) requireIdentity() (domain.Identity, bool) {
	id, ok := d.session.Current()
	if !ok {
		d.presenter.Notify(MsgSignInRequired)
		d.presenter.ShowSurface(notify.SurfaceSignIn)
	}
	return id, ok
}
