package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/notify"
)

var (
	ErrNotSignedIn = errors.New("session: not signed in")
	// ErrSignInSuperseded is returned by Login when the session ended before sign-in completed.
	ErrSignInSuperseded = errors.New("session: sign-in superseded")
)

const (
	// MsgWelcome takes the display name.
	MsgWelcome     = "Welcome, %s!"
	MsgLoginFailed = "Login failed. Please try again."
	MsgLoggedOut   = "Logged out successfully!"
)

// Provider is the external identity provider.
type Provider interface {
	Subscribe(fn func(*domain.Identity)) (unsubscribe func())
	Current() *domain.Identity
	SignIn(ctx context.Context, hint string) (*domain.Identity, error)
	SignOut(ctx context.Context) error
	Token(ctx context.Context, id domain.Identity) (string, error)
}

// Listener reacts to session transitions.
type Listener interface {
	SignedIn(ctx context.Context, id domain.Identity)
	SignedOut()
}

// Manager tracks the signed-in identity and hands out bearer tokens.
type Manager struct {
	mu          sync.RWMutex
	provider    Provider
	presenter   notify.Presenter
	listener    Listener
	current     *domain.Identity
	unsubscribe func()
	ctx         context.Context
	logger      *slog.Logger
}

type Option func(*Manager)

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

func NewManager(provider Provider, presenter notify.Presenter, opts ...Option) *Manager {
	m := &Manager{
		provider:  provider,
		presenter: presenter,
		ctx:       context.Background(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start subscribes to provider changes. ctx bounds the work triggered by them.
func (m *Manager) Start(ctx context.Context, l Listener) {
	m.mu.Lock()
	m.ctx = ctx
	m.listener = l
	m.mu.Unlock()

	unsubscribe := m.provider.Subscribe(m.OnIdentityChange)

	m.mu.Lock()
	m.unsubscribe = unsubscribe
	m.mu.Unlock()
}

// Close unregisters from the provider. Safe to call more than once.
func (m *Manager) Close() {
	m.mu.Lock()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// OnIdentityChange replaces the current identity. A new identity triggers a
// booking reload; nil clears session-scoped state.
func (m *Manager) OnIdentityChange(id *domain.Identity) {
	m.mu.Lock()
	prev := m.current
	if id != nil {
		cp := *id
		m.current = &cp
	} else {
		m.current = nil
	}
	l := m.listener
	ctx := m.ctx
	m.mu.Unlock()

	if l == nil {
		return
	}
	switch {
	case id != nil && (prev == nil || prev.ID != id.ID):
		m.logger.Info("session started", "user_id", id.ID)
		if prev != nil {
			l.SignedOut()
		}
		l.SignedIn(ctx, *id)
	case id == nil && prev != nil:
		m.logger.Info("session ended", "user_id", prev.ID)
		l.SignedOut()
	}
}

func (m *Manager) Current() (domain.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return domain.Identity{}, false
	}
	return *m.current, true
}

// Login opens the provider's sign-in flow. hint selects an account.
func (m *Manager) Login(ctx context.Context, hint string) (*domain.Identity, error) {
	id, err := m.provider.SignIn(ctx, hint)
	if err != nil {
		m.logger.Warn("sign-in failed", "error", err)
		m.presenter.Notify(MsgLoginFailed)
		return nil, fmt.Errorf("sign in: %w", err)
	}

	// a sign-out may have landed while the sign-in callbacks ran
	if cur := m.provider.Current(); cur == nil || cur.ID != id.ID {
		m.logger.Info("sign-in superseded", "user_id", id.ID)
		return nil, ErrSignInSuperseded
	}
	// the provider normally reports this through the subscription already
	if cur, ok := m.Current(); !ok || cur.ID != id.ID {
		m.OnIdentityChange(id)
	}
	m.presenter.Notify(fmt.Sprintf(MsgWelcome, id.DisplayName))
	m.presenter.ShowSurface(notify.SurfaceNone)
	return id, nil
}

// Logout asks the provider to end the session. Provider failures are logged
// and local state is cleared anyway.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.provider.SignOut(ctx); err != nil {
		m.logger.Error("sign-out failed", "error", err)
		m.OnIdentityChange(nil)
		return
	}
	m.OnIdentityChange(nil)
	m.presenter.Notify(MsgLoggedOut)
}

// Token returns a freshly minted bearer token for the current identity.
func (m *Manager) Token(ctx context.Context) (string, error) {
	id, ok := m.Current()
	if !ok {
		return "", ErrNotSignedIn
	}
	token, err := m.provider.Token(ctx, id)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
