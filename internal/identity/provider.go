package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/skybook/config"
	"github.com/Domenick1991/skybook/internal/domain"
)

var (
	ErrNoAccount   = errors.New("identity: no matching account")
	ErrNotSignedIn = errors.New("identity: not signed in")
)

// LocalProvider is an in-process identity provider backed by configured
// accounts. It signs HS256 tokens with the secret the backend verifies.
type LocalProvider struct {
	mu        sync.Mutex
	secret    string
	ttl       time.Duration
	accounts  []domain.Identity
	current   *domain.Identity
	observers map[int]func(*domain.Identity)
	nextID    int
	now       func() time.Time
}

func NewLocalProvider(cfg config.IdentityConfig) *LocalProvider {
	accounts := make([]domain.Identity, 0, len(cfg.Accounts))
	for _, a := range cfg.Accounts {
		accounts = append(accounts, domain.Identity{ID: a.ID, Email: a.Email, DisplayName: a.Name, Admin: a.Admin})
	}
	return &LocalProvider{
		secret:    cfg.Secret,
		ttl:       cfg.TokenTTL(),
		accounts:  accounts,
		observers: make(map[int]func(*domain.Identity)),
		now:       time.Now,
	}
}

// Subscribe registers fn for sign-in state changes. The returned func removes it.
func (p *LocalProvider) Subscribe(fn func(*domain.Identity)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.observers[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.observers, id)
			p.mu.Unlock()
		})
	}
}

// SignIn signs in the account matching hint by email or id; an empty hint
// picks the first configured account.
func (p *LocalProvider) SignIn(ctx context.Context, hint string) (*domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	account, ok := p.lookup(hint)
	if !ok {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrNoAccount, hint)
	}
	p.current = &account
	p.mu.Unlock()

	p.publish(&account)
	out := account
	return &out, nil
}

// Current returns the signed-in account, or nil.
func (p *LocalProvider) Current() *domain.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	cp := *p.current
	return &cp
}

func (p *LocalProvider) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()

	p.publish(nil)
	return nil
}

// Token mints a new bearer token for id.
func (p *LocalProvider) Token(ctx context.Context, id domain.Identity) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.Lock()
	current := p.current
	p.mu.Unlock()
	if current == nil || current.ID != id.ID {
		return "", ErrNotSignedIn
	}
	return GenerateToken(p.secret, *current, p.ttl, p.now())
}

func (p *LocalProvider) lookup(hint string) (domain.Identity, bool) {
	if len(p.accounts) == 0 {
		return domain.Identity{}, false
	}
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return p.accounts[0], true
	}
	for _, a := range p.accounts {
		if strings.EqualFold(a.Email, hint) || a.ID == hint {
			return a, true
		}
	}
	return domain.Identity{}, false
}

func (p *LocalProvider) publish(id *domain.Identity) {
	p.mu.Lock()
	observers := make([]func(*domain.Identity), 0, len(p.observers))
	for _, fn := range p.observers {
		observers = append(observers, fn)
	}
	p.mu.Unlock()

	for _, fn := range observers {
		if id == nil {
			fn(nil)
			continue
		}
		cp := *id
		fn(&cp)
	}
}
