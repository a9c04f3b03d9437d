package notify

import (
	"sync"
	"time"
)

const DefaultTTL = 3 * time.Second

// Notification is the single visible message and the moment it clears.
type Notification struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Notifier holds at most one notification. A later Show replaces the earlier
// message and cancels its pending clear.
type Notifier struct {
	mu       sync.Mutex
	current  *Notification
	timer    *time.Timer
	gen      uint64
	ttl      time.Duration
	now      func() time.Time
	onChange func(*Notification)
	closed   bool
}

type Option func(*Notifier)

func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		n.now = now
	}
}

// WithOnChange registers a callback invoked after every show or clear.
func WithOnChange(fn func(*Notification)) Option {
	return func(n *Notifier) {
		n.onChange = fn
	}
}

func NewNotifier(ttl time.Duration, opts ...Option) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	n := &Notifier{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Notifier) Show(message string) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	gen := n.gen
	n.current = &Notification{Message: message, ExpiresAt: n.now().Add(n.ttl)}
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(gen) })
	snapshot := *n.current
	cb := n.onChange
	n.mu.Unlock()

	if cb != nil {
		cb(&snapshot)
	}
}

// Current returns the visible notification, if any.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

// Close cancels the pending clear. Show is a no-op afterwards.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	// a newer Show owns the slot
	if gen != n.gen || n.closed {
		n.mu.Unlock()
		return
	}
	n.current = nil
	n.timer = nil
	cb := n.onChange
	n.mu.Unlock()

	if cb != nil {
		cb(nil)
	}
}
