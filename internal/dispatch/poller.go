package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Domenick1991/skybook/internal/backend"
	"github.com/Domenick1991/skybook/internal/domain"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthSink interface {
	SetHealth(status domain.HealthStatus)
}

// HealthPoller probes the backend on a fixed interval and records the result
// for display. It never notifies the user.
type HealthPoller struct {
	pinger   Pinger
	sink     HealthSink
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewHealthPoller(p Pinger, sink HealthSink, interval, timeout time.Duration, logger *slog.Logger) *HealthPoller {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthPoller{pinger: p, sink: sink, interval: interval, timeout: timeout, logger: logger}
}

// Start sets the status to checking, probes once and then every interval
// until Stop or ctx is done.
func (p *HealthPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.sink.SetHealth(domain.HealthChecking)

	go p.loop(ctx, p.done)
}

// Stop cancels the loop and waits for it to exit.
func (p *HealthPoller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *HealthPoller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Probe(ctx)
	for {
		select {
		case <-ticker.C:
			p.Probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Probe runs a single health check and records its outcome.
func (p *HealthPoller) Probe(ctx context.Context) domain.HealthStatus {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.pinger.Ping(probeCtx)
	if ctx.Err() != nil {
		// stopping; keep the last status
		return domain.HealthChecking
	}

	status := domain.HealthOnline
	var statusErr *backend.StatusError
	switch {
	case err == nil:
	case errors.As(err, &statusErr):
		status = domain.HealthError
	default:
		status = domain.HealthOffline
	}
	if err != nil {
		p.logger.Debug("backend health probe failed", "status", string(status), "error", err)
	}
	p.sink.SetHealth(status)
	return status
}
