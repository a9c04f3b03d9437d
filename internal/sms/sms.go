package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Domenick1991/skybook/config"
	"github.com/Domenick1991/skybook/internal/kafka"
)

// Sender delivers alert events to an HTTP SMS provider. Without a provider URL
// it only logs the message.
type Sender struct {
	providerURL string
	from        string
	client      *http.Client
	logger      *slog.Logger
}

func NewSender(cfg config.SMSConfig, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{
		providerURL: cfg.ProviderURL,
		from:        cfg.From,
		client:      &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}
}

// Simulated reports whether deliveries are only logged.
func (s *Sender) Simulated() bool {
	return s.providerURL == ""
}

type providerMessage struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
	Body string `json:"body"`
}

func (s *Sender) Deliver(ctx context.Context, event kafka.AlertEvent) error {
	if s.Simulated() {
		s.logger.Info("simulated sms", "to", event.To, "flight", event.FlightNumber, "message", event.Message)
		return nil
	}

	payload, err := json.Marshal(providerMessage{From: s.from, To: event.To, Body: event.Message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.providerURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms provider: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("sms provider: unexpected status %d", resp.StatusCode)
	}

	s.logger.Info("sms sent", "to", event.To, "flight", event.FlightNumber, "id", event.ID)
	return nil
}
