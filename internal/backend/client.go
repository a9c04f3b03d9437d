package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Domenick1991/skybook/internal/domain"
)

// Client talks to the SkyBook backend over HTTP/JSON. Authenticated calls take
// the bearer token as an argument so that callers can mint a fresh one each time.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping probes the backend root. Deadlines come from ctx.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/", "", nil, nil)
}

func (c *Client) Bookings(ctx context.Context, token string) ([]domain.Booking, error) {
	var resp BookingsResponse
	if err := c.do(ctx, http.MethodGet, "/api/bookings", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

func (c *Client) BookFlight(ctx context.Context, token string, req BookFlightRequest) (*BookFlightResponse, error) {
	var resp BookFlightResponse
	if err := c.do(ctx, http.MethodPost, "/api/book-flight", token, req, &resp); err != nil {
		return &resp, err
	}
	return &resp, nil
}

func (c *Client) FlightStatus(ctx context.Context, flightNumber string) (*FlightStatusResponse, error) {
	var resp FlightStatusResponse
	path := "/api/flight-status/" + url.PathEscape(flightNumber)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendLegacySMS posts to the unauthenticated endpoint. The decoded body is
// returned alongside a StatusError so callers can read the reason.
func (c *Client) SendLegacySMS(ctx context.Context, req LegacySMSRequest) (*SMSResponse, error) {
	var resp SMSResponse
	err := c.do(ctx, http.MethodPost, "/send-sms", "", req, &resp)
	return &resp, err
}

func (c *Client) SendSMS(ctx context.Context, token string, req SMSRequest) (*SMSResponse, error) {
	var resp SMSResponse
	err := c.do(ctx, http.MethodPost, "/api/send-sms", token, req, &resp)
	return &resp, err
}

func (c *Client) RegisterContact(ctx context.Context, token string, req RegisterContactRequest) error {
	return c.do(ctx, http.MethodPost, "/api/contacts", token, req, nil)
}

func (c *Client) AdminStats(ctx context.Context, token string) (*AdminStatsResponse, error) {
	var resp AdminStatsResponse
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response %s %s: %w", method, path, err)
	}

	decodeErr := error(nil)
	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		decodeErr = json.Unmarshal(data, out)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Reason: reasonFrom(data)}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response %s %s: %w", method, path, decodeErr)
	}
	return nil
}

func reasonFrom(data []byte) string {
	var e ErrorResponse
	if err := json.Unmarshal(data, &e); err != nil {
		return ""
	}
	return e.Error
}
