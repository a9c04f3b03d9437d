package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBackendURL is used when neither the config file nor the environment names a backend.
const DefaultBackendURL = "https://skybook-backend.onrender.com"

// DevSecret signs tokens when no secret is configured. Deployments must override it.
const DevSecret = "skybook-dev-secret"

// BackendURLEnv overrides client.backend_url.
const BackendURLEnv = "SKYBOOK_BACKEND_URL"

type Config struct {
	Client        ClientConfig        `yaml:"client"`
	Identity      IdentityConfig      `yaml:"identity"`
	HTTP          HTTPConfig          `yaml:"http"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	SMS           SMSConfig           `yaml:"sms"`
	AviationStack AviationStackConfig `yaml:"aviation_stack"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
}

type ClientConfig struct {
	BackendURL             string `yaml:"backend_url"`
	ProbeTimeoutSeconds    int    `yaml:"probe_timeout_seconds"`
	LegacyTimeoutSeconds   int    `yaml:"legacy_timeout_seconds"`
	RequestTimeoutSeconds  int    `yaml:"request_timeout_seconds"`
	HealthIntervalSeconds  int    `yaml:"health_interval_seconds"`
	NotificationTTLSeconds int    `yaml:"notification_ttl_seconds"`
	SearchLatencyMillis    int    `yaml:"search_latency_millis"`
	DefaultContact         string `yaml:"default_contact"`
	// DemoBookings shows the sample bookings when the backend cannot be reached at sign-in.
	DemoBookings bool `yaml:"demo_bookings"`
}

func (c ClientConfig) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

func (c ClientConfig) LegacyTimeout() time.Duration {
	return time.Duration(c.LegacyTimeoutSeconds) * time.Second
}

func (c ClientConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c ClientConfig) HealthInterval() time.Duration {
	return time.Duration(c.HealthIntervalSeconds) * time.Second
}

func (c ClientConfig) NotificationTTL() time.Duration {
	return time.Duration(c.NotificationTTLSeconds) * time.Second
}

func (c ClientConfig) SearchLatency() time.Duration {
	return time.Duration(c.SearchLatencyMillis) * time.Millisecond
}

type IdentityConfig struct {
	Secret          string    `yaml:"secret"`
	TokenTTLSeconds int       `yaml:"token_ttl_seconds"`
	Accounts        []Account `yaml:"accounts"`
}

func (i IdentityConfig) TokenTTL() time.Duration {
	return time.Duration(i.TokenTTLSeconds) * time.Second
}

type Account struct {
	ID    string `yaml:"id"`
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
	Admin bool   `yaml:"admin"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

// Enabled reports whether a PostgreSQL database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"status_ttl_seconds"`
}

func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type SMSConfig struct {
	ProviderURL string `yaml:"provider_url"`
	From        string `yaml:"from"`
}

// Configured reports whether a live SMS provider is available; without one deliveries are simulated.
func (s SMSConfig) Configured() bool {
	return s.ProviderURL != ""
}

type AviationStackConfig struct {
	APIKey string `yaml:"api_key"`
}

type RateLimitConfig struct {
	LegacySMSPerSecond float64 `yaml:"legacy_sms_per_second"`
	LegacySMSBurst     int     `yaml:"legacy_sms_burst"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Client: ClientConfig{
			BackendURL:             DefaultBackendURL,
			ProbeTimeoutSeconds:    5,
			LegacyTimeoutSeconds:   10,
			RequestTimeoutSeconds:  15,
			HealthIntervalSeconds:  30,
			NotificationTTLSeconds: 3,
			SearchLatencyMillis:    800,
			DefaultContact:         "+1234567890",
		},
		Identity: IdentityConfig{
			Secret:          DevSecret,
			TokenTTLSeconds: 300,
			Accounts: []Account{
				{ID: "demo-user", Email: "traveler@skybook.dev", Name: "SkyBook Traveler"},
			},
		},
		HTTP: HTTPConfig{Address: ":8080"},
		Redis: RedisConfig{
			TTLSeconds: 60,
		},
		Kafka: KafkaConfig{
			BookingTopic:       "skybook.bookings",
			NotificationsTopic: "skybook.sms",
			GroupID:            "skybook-sms-worker",
		},
		RateLimit: RateLimitConfig{
			LegacySMSPerSecond: 1,
			LegacySMSBurst:     5,
		},
	}
}

// LoadConfig reads path on top of Default. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(BackendURLEnv)); v != "" {
		cfg.Client.BackendURL = v
	}
	if strings.TrimSpace(cfg.Client.BackendURL) == "" {
		cfg.Client.BackendURL = DefaultBackendURL
	}
	cfg.Client.BackendURL = strings.TrimRight(cfg.Client.BackendURL, "/")

	return cfg, nil
}
