package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/skybook/config"
	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client    *redis.Client
	statusTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		statusTTL: cfg.TTL(),
	}
}

// GetFlightStatus returns nil, nil on a cache miss.
func (c *RedisCache) GetFlightStatus(ctx context.Context, flightNumber string) (*domain.FlightStatus, error) {
	data, err := c.client.Get(ctx, statusKey(flightNumber)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var status domain.FlightStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *RedisCache) SetFlightStatus(ctx context.Context, status *domain.FlightStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statusKey(status.FlightNumber), payload, c.statusTTL).Err()
}

// AcquireBookingLock guards against the same user booking the same flight twice
// concurrently.
func (c *RedisCache) AcquireBookingLock(ctx context.Context, userID, flightNumber string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, bookingLockKey(userID, flightNumber), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseBookingLock(ctx context.Context, userID, flightNumber string) error {
	return c.client.Del(ctx, bookingLockKey(userID, flightNumber)).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func statusKey(flightNumber string) string {
	return "cache:flight-status:" + strings.ToUpper(flightNumber)
}

func bookingLockKey(userID, flightNumber string) string {
	return fmt.Sprintf("lock:user:%s:flight:%s", userID, strings.ToUpper(flightNumber))
}
