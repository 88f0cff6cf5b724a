package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
	"go.uber.org/zap"
)

// Cache is the string key/value surface the service needs.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close()
}

type ValkeyCache struct {
	client valkey.Client
	prefix string
}

func NewValkey(address, prefix string) (*ValkeyCache, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{address},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}
	return &ValkeyCache{client: client, prefix: prefix}, nil
}

func (c *ValkeyCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Do(ctx, c.client.B().Get().Key(c.prefix+key).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	cmd := c.client.B().Set().Key(c.prefix + key).Value(value).Ex(ttl).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (c *ValkeyCache) Close() {
	c.client.Close()
}

// Noop is used when no cache address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, bool, error)        { return "", false, nil }
func (Noop) Set(context.Context, string, string, time.Duration) error { return nil }
func (Noop) Close()                                                   {}

// Open connects to Valkey at address. An empty address or a failed connection
// yields Noop, so callers always get a usable Cache.
func Open(address, prefix string, logger *zap.Logger) Cache {
	if address == "" {
		return Noop{}
	}
	c, err := NewValkey(address, prefix)
	if err != nil {
		logger.Warn("valkey unavailable, caching disabled", zap.String("address", address), zap.Error(err))
		return Noop{}
	}
	return c
}
