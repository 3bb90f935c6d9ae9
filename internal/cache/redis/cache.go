// Package redis implements the page cache over Redis via rueidis.
// Invalidation deletes every key under the configured prefix.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

// Config holds connection parameters for the cache.
type Config struct {
	Addrs     []string
	Username  string
	Password  string
	KeyPrefix string
}

// Cache deletes rendered-page keys by prefix scan.
type Cache struct {
	client    rueidis.Client
	keyPrefix string
}

// scanPageSize bounds one SCAN iteration.
const scanPageSize = 512

// New creates a Redis-backed cache client.
func New(cfg Config) (*Cache, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	if cfg.KeyPrefix == "" {
		return nil, fmt.Errorf("key prefix is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Cache{client: client, keyPrefix: cfg.KeyPrefix}, nil
}

// NewForTest wraps an existing (mock) client.
func NewForTest(client rueidis.Client, keyPrefix string) *Cache {
	return &Cache{client: client, keyPrefix: keyPrefix}
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	cmd := c.client.B().Ping().Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (c *Cache) Close() {
	c.client.Close()
}

// WaitForReady polls Ping until the cache responds or timeout expires.
func (c *Cache) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for cache: %w", ctx.Err())
		case <-ticker.C:
			if err := c.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// InvalidateAll deletes every key under the configured prefix. Idempotent:
// an empty cache invalidates successfully.
func (c *Cache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		cmd := c.client.B().Scan().Cursor(cursor).
			Match(c.keyPrefix + "*").Count(scanPageSize).Build()
		entry, err := c.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return fmt.Errorf("scan cache keys: %w", err)
		}

		if len(entry.Elements) > 0 {
			del := c.client.B().Del().Key(entry.Elements...).Build()
			if err := c.client.Do(ctx, del).Error(); err != nil {
				return fmt.Errorf("delete cache keys: %w", err)
			}
		}

		cursor = entry.Cursor
		if cursor == 0 {
			return nil
		}
	}
}
