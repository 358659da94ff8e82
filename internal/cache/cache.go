package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/therealutkarshpriyadarshi/vidmarks/pkg/models"
)

// Cache provides caching functionality using Redis
type Cache struct {
	client *redis.Client
}

// NewCache creates a new cache instance
func NewCache(host string, port int, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

func selectionKey(sessionID string) string {
	return fmt.Sprintf("selection:%s", sessionID)
}

// SetSelection stores the session's selection, replacing any previous one
func (c *Cache) SetSelection(ctx context.Context, sessionID string, sel *models.Selection, ttl time.Duration) error {
	return c.SetWithJSON(ctx, selectionKey(sessionID), sel, ttl)
}

// GetSelection retrieves a session's selection. A miss returns nil, nil.
func (c *Cache) GetSelection(ctx context.Context, sessionID string) (*models.Selection, error) {
	data, err := c.client.Get(ctx, selectionKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get selection from cache: %w", err)
	}

	var sel models.Selection
	if err := json.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selection: %w", err)
	}

	return &sel, nil
}

// DeleteSelection removes a session's selection
func (c *Cache) DeleteSelection(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, selectionKey(sessionID)).Err()
}

// SetWithJSON sets a value with JSON marshaling
func (c *Cache) SetWithJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Health check
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
