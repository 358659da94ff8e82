// Package selection tracks which video and timestamp each session is playing.
package selection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/therealutkarshpriyadarshi/vidmarks/internal/cache"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/metrics"
	"github.com/therealutkarshpriyadarshi/vidmarks/pkg/models"
)

// ErrTimestampNotFound is returned when a video has no entry for the requested timestamp
var ErrTimestampNotFound = errors.New("timestamp not found on video")

// Store keeps one selection per session
type Store interface {
	Get(ctx context.Context, sessionID string) (*models.Selection, error)
	Set(ctx context.Context, sessionID string, sel *models.Selection) error
	Clear(ctx context.Context, sessionID string) error
}

// EmbedBuilder builds player URLs
type EmbedBuilder interface {
	EmbedURL(videoURL, ts string) (string, error)
}

// Service resolves clicks into selections and stores them
type Service struct {
	store   Store
	builder EmbedBuilder
	now     func() time.Time
}

// NewService creates a selection service
func NewService(store Store, builder EmbedBuilder) *Service {
	return &Service{store: store, builder: builder, now: time.Now}
}

// Select replaces the session's selection with (video, ts). The catalog
// entry passed in is copied, never modified.
func (s *Service) Select(ctx context.Context, sessionID string, video models.Video, ts string) (*models.Selection, error) {
	stamp, ok := video.FindTimestamp(ts)
	if !ok {
		return nil, fmt.Errorf("%w: video %s has no %q", ErrTimestampNotFound, video.ID, ts)
	}

	embedURL, err := s.builder.EmbedURL(video.URL, stamp.Timestamp)
	if err != nil {
		return nil, err
	}

	sel := &models.Selection{
		Video:      video.Clone(),
		Timestamp:  stamp,
		EmbedURL:   embedURL,
		SelectedAt: s.now().UTC(),
	}
	if err := s.store.Set(ctx, sessionID, sel); err != nil {
		return nil, fmt.Errorf("failed to store selection: %w", err)
	}

	metrics.RecordSelection()
	return sel, nil
}

// Current returns the session's selection, or nil when there is none
func (s *Service) Current(ctx context.Context, sessionID string) (*models.Selection, error) {
	return s.store.Get(ctx, sessionID)
}

// Clear drops the session's selection
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

type memoryEntry struct {
	selection models.Selection
	expiresAt time.Time
}

// MemoryStore keeps selections in process memory. Entries older than the
// TTL read as misses and are dropped by Prune.
type MemoryStore struct {
	mu         sync.RWMutex
	selections map[string]memoryEntry
	ttl        time.Duration
	now        func() time.Time
}

// NewMemoryStore creates an empty in-memory store. A ttl of zero keeps
// selections until they are cleared.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		selections: make(map[string]memoryEntry),
		ttl:        ttl,
		now:        time.Now,
	}
}

func (m *MemoryStore) expired(e memoryEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func (m *MemoryStore) Get(ctx context.Context, sessionID string) (*models.Selection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.selections[sessionID]
	if !ok || m.expired(e, m.now()) {
		return nil, nil
	}
	sel := e.selection
	sel.Video = sel.Video.Clone()
	return &sel, nil
}

func (m *MemoryStore) Set(ctx context.Context, sessionID string, sel *models.Selection) error {
	e := memoryEntry{selection: *sel}
	e.selection.Video = sel.Video.Clone()
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.selections[sessionID] = e
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.selections, sessionID)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored selections, expired or not
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.selections)
}

// Prune drops expired selections and returns how many were removed
func (m *MemoryStore) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, e := range m.selections {
		if m.expired(e, now) {
			delete(m.selections, id)
			removed++
		}
	}
	return removed
}

// StartPruning runs Prune every interval until ctx is done. A non-positive interval disables it.
func (m *MemoryStore) StartPruning(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Prune()
			}
		}
	}()
}

// RedisStore keeps selections in Redis with a TTL
type RedisStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewRedisStore creates a Redis-backed store
func NewRedisStore(c *cache.Cache, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*models.Selection, error) {
	sel, err := r.cache.GetSelection(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	metrics.RecordCacheAccess("selection", sel != nil)
	return sel, nil
}

func (r *RedisStore) Set(ctx context.Context, sessionID string, sel *models.Selection) error {
	return r.cache.SetSelection(ctx, sessionID, sel, r.ttl)
}

func (r *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return r.cache.DeleteSelection(ctx, sessionID)
}
