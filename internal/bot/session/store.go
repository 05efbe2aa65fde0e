// Package session holds the short-lived per-thread prospecting conversation
// state. Sessions expire after a TTL so abandoned flows evaporate instead of
// accumulating.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"prospector/internal/common/database"

	"github.com/redis/go-redis/v9"
)

// Conversation stages of the guided prospecting flow.
const (
	StageAwaitingFilters = "awaiting_filters"
	StageAwaitingRoles   = "awaiting_roles"
	StageRunning         = "running"
)

// Session is the per-conversation-thread prospecting state machine.
type Session struct {
	Stage       string   `json:"stage"`
	UserID      string   `json:"user_id"`
	FiltersText string   `json:"filters_text,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// Store persists sessions keyed by (channel, thread).
type Store interface {
	Get(ctx context.Context, channel, thread string) (*Session, error)
	Put(ctx context.Context, channel, thread string, s *Session) error
	Delete(ctx context.Context, channel, thread string) error
}

func key(channel, thread string) string {
	return fmt.Sprintf("prospector:session:%s:%s", channel, thread)
}

// RedisStore keeps sessions in Redis with a TTL refreshed on every write.
type RedisStore struct {
	client *database.RedisClient
	ttl    time.Duration
}

func NewRedisStore(client *database.RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, channel, thread string) (*Session, error) {
	raw, err := s.client.Get(ctx, key(channel, thread))
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get failed: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("session decode failed: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Put(ctx context.Context, channel, thread string, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session encode failed: %w", err)
	}
	if err := s.client.Set(ctx, key(channel, thread), raw, s.ttl); err != nil {
		return fmt.Errorf("session put failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, channel, thread string) error {
	return s.client.Del(ctx, key(channel, thread))
}

// MemoryStore is the fallback when Redis is not configured. Expired entries
// are pruned lazily on access.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

type memoryEntry struct {
	session  Session
	expireAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Get(_ context.Context, channel, thread string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key(channel, thread)]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expireAt) {
		delete(s.entries, key(channel, thread))
		return nil, nil
	}
	sess := entry.session
	return &sess, nil
}

func (s *MemoryStore) Put(_ context.Context, channel, thread string, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key(channel, thread)] = memoryEntry{
		session:  *sess,
		expireAt: time.Now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, channel, thread string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key(channel, thread))
	return nil
}
