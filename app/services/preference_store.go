package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Preference keys as stored by the original board
const (
	PreferenceSortMethod  = "sortMethod"
	PreferenceTimeframe   = "timeframe"
	PreferenceCompactMode = "compactMode"
	PreferenceVisibility  = "visibility"
)

// PreferenceStore keeps the viewer's board settings outside the event store
type PreferenceStore interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, values map[string]string) error
}

// RedisPreferenceStore keeps preferences in one redis hash
type RedisPreferenceStore struct {
	rc  *redis.Client
	key string
}

func NewRedisPreferenceStore(rc *redis.Client, prefix string) *RedisPreferenceStore {
	return &RedisPreferenceStore{rc: rc, key: prefix + "preferences"}
}

func (s *RedisPreferenceStore) Load(ctx context.Context) (map[string]string, error) {
	values, err := s.rc.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	return values, nil
}

func (s *RedisPreferenceStore) Save(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	fields := make([]any, 0, 2*len(values))
	for k, v := range values {
		fields = append(fields, k, v)
	}
	if err := s.rc.HSet(ctx, s.key, fields...).Err(); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// MemoryPreferenceStore keeps preferences for the lifetime of the process
type MemoryPreferenceStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{values: make(map[string]string)}
}

func (s *MemoryPreferenceStore) Load(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryPreferenceStore) Save(ctx context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range values {
		s.values[k] = v
	}
	return nil
}
