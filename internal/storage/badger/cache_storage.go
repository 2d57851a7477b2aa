package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/coinfolio/internal/common"
)

// CacheEntry is a cached value with its expiry timestamp.
type CacheEntry struct {
	Key       string `badgerhold:"key"`
	Value     []byte
	ExpiresAt time.Time
}

type cacheStorage struct {
	store  *Store
	logger *common.Logger
}

// NewCacheStorage creates a new CacheStore backed by BadgerHold.
func NewCacheStorage(store *Store, logger *common.Logger) *cacheStorage {
	return &cacheStorage{store: store, logger: logger}
}

func (s *cacheStorage) Get(_ context.Context, key string) ([]byte, bool) {
	var entry CacheEntry
	if err := s.store.db.Get(key, &entry); err != nil {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		// Expired entries read as misses; removal is lazy.
		_ = s.store.db.Delete(key, CacheEntry{})
		return nil, false
	}
	return entry.Value, true
}

func (s *cacheStorage) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := CacheEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.store.db.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to set cache key '%s': %w", key, err)
	}
	return nil
}

func (s *cacheStorage) Delete(_ context.Context, key string) error {
	err := s.store.db.Delete(key, CacheEntry{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete cache key '%s': %w", key, err)
	}
	return nil
}
