package store

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultMaxEntries = 64
	// DefaultTTL evicts entries a day after they were written. Date equality still decides freshness.
	DefaultTTL = 24 * time.Hour
)

type memoryStore struct {
	cache *expirable.LRU[string, Entry]
}

// Memory returns an in-process Store. maxEntries <= 0 uses a default; ttl == 0 uses DefaultTTL.
func Memory(maxEntries int, ttl time.Duration) Store {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &memoryStore{cache: expirable.NewLRU[string, Entry](maxEntries, nil, ttl)}
}

func (m *memoryStore) Get(_ context.Context, sourceID string) (Entry, bool, error) {
	entry, ok := m.cache.Get(sourceID)
	return entry, ok, nil
}

func (m *memoryStore) Put(_ context.Context, sourceID string, entry Entry) error {
	if err := validateKey(sourceID); err != nil {
		return err
	}
	if err := validateEntry(entry); err != nil {
		return err
	}
	m.cache.Add(sourceID, entry)
	return nil
}
