package cache

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/dentkazan/clinicdirectory/internal/domain/providers"
)

// MemoryAdapter implements the CacheProvider interface with an in-process
// map. It is the fallback when Redis is not configured.
type MemoryAdapter struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryAdapter creates a new in-memory cache adapter
func NewMemoryAdapter() providers.CacheProvider {
	return &MemoryAdapter{
		entries: make(map[string]memoryEntry),
	}
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(a.entries, key)
		return nil, fmt.Errorf("key not found: %s", key)
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

// Set stores a value in cache with expiration
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	a.entries[key] = memoryEntry{
		value:     stored,
		expiresAt: time.Now().Add(time.Duration(expirationSeconds) * time.Second),
	}
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.entries, key)
	return nil
}

// Exists checks if a key exists in cache
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.entries[key]
	if !ok {
		return false, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(a.entries, key)
		return false, nil
	}
	return true, nil
}

// DeletePattern removes all keys matching a glob-style pattern
func (a *MemoryAdapter) DeletePattern(ctx context.Context, pattern string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for key := range a.entries {
		if matched, _ := path.Match(pattern, key); matched {
			delete(a.entries, key)
		}
	}
	return nil
}
