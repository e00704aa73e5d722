package repository

import (
	"context"
	"sort"
	"sync"

	storeDomain "github.com/allisson/configvault/internal/store/domain"
)

// MemoryEntryRepository keeps entries in a mutex-guarded map. Reads run
// concurrently; writes to the same key are last-writer-wins.
type MemoryEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]storeDomain.ConfigurationEntry
}

// NewMemoryEntryRepository creates an empty in-memory repository.
func NewMemoryEntryRepository() *MemoryEntryRepository {
	return &MemoryEntryRepository{
		entries: make(map[string]storeDomain.ConfigurationEntry),
	}
}

// Upsert stores a copy of the entry under its key.
func (m *MemoryEntryRepository) Upsert(ctx context.Context, entry *storeDomain.ConfigurationEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.Key] = entry.Clone()
	return nil
}

// Get returns a copy of the entry, or (nil, nil) when the key is absent.
func (m *MemoryEntryRepository) Get(ctx context.Context, key string) (*storeDomain.ConfigurationEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	clone := entry.Clone()
	return &clone, nil
}

// Delete removes the entry and reports whether it existed.
func (m *MemoryEntryRepository) Delete(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok, nil
}

// List returns copies of all entries sorted by key.
func (m *MemoryEntryRepository) List(ctx context.Context) ([]*storeDomain.ConfigurationEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]*storeDomain.ConfigurationEntry, 0, len(m.entries))
	for _, entry := range m.entries {
		clone := entry.Clone()
		entries = append(entries, &clone)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}
