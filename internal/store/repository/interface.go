// Package repository implements configuration entry persistence for the
// in-memory, PostgreSQL, and MySQL backends.
package repository

import (
	"context"

	storeDomain "github.com/allisson/configvault/internal/store/domain"
)

// EntryRepository is the persistence surface of the configuration store.
// Get returns (nil, nil) for an absent key: absence is not an error at
// this layer. Upsert is atomic per key with last-writer-wins semantics.
type EntryRepository interface {
	Upsert(ctx context.Context, entry *storeDomain.ConfigurationEntry) error
	Get(ctx context.Context, key string) (*storeDomain.ConfigurationEntry, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context) ([]*storeDomain.ConfigurationEntry, error)
}
