// Package progress persists per-(user, tree) completion sets and derives
// the gamification numbers (level, XP, streak display) shown alongside a
// tree.
//
// The store contract is deliberately dumb: each upsert replaces the full
// completed-id list, last write wins. The viewer updates its in-memory set
// optimistically before the write resolves and rolls back only on failure,
// so the UI is the source of truth until a write is confirmed failed.
//
// Backends:
//   - FileStore: JSON files under the user config dir (CLI usage)
//   - SQLiteStore: single-file database for multi-tree local history
//   - RedisStore: shared store for the hosted API
//   - NullStore: discard-everything store for tests and offline preview
package progress

import (
	"context"

	"github.com/nasimstg/skilltree/pkg/tree"
)

// Store is the persistence collaborator for completion sets.
type Store interface {
	// Get returns the completion set for a user and tree.
	// A user or tree that was never written returns an empty set, not an
	// error.
	Get(ctx context.Context, user, treeID string) (tree.Set, error)

	// Upsert replaces the full completed-id list for a user and tree.
	Upsert(ctx context.Context, user, treeID string, ids []string) error

	// Close releases any underlying resources.
	Close() error
}

// NullStore discards writes and returns empty sets.
// Useful for tests and for the builder's preview mode, which renders a
// tree as completion-free.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() Store { return &NullStore{} }

// Get always returns an empty set.
func (s *NullStore) Get(ctx context.Context, user, treeID string) (tree.Set, error) {
	return tree.NewSet(), nil
}

// Upsert does nothing.
func (s *NullStore) Upsert(ctx context.Context, user, treeID string, ids []string) error {
	return nil
}

// Close does nothing.
func (s *NullStore) Close() error { return nil }

var _ Store = (*NullStore)(nil)
