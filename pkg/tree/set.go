package tree

import (
	"maps"
	"slices"
)

// Set is a completion set: the node IDs a user has completed within one
// tree. It is the only mutable state layered onto otherwise-immutable tree
// content, and it is supplied externally to every operation that depends
// on status.
type Set map[string]struct{}

// NewSet creates a Set from the given IDs.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s Set) Add(id string) { s[id] = struct{}{} }

// Remove deletes id from the set. Removing an absent id is a no-op.
func (s Set) Remove(id string) { delete(s, id) }

// Len returns the number of completed IDs.
func (s Set) Len() int { return len(s) }

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	return maps.Clone(s)
}

// IDs returns the set members in sorted order.
func (s Set) IDs() []string {
	return slices.Sorted(maps.Keys(s))
}
