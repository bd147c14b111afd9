package taxonomy

import (
	"maps"
	"slices"
)

// Set is a set of entity ids. Sets are values; operations return new sets
// and never modify their receiver.
type Set map[string]struct{}

// NewSet builds a set from ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Len returns the cardinality of s.
func (s Set) Len() int { return len(s) }

// Contains reports whether id is a member of s.
func (s Set) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// SubsetOf reports whether every member of s is also in other.
// The empty set is a subset of everything.
func (s Set) SubsetOf(other Set) bool {
	if len(s) > len(other) {
		return false
	}
	for id := range s {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

// Minus returns s with the members of other removed.
func (s Set) Minus(other Set) Set {
	out := make(Set, len(s))
	for id := range s {
		if !other.Contains(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Clone returns a copy of s.
func (s Set) Clone() Set { return maps.Clone(s) }

// Sorted returns the members of s in ascending order.
func (s Set) Sorted() []string { return slices.Sorted(maps.Keys(s)) }
