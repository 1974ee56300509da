// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package xpsequence

import (
	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/names"
	"github.com/mdhenderson/xpath/internal/xperror"
)

// mapEntry is one key/value pair in a Map's insertion-ordered backing
// store.
type mapEntry struct {
	key   atomic.Value
	value Sequence
}

// Map is an ordered atomic-key-to-sequence mapping (spec.md §3): insertion
// order is preserved for map:for-each and serialization, and keys
// deduplicate by a canonical-value equivalence (untypedAtomic compares as
// its string form, numeric subtypes compare as numerics) rather than by
// Kind+bit-pattern identity. A Map is itself a Function of arity 1: XPath
// 3.1 invokes a map directly as `$m(key)` to look up a value, returning
// the empty sequence for an absent key rather than an error.
type Map struct {
	entries []mapEntry
}

func NewMap() *Map { return &Map{} }

// canonicalEqual implements the key-equivalence rule: two atomics are the
// same map key iff atomic.Compare under 'eq' succeeds and reports true,
// which already folds untypedAtomic into string comparison and promotes
// across the numeric lattice via TargetType.
func canonicalEqual(a, b atomic.Value) bool {
	eq, err := atomic.Compare(a, b, atomic.OpEq, nil, 0)
	return err == nil && eq
}

func (m *Map) indexOf(key atomic.Value) int {
	for i, e := range m.entries {
		if canonicalEqual(e.key, key) {
			return i
		}
	}
	return -1
}

// Put inserts or replaces the value for key, preserving the original
// insertion position on replacement (per the backing map:put semantics:
// a new Map is normally returned, but this mutable builder is used while
// constructing a literal map expression, before it is handed out as an
// immutable Item).
func (m *Map) Put(key atomic.Value, value Sequence) {
	if i := m.indexOf(key); i >= 0 {
		m.entries[i].value = value
		return
	}
	m.entries = append(m.entries, mapEntry{key: key, value: value})
}

// Get returns the value bound to key, or (zero, false) if absent.
func (m *Map) Get(key atomic.Value) (Sequence, bool) {
	if i := m.indexOf(key); i >= 0 {
		return m.entries[i].value, true
	}
	return Sequence{}, false
}

// Remove returns a new Map with key's entry removed (maps are logically
// immutable once constructed; map:remove builds a copy).
func (m *Map) Remove(key atomic.Value) *Map {
	out := &Map{entries: make([]mapEntry, 0, len(m.entries))}
	for _, e := range m.entries {
		if !canonicalEqual(e.key, key) {
			out.entries = append(out.entries, e)
		}
	}
	return out
}

func (m *Map) Size() int { return len(m.entries) }

// Keys returns the map's keys in insertion order.
func (m *Map) Keys() []atomic.Value {
	out := make([]atomic.Value, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.key
	}
	return out
}

// ForEach calls fn with each key/value pair in insertion order, stopping
// early if fn returns false.
func (m *Map) ForEach(fn func(key atomic.Value, value Sequence) bool) {
	for _, e := range m.entries {
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Merge combines m with other, with other's value winning on key
// collision; a colliding key keeps its position in m, and other's new keys
// follow m's keys in other's relative order (the "use-first"/duplicates policy is a map:merge
// option the function library layers on top of this primitive).
func (m *Map) Merge(other *Map) *Map {
	out := &Map{entries: append([]mapEntry(nil), m.entries...)}
	for _, e := range other.entries {
		out.Put(e.key, e.value)
	}
	return out
}

func (m *Map) Arity() int       { return 1 }
func (m *Map) Name() names.Name { return names.Name{} }

func (m *Map) Call(args []Sequence) (Sequence, *xperror.Error) {
	if len(args) != 1 {
		return Sequence{}, xperror.New(xperror.XPTY0004, "map lookup expects 1 argument, got %d", len(args))
	}
	it, ok := args[0].Singleton()
	if !ok || !it.IsAtomic() {
		return Sequence{}, xperror.New(xperror.XPTY0004, "map key must be a single atomic value")
	}
	if v, ok := m.Get(it.Atomic()); ok {
		return v, nil
	}
	return Empty(), nil
}
