package dimensions

import (
	"fmt"
	"iter"
	"strings"
)

// View is a live, read-only projection over one of a registry's maps.
// Every call observes the registry's state at that moment; nothing is
// cached, so definitions registered after the view was obtained are visible
// through it. Iteration follows registry insertion order.
//
// A View keeps its registry reachable, so it can never observe a registry
// that has been collected.
type View[T any] struct {
	reg  *Registry
	pick func(*Registry) *orderedMap[T]
}

// BaseDimensionsView is the live view over base dimensions.
type BaseDimensionsView = View[BaseDimensionDef]

// DerivedDimensionsView is the live view over derived dimensions.
type DerivedDimensionsView = View[DerivedDimensionDef]

func (v *View[T]) read(fn func(m *orderedMap[T])) {
	v.reg.mu.RLock()
	defer v.reg.mu.RUnlock()
	fn(v.pick(v.reg))
}

// Len returns the number of entries.
func (v *View[T]) Len() int {
	var n int
	v.read(func(m *orderedMap[T]) { n = m.len() })
	return n
}

// Contains reports whether key is present.
func (v *View[T]) Contains(key string) bool {
	var ok bool
	v.read(func(m *orderedMap[T]) { ok = m.has(key) })
	return ok
}

// Get returns the definition under key or a DimensionNotFoundError.
func (v *View[T]) Get(key string) (T, error) {
	def, ok := v.Lookup(key)
	if !ok {
		return def, &DimensionNotFoundError{Name: key}
	}
	return def, nil
}

// Lookup returns the definition under key and whether it was present.
func (v *View[T]) Lookup(key string) (T, bool) {
	var (
		def T
		ok  bool
	)
	v.read(func(m *orderedMap[T]) { def, ok = m.get(key) })
	return def, ok
}

// GetOr returns the definition under key, or fallback when key is absent.
// It never fails.
func (v *View[T]) GetOr(key string, fallback T) T {
	if def, ok := v.Lookup(key); ok {
		return def
	}
	return fallback
}

// Keys returns the keys in insertion order.
func (v *View[T]) Keys() []string {
	var keys []string
	v.read(func(m *orderedMap[T]) { keys = append([]string(nil), m.keys...) })
	return keys
}

// Values returns the definitions in insertion order.
func (v *View[T]) Values() []T {
	items := v.Items()
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.Def
	}
	return out
}

// Items returns (key, definition) pairs in insertion order.
func (v *View[T]) Items() []Entry[T] {
	var items []Entry[T]
	v.read(func(m *orderedMap[T]) { items = m.entries() })
	return items
}

// All iterates over (key, definition) pairs in insertion order. The pairs
// are captured when iteration starts; yield runs without the registry lock
// held, so the loop body may mutate the registry.
func (v *View[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, it := range v.Items() {
			if !yield(it.Key, it.Def) {
				return
			}
		}
	}
}

func (v *View[T]) String() string {
	items := v.Items()
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s: %v", it.Key, it.Def)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
