package dimensions

import (
	"maps"
	"slices"
)

// orderedMap keeps values in first-insertion order. Overwriting an existing
// key keeps its position. Callers hold the registry lock.
type orderedMap[T any] struct {
	keys   []string
	values map[string]T
}

func newOrderedMap[T any]() orderedMap[T] {
	return orderedMap[T]{values: make(map[string]T)}
}

func (m *orderedMap[T]) get(key string) (T, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *orderedMap[T]) has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// put stores value under key and returns the previous value, if any.
func (m *orderedMap[T]) put(key string, value T) (T, bool) {
	prior, existed := m.values[key]
	if !existed {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return prior, existed
}

// restore undoes a put that returned (prior, existed).
func (m *orderedMap[T]) restore(key string, prior T, existed bool) {
	if existed {
		m.values[key] = prior
		return
	}
	delete(m.values, key)
	if i := slices.Index(m.keys, key); i >= 0 {
		m.keys = slices.Delete(m.keys, i, i+1)
	}
}

func (m *orderedMap[T]) clone() orderedMap[T] {
	return orderedMap[T]{keys: slices.Clone(m.keys), values: maps.Clone(m.values)}
}

func (m *orderedMap[T]) len() int {
	return len(m.keys)
}

func (m *orderedMap[T]) entries() []Entry[T] {
	out := make([]Entry[T], len(m.keys))
	for i, k := range m.keys {
		out[i] = Entry[T]{Key: k, Def: m.values[k]}
	}
	return out
}

// Entry is one (key, definition) pair of a registry view or snapshot.
type Entry[T any] struct {
	Key string
	Def T
}
