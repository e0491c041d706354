// Package flags holds opt-in behaviors switched on from the config file's
// flags section. Unknown names read as disabled.
package flags

import (
	"maps"
	"slices"

	"github.com/inchworm-units/inchworm/internal/log"
)

const (
	// SnapshotOnReload makes `inchworm watch` save a snapshot after every
	// reload that changed the registry.
	SnapshotOnReload = "snapshot-on-reload"

	// NoResolutionCache disables the registry's resolution cache.
	NoResolutionCache = "no-resolution-cache"
)

// Known lists every flag this build understands.
var Known = []string{SnapshotOnReload, NoResolutionCache}

// Set is an immutable set of flag values.
type Set struct {
	values map[string]bool
}

// New copies values into a Set. Names not in Known are logged and kept;
// Enabled still answers for them.
func New(values map[string]bool) *Set {
	s := &Set{values: maps.Clone(values)}
	if s.values == nil {
		s.values = map[string]bool{}
	}
	if unknown := s.Unknown(); len(unknown) > 0 {
		log.Warn(log.CatConfig, "unknown feature flags in config", "flags", unknown)
	}
	return s
}

// Enabled reports whether name is switched on. A nil Set has every flag off.
func (s *Set) Enabled(name string) bool {
	if s == nil {
		return false
	}
	return s.values[name]
}

// Unknown returns the configured names not in Known, sorted.
func (s *Set) Unknown() []string {
	if s == nil {
		return nil
	}
	var unknown []string
	for name := range s.values {
		if !slices.Contains(Known, name) {
			unknown = append(unknown, name)
		}
	}
	slices.Sort(unknown)
	return unknown
}

// All returns a copy of the configured values.
func (s *Set) All() map[string]bool {
	if s == nil {
		return map[string]bool{}
	}
	return maps.Clone(s.values)
}
