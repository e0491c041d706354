package dimensions

import (
	"fmt"

	"github.com/inchworm-units/inchworm/internal/cachemanager"
	"github.com/inchworm-units/inchworm/internal/log"
	"github.com/inchworm-units/inchworm/internal/pubsub"
)

// Snapshot is an ordered copy of a registry's contents at one generation.
type Snapshot struct {
	Generation uint64
	Base       []Entry[BaseDimensionDef]
	Derived    []Entry[DerivedDimensionDef]
}

// Len returns the number of base and derived entries.
func (s Snapshot) Len() int {
	return len(s.Base) + len(s.Derived)
}

// DerivedInDependencyOrder returns the derived entries reordered so that
// every entry follows the derived entries its components reference.
// Entries without such dependencies keep their relative order.
func (s Snapshot) DerivedInDependencyOrder() []Entry[DerivedDimensionDef] {
	base := make(map[string]bool, len(s.Base))
	for _, e := range s.Base {
		base[e.Key] = true
	}
	byKey := make(map[string]Entry[DerivedDimensionDef], len(s.Derived))
	for _, e := range s.Derived {
		byKey[e.Key] = e
	}

	ordered := make([]Entry[DerivedDimensionDef], 0, len(s.Derived))
	state := make(map[string]int, len(s.Derived)) // 1 visiting, 2 done
	var visit func(e Entry[DerivedDimensionDef])
	visit = func(e Entry[DerivedDimensionDef]) {
		if state[e.Key] != 0 {
			return
		}
		state[e.Key] = 1
		for _, c := range e.Def.components {
			if base[c.dimension] {
				continue
			}
			if dep, ok := byKey[c.dimension]; ok {
				visit(dep)
			}
		}
		state[e.Key] = 2
		ordered = append(ordered, e)
	}
	for _, e := range s.Derived {
		visit(e)
	}
	return ordered
}

// Restore installs every entry of s into r with the replace discipline.
// Existing entries not named in s are left alone. Base entries that shadow
// a derived entry of the same key are installed last, after the derived
// entry, so the restored registry shadows it the same way.
//
// Restore is all or nothing: the entries are staged on a copy under the
// write lock and swapped in only if every one applies. On error r is
// unchanged. A key that is a base dimension in r cannot become a derived
// one, since there is no delete.
func (r *Registry) Restore(s Snapshot) (int, error) {
	r.mu.Lock()
	staged := NewRegistry(WithResolutionCache(cachemanager.NoopCacheManager[Dimension]{}))
	staged.base = r.base.clone()
	staged.derived = r.derived.clone()

	changes, err := staged.install(s)
	if err != nil {
		r.mu.Unlock()
		log.Debug(log.CatRegistry, "restore rejected", "entries", s.Len(), "error", err)
		return 0, err
	}
	r.base, r.derived = staged.base, staged.derived
	for i := range changes {
		r.generation++
		changes[i].Generation = r.generation
	}
	if len(changes) > 0 {
		r.resolved.Invalidate()
	}
	r.mu.Unlock()

	for _, c := range changes {
		eventType := pubsub.CreatedEvent
		if c.Replaced {
			eventType = pubsub.UpdatedEvent
		}
		r.broker.Publish(eventType, c)
	}
	return len(changes), nil
}

// install applies s to a registry nobody else can see yet.
func (r *Registry) install(s Snapshot) ([]Change, error) {
	derivedKeys := make(map[string]bool, len(s.Derived))
	for _, e := range s.Derived {
		derivedKeys[e.Key] = true
	}

	var (
		shadowing []Entry[BaseDimensionDef]
		changes   []Change
	)
	replaceBase := func(e Entry[BaseDimensionDef]) error {
		if err := checkEntry(e.Key, e.Def.IsZero()); err != nil {
			return fmt.Errorf("restore base %q: %w", e.Key, err)
		}
		_, replaced := r.ReplaceBaseDimension(e.Key, e.Def)
		changes = append(changes, Change{Kind: KindBase, Name: e.Key, Replaced: replaced})
		return nil
	}
	for _, e := range s.Base {
		if derivedKeys[e.Key] {
			shadowing = append(shadowing, e)
			continue
		}
		if err := replaceBase(e); err != nil {
			return nil, err
		}
	}
	for _, e := range s.DerivedInDependencyOrder() {
		_, replaced, err := r.ReplaceDerivedDimension(e.Key, e.Def)
		if err != nil {
			return nil, fmt.Errorf("restore derived %q: %w", e.Key, err)
		}
		changes = append(changes, Change{Kind: KindDerived, Name: e.Key, Replaced: replaced})
	}
	for _, e := range shadowing {
		if err := replaceBase(e); err != nil {
			return nil, err
		}
	}
	return changes, nil
}
