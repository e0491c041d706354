// Package dimensions implements the dimension registry and dimension algebra.
//
// A Registry is the single source of truth for which base dimensions exist
// and how derived dimensions are composed from them. Base dimensions are
// added with one of two disciplines:
//
//   - TryInsertNewBaseDimension asserts the name is new and fails otherwise.
//   - ReplaceBaseDimension installs unconditionally and hands back the
//     displaced definition, if any.
//
// There is no delete. Derived dimensions reference other entries by key, so
// removing a base dimension would silently invalidate them.
//
// All methods are safe for concurrent use.
package dimensions

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/inchworm-units/inchworm/internal/cachemanager"
	"github.com/inchworm-units/inchworm/internal/log"
	"github.com/inchworm-units/inchworm/internal/pubsub"
)

// Registry owns the base and derived dimension definitions known to the system.
type Registry struct {
	mu         sync.RWMutex
	base       orderedMap[BaseDimensionDef]
	derived    orderedMap[DerivedDimensionDef]
	generation uint64

	resolved *cachemanager.ReadThroughCache[Dimension]
	broker   *pubsub.Broker[Change]
}

// Option configures a Registry.
type Option func(*Registry)

// WithResolutionCache sets the cache used by Resolve. The cache is flushed
// on every mutation.
func WithResolutionCache(cache cachemanager.CacheManager[Dimension]) Option {
	return func(r *Registry) {
		r.resolved = cachemanager.NewReadThroughCache(cache)
	}
}

// NewRegistry creates an empty registry. Nothing is pre-registered, not even
// length, mass or time.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		base:    newOrderedMap[BaseDimensionDef](),
		derived: newOrderedMap[DerivedDimensionDef](),
		broker:  pubsub.NewBroker[Change](),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.resolved == nil {
		cache := cachemanager.NewInMemoryCacheManager[Dimension]("resolved-dimensions", cachemanager.NoExpiration, cachemanager.DefaultCleanupInterval)
		r.resolved = cachemanager.NewReadThroughCache[Dimension](cache)
	}
	return r
}

// BaseDimensions returns a live read-only view over the base dimensions.
func (r *Registry) BaseDimensions() *BaseDimensionsView {
	return &BaseDimensionsView{reg: r, pick: func(r *Registry) *orderedMap[BaseDimensionDef] { return &r.base }}
}

// DerivedDimensions returns a live read-only view over the derived dimensions.
func (r *Registry) DerivedDimensions() *DerivedDimensionsView {
	return &DerivedDimensionsView{reg: r, pick: func(r *Registry) *orderedMap[DerivedDimensionDef] { return &r.derived }}
}

// TryInsertNewBaseDimension registers def under name only if name is not
// already a base or derived dimension. On conflict it returns a
// DimensionAlreadyDefinedError and leaves the registry unchanged. A blank
// name or a zero def is an InvalidDefinitionError.
func (r *Registry) TryInsertNewBaseDimension(name string, def BaseDimensionDef) error {
	if err := checkEntry(name, def.IsZero()); err != nil {
		return err
	}
	r.mu.Lock()
	if err := r.conflictLocked(name); err != nil {
		r.mu.Unlock()
		log.Debug(log.CatRegistry, "base dimension insert rejected", "name", name, "error", err)
		return err
	}
	r.base.put(name, def)
	change := r.commitLocked(KindBase, name, false)
	r.mu.Unlock()

	log.Debug(log.CatRegistry, "base dimension inserted", "name", name, "symbol", def.Symbol())
	r.broker.Publish(pubsub.CreatedEvent, change)
	return nil
}

// ReplaceBaseDimension installs def under name whether or not name exists.
// It returns the displaced definition and true, or the zero value and false
// when this was a fresh insertion. It never fails on a valid entry; a blank
// name or a zero def is a programming error and panics.
//
// If name is currently a derived dimension, the base definition takes
// precedence in Resolve from now on.
func (r *Registry) ReplaceBaseDimension(name string, def BaseDimensionDef) (BaseDimensionDef, bool) {
	if err := checkEntry(name, def.IsZero()); err != nil {
		panic(err)
	}
	r.mu.Lock()
	prior, replaced := r.base.put(name, def)
	shadowed := r.derived.has(name)
	change := r.commitLocked(KindBase, name, replaced)
	r.mu.Unlock()

	if shadowed {
		log.Warn(log.CatRegistry, "base dimension shadows derived dimension", "name", name)
	}
	log.Debug(log.CatRegistry, "base dimension replaced", "name", name, "symbol", def.Symbol(), "replaced", replaced)

	eventType := pubsub.CreatedEvent
	if replaced {
		eventType = pubsub.UpdatedEvent
	}
	r.broker.Publish(eventType, change)
	return prior, replaced
}

// TryInsertNewDerivedDimension registers def under name only if name is not
// already registered and every component references a registered dimension.
func (r *Registry) TryInsertNewDerivedDimension(name string, def DerivedDimensionDef) error {
	if err := checkEntry(name, def.IsZero()); err != nil {
		return err
	}
	r.mu.Lock()
	if err := r.conflictLocked(name); err != nil {
		r.mu.Unlock()
		return err
	}
	if err := r.checkComponentsLocked(name, def); err != nil {
		r.mu.Unlock()
		return err
	}
	r.derived.put(name, def)
	change := r.commitLocked(KindDerived, name, false)
	r.mu.Unlock()

	log.Debug(log.CatRegistry, "derived dimension inserted", "name", name, "symbol", def.Symbol())
	r.broker.Publish(pubsub.CreatedEvent, change)
	return nil
}

// ReplaceDerivedDimension installs def under name whether or not name exists
// as a derived dimension and returns the displaced definition, if any.
//
// Unlike ReplaceBaseDimension it can fail: when name is a base dimension,
// when a component is unknown, or when the new definition would make name
// depend on itself. On failure the registry is unchanged.
func (r *Registry) ReplaceDerivedDimension(name string, def DerivedDimensionDef) (DerivedDimensionDef, bool, error) {
	if err := checkEntry(name, def.IsZero()); err != nil {
		return DerivedDimensionDef{}, false, err
	}
	r.mu.Lock()
	if r.base.has(name) {
		r.mu.Unlock()
		return DerivedDimensionDef{}, false, &DimensionAlreadyDefinedError{Name: name, Kind: KindBase}
	}
	if err := r.checkComponentsLocked(name, def); err != nil {
		r.mu.Unlock()
		return DerivedDimensionDef{}, false, err
	}

	prior, replaced := r.derived.put(name, def)
	if _, err := r.resolveLocked(name, nil); err != nil {
		r.derived.restore(name, prior, replaced)
		r.mu.Unlock()
		log.Debug(log.CatRegistry, "derived dimension replace rejected", "name", name, "error", err)
		return DerivedDimensionDef{}, false, err
	}
	change := r.commitLocked(KindDerived, name, replaced)
	r.mu.Unlock()

	log.Debug(log.CatRegistry, "derived dimension replaced", "name", name, "replaced", replaced)
	eventType := pubsub.CreatedEvent
	if replaced {
		eventType = pubsub.UpdatedEvent
	}
	r.broker.Publish(eventType, change)
	return prior, replaced, nil
}

func checkEntry(name string, zeroDef bool) error {
	if strings.TrimSpace(name) == "" {
		return &InvalidDefinitionError{Reason: "registry key cannot be blank"}
	}
	if zeroDef {
		return &InvalidDefinitionError{Reason: fmt.Sprintf("%q: definition is the zero value", name)}
	}
	return nil
}

// conflictLocked reports whether name is already registered in either map.
func (r *Registry) conflictLocked(name string) error {
	if r.base.has(name) {
		return &DimensionAlreadyDefinedError{Name: name, Kind: KindBase}
	}
	if r.derived.has(name) {
		return &DimensionAlreadyDefinedError{Name: name, Kind: KindDerived}
	}
	return nil
}

// checkComponentsLocked verifies every component of def names a registered
// dimension. A component naming the definition itself is a cycle.
func (r *Registry) checkComponentsLocked(name string, def DerivedDimensionDef) error {
	for _, c := range def.components {
		if c.dimension == name && !r.base.has(name) {
			return &CyclicDefinitionError{Path: []string{name, name}}
		}
		if !r.base.has(c.dimension) && !r.derived.has(c.dimension) {
			return &UnknownComponentError{Dimension: name, Component: c.dimension}
		}
	}
	return nil
}

// commitLocked bumps the generation and drops cached resolutions.
func (r *Registry) commitLocked(kind Kind, name string, replaced bool) Change {
	r.generation++
	r.resolved.Invalidate()
	return Change{Kind: kind, Name: name, Replaced: replaced, Generation: r.generation}
}

// Resolve expands name into base-dimension exponents. Base names resolve to
// themselves; derived names multiply out their components recursively.
func (r *Registry) Resolve(name string) (Dimension, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.resolved.Get(name, func() (Dimension, error) {
		return r.resolveLocked(name, nil)
	})
}

func (r *Registry) resolveLocked(name string, path []string) (Dimension, error) {
	if r.base.has(name) {
		return BaseDimension(name), nil
	}
	def, ok := r.derived.get(name)
	if !ok {
		return Dimension{}, &DimensionNotFoundError{Name: name}
	}
	if slices.Contains(path, name) {
		return Dimension{}, &CyclicDefinitionError{Path: append(slices.Clone(path), name)}
	}
	path = append(path, name)

	out := Dimensionless()
	for _, c := range def.components {
		sub, err := r.resolveLocked(c.dimension, path)
		if err != nil {
			return Dimension{}, err
		}
		if sub, err = sub.Pow(c.exponent); err == nil {
			out, err = out.Mul(sub)
		}
		if err != nil {
			return Dimension{}, fmt.Errorf("resolving %q: %w", name, err)
		}
	}
	return out, nil
}

// Validate checks that every base key referenced by d is registered.
func (r *Registry) Validate(d Dimension) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, key := range d.BaseNames() {
		if !r.base.has(key) {
			return &DimensionNotFoundError{Name: key}
		}
	}
	return nil
}

// Format renders d using registered base symbols, e.g. "L·T^-2".
// Keys that are not registered render as their key.
func (r *Registry) Format(d Dimension) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return d.format(func(key string) string {
		if def, ok := r.base.get(key); ok {
			return def.Symbol()
		}
		return key
	})
}

// Generation returns a counter incremented by every successful mutation.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// Snapshot copies the registry's current contents.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Snapshot{
		Generation: r.generation,
		Base:       r.base.entries(),
		Derived:    r.derived.entries(),
	}
}

// Subscribe streams a Change for every successful mutation until ctx is
// cancelled or the registry is closed. Slow subscribers miss events.
func (r *Registry) Subscribe(ctx context.Context) <-chan pubsub.Event[Change] {
	return r.broker.Subscribe(ctx)
}

// Close ends every subscription. The registry stays usable.
func (r *Registry) Close() {
	r.broker.Close()
}

// String renders every dimension's key, name and symbol.
func (r *Registry) String() string {
	snap := r.Snapshot()
	var b strings.Builder
	b.WriteString("DimensionRegistry(base: [")
	for i, e := range snap.Base {
		if i > 0 {
			b.WriteString(", ")
		}
		if e.Key == e.Def.Name() {
			b.WriteString(e.Def.String())
		} else {
			fmt.Fprintf(&b, "%s: %s", e.Key, e.Def)
		}
	}
	b.WriteString("], derived: [")
	for i, e := range snap.Derived {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s (%s)", e.Key, e.Def.Symbol())
	}
	b.WriteString("])")
	return b.String()
}

// GoString renders the debug form used by %#v.
func (r *Registry) GoString() string {
	snap := r.Snapshot()
	var b strings.Builder
	b.WriteString("DimensionRegistry{base: {")
	for i, e := range snap.Base {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %#v", e.Key, e.Def)
	}
	b.WriteString("}, derived: {")
	for i, e := range snap.Derived {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %#v", e.Key, e.Def)
	}
	fmt.Fprintf(&b, "}, generation: %d}", snap.Generation)
	return b.String()
}
