package dimensions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inchworm-units/inchworm/internal/pubsub"
)

// === Helper Functions ===

func newLengthRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, reg.TryInsertNewBaseDimension("length", MustBaseDimensionDef("length", "L")))
	return reg
}

func newMechanicsRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	for _, d := range []BaseDimensionDef{
		MustBaseDimensionDef("length", "L"),
		MustBaseDimensionDef("mass", "M"),
		MustBaseDimensionDef("time", "T"),
	} {
		require.NoError(t, reg.TryInsertNewBaseDimension(d.Name(), d))
	}
	return reg
}

func derived(t *testing.T, name, symbol string, parts ...any) DerivedDimensionDef {
	t.Helper()
	var components []DimensionComponent
	for i := 0; i+1 < len(parts); i += 2 {
		components = append(components, mustComponent(t, parts[i].(string), int32(parts[i+1].(int))))
	}
	def, err := NewDerivedDimensionDef(name, symbol, components)
	require.NoError(t, err)
	return def
}

// === Construction ===

func TestNewRegistry_IsEmpty(t *testing.T) {
	reg := NewRegistry()

	require.Equal(t, 0, reg.BaseDimensions().Len())
	require.Equal(t, 0, reg.DerivedDimensions().Len())
	require.Equal(t, uint64(0), reg.Generation())
	require.False(t, reg.BaseDimensions().Contains("length"))
}

// === Insert and replace ===

func TestTryInsertNewBaseDimension_IntoEmptyRegistry(t *testing.T) {
	reg := NewRegistry()

	err := reg.TryInsertNewBaseDimension("length", MustBaseDimensionDef("length", "L"))
	require.NoError(t, err)

	view := reg.BaseDimensions()
	require.Equal(t, 1, view.Len())
	require.True(t, view.Contains("length"))
	def, err := view.Get("length")
	require.NoError(t, err)
	require.Equal(t, "L", def.Symbol())
}

func TestTryInsertNewBaseDimension_DuplicateLeavesRegistryUnchanged(t *testing.T) {
	reg := newLengthRegistry(t)
	before := reg.Generation()

	err := reg.TryInsertNewBaseDimension("length", MustBaseDimensionDef("length", "Len"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrAlreadyDefined))
	require.Contains(t, err.Error(), "already exists")

	var dup *DimensionAlreadyDefinedError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, "length", dup.Name)
	require.Equal(t, KindBase, dup.Kind)

	def, err := reg.BaseDimensions().Get("length")
	require.NoError(t, err)
	require.Equal(t, "L", def.Symbol())
	require.Equal(t, 1, reg.BaseDimensions().Len())
	require.Equal(t, before, reg.Generation())
}

func TestReplaceBaseDimension_ReturnsPriorDefinition(t *testing.T) {
	reg := newLengthRegistry(t)

	prior, replaced := reg.ReplaceBaseDimension("length", MustBaseDimensionDef("length", "Len"))
	require.True(t, replaced)
	require.Equal(t, MustBaseDimensionDef("length", "L"), prior)

	def, err := reg.BaseDimensions().Get("length")
	require.NoError(t, err)
	require.Equal(t, "Len", def.Symbol())
	require.Equal(t, 1, reg.BaseDimensions().Len())
}

func TestReplaceBaseDimension_IntoEmptyRegistry(t *testing.T) {
	reg := NewRegistry()

	prior, replaced := reg.ReplaceBaseDimension("time", MustBaseDimensionDef("time", "T"))
	require.False(t, replaced)
	require.True(t, prior.IsZero())
	require.Equal(t, 1, reg.BaseDimensions().Len())
}

func TestMutators_RejectBlankKeyAndZeroDefinition(t *testing.T) {
	reg := newLengthRegistry(t)
	before := reg.Generation()
	velocity := velocityDef(t)

	for _, key := range []string{"", "  "} {
		err := reg.TryInsertNewBaseDimension(key, MustBaseDimensionDef("mass", "M"))
		require.True(t, errors.Is(err, ErrInvalidDefinition), "base key %q", key)

		err = reg.TryInsertNewDerivedDimension(key, velocity)
		require.True(t, errors.Is(err, ErrInvalidDefinition), "derived key %q", key)

		_, _, err = reg.ReplaceDerivedDimension(key, velocity)
		require.True(t, errors.Is(err, ErrInvalidDefinition), "derived replace key %q", key)

		require.Panics(t, func() { reg.ReplaceBaseDimension(key, MustBaseDimensionDef("mass", "M")) })
	}

	err := reg.TryInsertNewBaseDimension("mass", BaseDimensionDef{})
	require.True(t, errors.Is(err, ErrInvalidDefinition))
	err = reg.TryInsertNewDerivedDimension("speed", DerivedDimensionDef{})
	require.True(t, errors.Is(err, ErrInvalidDefinition))
	_, _, err = reg.ReplaceDerivedDimension("speed", DerivedDimensionDef{})
	require.True(t, errors.Is(err, ErrInvalidDefinition))
	require.Panics(t, func() { reg.ReplaceBaseDimension("mass", BaseDimensionDef{}) })

	require.Equal(t, before, reg.Generation())
	require.Equal(t, []string{"length"}, reg.BaseDimensions().Keys())
	require.Equal(t, 0, reg.DerivedDimensions().Len())
}

// === Views ===

func TestBaseDimensionsView_IsLive(t *testing.T) {
	reg := NewRegistry()
	view := reg.BaseDimensions()
	require.Equal(t, 0, view.Len())

	require.NoError(t, reg.TryInsertNewBaseDimension("mass", MustBaseDimensionDef("mass", "M")))
	require.Equal(t, 1, view.Len())
	require.True(t, view.Contains("mass"))

	reg.ReplaceBaseDimension("mass", MustBaseDimensionDef("mass", "m"))
	require.Equal(t, "m", view.GetOr("mass", BaseDimensionDef{}).Symbol())
}

func TestBaseDimensionsView_GetMissingFails(t *testing.T) {
	view := NewRegistry().BaseDimensions()

	_, err := view.Get("nonexistent")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNotFound))

	var nf *DimensionNotFoundError
	require.True(t, errors.As(err, &nf))
	require.Equal(t, "nonexistent", nf.Name)

	_, ok := view.Lookup("nonexistent")
	require.False(t, ok)
}

func TestBaseDimensionsView_GetOrReturnsFallback(t *testing.T) {
	fallback := MustBaseDimensionDef("fallback", "F")

	require.Equal(t, fallback, NewRegistry().BaseDimensions().GetOr("nonexistent", fallback))
	require.Equal(t, fallback, newLengthRegistry(t).BaseDimensions().GetOr("nonexistent", fallback))
	require.Equal(t, "L", newLengthRegistry(t).BaseDimensions().GetOr("length", fallback).Symbol())
}

func TestBaseDimensionsView_IterationIsInsertionOrder(t *testing.T) {
	reg := NewRegistry()
	names := []string{"time", "length", "mass", "current", "amount"}
	for _, n := range names {
		require.NoError(t, reg.TryInsertNewBaseDimension(n, MustBaseDimensionDef(n, n[:1])))
	}

	view := reg.BaseDimensions()
	require.Equal(t, names, view.Keys())

	values := view.Values()
	require.Len(t, values, len(names))
	for i, v := range values {
		require.Equal(t, names[i], v.Name())
	}

	items := view.Items()
	for i, it := range items {
		require.Equal(t, names[i], it.Key)
		require.Equal(t, names[i], it.Def.Name())
	}

	var iterated []string
	for key, def := range view.All() {
		require.Equal(t, key, def.Name())
		iterated = append(iterated, key)
	}
	require.Equal(t, names, iterated)
}

func TestBaseDimensionsView_ReplaceKeepsPosition(t *testing.T) {
	reg := newMechanicsRegistry(t)

	reg.ReplaceBaseDimension("length", MustBaseDimensionDef("length", "Len"))
	reg.ReplaceBaseDimension("current", MustBaseDimensionDef("current", "I"))

	require.Equal(t, []string{"length", "mass", "time", "current"}, reg.BaseDimensions().Keys())
}

func TestBaseDimensionsView_AllStopsEarly(t *testing.T) {
	reg := newMechanicsRegistry(t)

	var seen []string
	for key := range reg.BaseDimensions().All() {
		seen = append(seen, key)
		if len(seen) == 2 {
			break
		}
	}
	require.Equal(t, []string{"length", "mass"}, seen)
}

func TestBaseDimensionsView_AllAllowsMutationInLoop(t *testing.T) {
	reg := newMechanicsRegistry(t)

	for key, def := range reg.BaseDimensions().All() {
		reg.ReplaceBaseDimension(key, MustBaseDimensionDef(def.Name(), def.Symbol()+"'"))
	}
	require.Equal(t, "L'", reg.BaseDimensions().GetOr("length", BaseDimensionDef{}).Symbol())
}

func TestBaseDimensionsView_KeysAreCopies(t *testing.T) {
	reg := newMechanicsRegistry(t)

	keys := reg.BaseDimensions().Keys()
	keys[0] = "mutated"

	require.Equal(t, "length", reg.BaseDimensions().Keys()[0])
}

func TestBaseDimensionsView_KeyMayDifferFromName(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.TryInsertNewBaseDimension("len", MustBaseDimensionDef("length", "L")))

	def, err := reg.BaseDimensions().Get("len")
	require.NoError(t, err)
	require.Equal(t, "length", def.Name())
	require.False(t, reg.BaseDimensions().Contains("length"))
}

// === Derived dimensions ===

func TestTryInsertNewDerivedDimension(t *testing.T) {
	reg := newMechanicsRegistry(t)

	require.NoError(t, reg.TryInsertNewDerivedDimension("velocity", velocityDef(t)))
	require.Equal(t, 1, reg.DerivedDimensions().Len())

	def, err := reg.DerivedDimensions().Get("velocity")
	require.NoError(t, err)
	require.True(t, def.Equal(velocityDef(t)))
}

func TestTryInsertNewDerivedDimension_UnknownComponent(t *testing.T) {
	reg := newLengthRegistry(t)

	err := reg.TryInsertNewDerivedDimension("velocity", velocityDef(t))
	require.True(t, errors.Is(err, ErrUnknownComponent))

	var unknown *UnknownComponentError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "time", unknown.Component)
	require.Equal(t, 0, reg.DerivedDimensions().Len())
}

func TestTryInsertNewDerivedDimension_NameConflicts(t *testing.T) {
	reg := newMechanicsRegistry(t)
	require.NoError(t, reg.TryInsertNewDerivedDimension("velocity", velocityDef(t)))

	err := reg.TryInsertNewDerivedDimension("velocity", velocityDef(t))
	require.True(t, errors.Is(err, ErrAlreadyDefined))

	err = reg.TryInsertNewDerivedDimension("length", derived(t, "length", "L2", "time", 1))
	var dup *DimensionAlreadyDefinedError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, KindBase, dup.Kind)
}

func TestTryInsertNewBaseDimension_ConflictsWithDerived(t *testing.T) {
	reg := newMechanicsRegistry(t)
	require.NoError(t, reg.TryInsertNewDerivedDimension("velocity", velocityDef(t)))

	err := reg.TryInsertNewBaseDimension("velocity", MustBaseDimensionDef("velocity", "V"))
	var dup *DimensionAlreadyDefinedError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, KindDerived, dup.Kind)
	require.False(t, reg.BaseDimensions().Contains("velocity"))
}

func TestTryInsertNewDerivedDimension_SelfReference(t *testing.T) {
	reg := newMechanicsRegistry(t)

	err := reg.TryInsertNewDerivedDimension("loop", derived(t, "loop", "o", "loop", 1))
	require.True(t, errors.Is(err, ErrCyclicDefinition))
}

func TestReplaceDerivedDimension(t *testing.T) {
	reg := newMechanicsRegistry(t)

	prior, replaced, err := reg.ReplaceDerivedDimension("velocity", velocityDef(t))
	require.NoError(t, err)
	require.False(t, replaced)
	require.Empty(t, prior.Name())

	speed := derived(t, "velocity", "u", "length", 1, "time", -1)
	prior, replaced, err = reg.ReplaceDerivedDimension("velocity", speed)
	require.NoError(t, err)
	require.True(t, replaced)
	require.True(t, prior.Equal(velocityDef(t)))
	require.Equal(t, "u", reg.DerivedDimensions().GetOr("velocity", DerivedDimensionDef{}).Symbol())
}

func TestReplaceDerivedDimension_RejectsBaseName(t *testing.T) {
	reg := newMechanicsRegistry(t)

	_, _, err := reg.ReplaceDerivedDimension("length", derived(t, "length", "L", "time", 1))
	require.True(t, errors.Is(err, ErrAlreadyDefined))
	require.Equal(t, 0, reg.DerivedDimensions().Len())
}

func TestReplaceDerivedDimension_RejectsCycleAndRollsBack(t *testing.T) {
	reg := newMechanicsRegistry(t)
	require.NoError(t, reg.TryInsertNewDerivedDimension("velocity", velocityDef(t)))
	require.NoError(t, reg.TryInsertNewDerivedDimension("acceleration", derived(t, "acceleration", "a", "velocity", 1, "time", -1)))
	gen := reg.Generation()

	_, _, err := reg.ReplaceDerivedDimension("velocity", derived(t, "velocity", "v", "acceleration", 1, "time", 1))
	require.True(t, errors.Is(err, ErrCyclicDefinition))

	var cyc *CyclicDefinitionError
	require.True(t, errors.As(err, &cyc))
	require.Equal(t, []string{"velocity", "acceleration", "velocity"}, cyc.Path)

	def, err := reg.DerivedDimensions().Get("velocity")
	require.NoError(t, err)
	require.True(t, def.Equal(velocityDef(t)))
	require.Equal(t, gen, reg.Generation())
	require.Equal(t, []string{"velocity", "acceleration"}, reg.DerivedDimensions().Keys())
}

func TestReplaceDerivedDimension_FailedFreshInsertLeavesNoKey(t *testing.T) {
	reg := newMechanicsRegistry(t)

	_, _, err := reg.ReplaceDerivedDimension("velocity", derived(t, "velocity", "v", "speed", 1))
	require.True(t, errors.Is(err, ErrUnknownComponent))
	require.False(t, reg.DerivedDimensions().Contains("velocity"))
	require.Empty(t, reg.DerivedDimensions().Keys())
}

// === Resolution ===

func TestResolve(t *testing.T) {
	reg := newMechanicsRegistry(t)
	require.NoError(t, reg.TryInsertNewDerivedDimension("velocity", velocityDef(t)))
	require.NoError(t, reg.TryInsertNewDerivedDimension("acceleration", derived(t, "acceleration", "a", "velocity", 1, "time", -1)))
	require.NoError(t, reg.TryInsertNewDerivedDimension("force", derived(t, "force", "F", "mass", 1, "acceleration", 1)))

	force, err := reg.Resolve("force")
	require.NoError(t, err)
	require.Equal(t, IntExponent(1), force.Exponent("mass"))
	require.Equal(t, IntExponent(1), force.Exponent("length"))
	require.Equal(t, IntExponent(-2), force.Exponent("time"))
	require.Equal(t, "L·M·T^-2", reg.Format(force))

	length, err := reg.Resolve("length")
	require.NoError(t, err)
	require.True(t, length.Equal(BaseDimension("length")))

	_, err = reg.Resolve("charge")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestResolve_CacheInvalidatedOnReplace(t *testing.T) {
	reg := newMechanicsRegistry(t)
	require.NoError(t, reg.TryInsertNewDerivedDimension("velocity", velocityDef(t)))

	before, err := reg.Resolve("velocity")
	require.NoError(t, err)
	require.Equal(t, IntExponent(-1), before.Exponent("time"))

	_, _, err = reg.ReplaceDerivedDimension("velocity", derived(t, "velocity", "v", "length", 1, "time", -2))
	require.NoError(t, err)

	after, err := reg.Resolve("velocity")
	require.NoError(t, err)
	require.Equal(t, IntExponent(-2), after.Exponent("time"))
}

func TestResolve_BaseShadowsDerived(t *testing.T) {
	reg := newMechanicsRegistry(t)
	require.NoError(t, reg.TryInsertNewDerivedDimension("velocity", velocityDef(t)))

	_, replaced := reg.ReplaceBaseDimension("velocity", MustBaseDimensionDef("velocity", "V"))
	require.False(t, replaced)

	d, err := reg.Resolve("velocity")
	require.NoError(t, err)
	require.True(t, d.Equal(BaseDimension("velocity")))
	require.True(t, reg.DerivedDimensions().Contains("velocity"))
}

func TestValidate(t *testing.T) {
	reg := newMechanicsRegistry(t)

	velocity, err := BaseDimension("length").Div(BaseDimension("time"))
	require.NoError(t, err)
	require.NoError(t, reg.Validate(velocity))
	require.NoError(t, reg.Validate(Dimensionless()))

	err = reg.Validate(BaseDimension("charge"))
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestFormat_UnregisteredKeyFallsBackToKey(t *testing.T) {
	reg := newLengthRegistry(t)

	d, err := BaseDimension("length").Div(BaseDimension("charge"))
	require.NoError(t, err)
	require.Equal(t, "charge^-1·L", reg.Format(d))
	require.Equal(t, "1", reg.Format(Dimensionless()))
}

// === Snapshot, generation, renderings ===

func TestSnapshot_IsACopy(t *testing.T) {
	reg := newMechanicsRegistry(t)
	require.NoError(t, reg.TryInsertNewDerivedDimension("velocity", velocityDef(t)))

	snap := reg.Snapshot()
	require.Equal(t, uint64(4), snap.Generation)
	require.Len(t, snap.Base, 3)
	require.Len(t, snap.Derived, 1)

	reg.ReplaceBaseDimension("current", MustBaseDimensionDef("current", "I"))
	require.Len(t, snap.Base, 3)
}

func TestRegistry_Renderings(t *testing.T) {
	reg := newMechanicsRegistry(t)
	require.NoError(t, reg.TryInsertNewBaseDimension("temp", MustBaseDimensionDef("temperature", "Θ")))
	require.NoError(t, reg.TryInsertNewDerivedDimension("velocity", velocityDef(t)))

	require.Equal(t,
		"DimensionRegistry(base: [length (L), mass (M), time (T), temp: temperature (Θ)], derived: [velocity (v)])",
		reg.String())

	debug := fmt.Sprintf("%#v", reg)
	require.Contains(t, debug, `"length": BaseDimensionDef{name: "length", symbol: "L"}`)
	require.Contains(t, debug, `"temp": BaseDimensionDef{name: "temperature", symbol: "Θ"}`)
	require.Contains(t, debug, `"velocity": DerivedDimensionDef{name: "velocity"`)
	require.Contains(t, debug, "generation: 5")
}

func TestRegistry_EmptyRendering(t *testing.T) {
	require.Equal(t, "DimensionRegistry(base: [], derived: [])", NewRegistry().String())
	require.Equal(t, "{}", NewRegistry().BaseDimensions().String())
}

// === Change notifications ===

func TestSubscribe_ReceivesChanges(t *testing.T) {
	reg := NewRegistry()
	defer reg.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := reg.Subscribe(ctx)

	require.NoError(t, reg.TryInsertNewBaseDimension("length", MustBaseDimensionDef("length", "L")))
	reg.ReplaceBaseDimension("length", MustBaseDimensionDef("length", "Len"))
	require.Error(t, reg.TryInsertNewBaseDimension("length", MustBaseDimensionDef("length", "X")))

	want := []struct {
		typ      pubsub.EventType
		replaced bool
		gen      uint64
	}{
		{pubsub.CreatedEvent, false, 1},
		{pubsub.UpdatedEvent, true, 2},
	}
	for _, w := range want {
		select {
		case ev := <-events:
			require.Equal(t, w.typ, ev.Type)
			require.Equal(t, "length", ev.Payload.Name)
			require.Equal(t, KindBase, ev.Payload.Kind)
			require.Equal(t, w.replaced, ev.Payload.Replaced)
			require.Equal(t, w.gen, ev.Payload.Generation)
		case <-time.After(time.Second):
			require.Fail(t, "timeout waiting for change")
		}
	}

	select {
	case ev := <-events:
		require.Failf(t, "unexpected event", "%+v", ev)
	case <-time.After(20 * time.Millisecond):
	}
}

// === Concurrency ===

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	view := reg.BaseDimensions()

	var wg sync.WaitGroup
	var successes sync.Map
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("dim-%d", i%10)
			if reg.TryInsertNewBaseDimension(name, MustBaseDimensionDef(name, "D")) == nil {
				successes.Store(name, true)
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("dim-%d", i%10)
			reg.ReplaceBaseDimension(name, MustBaseDimensionDef(name, fmt.Sprint(i)))
		}(i)
		go func() {
			defer wg.Done()
			_ = view.Len()
			for range view.All() {
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 10, view.Len())
	require.Len(t, view.Keys(), 10)
}
