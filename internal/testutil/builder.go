// Package testutil builds dimension registries for tests.
package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inchworm-units/inchworm/internal/dimensions"
)

// Builder accumulates registry entries and registers them in order.
type Builder struct {
	t       *testing.T
	base    []entryData
	derived []entryData
}

// NewBuilder creates a builder for a fresh registry.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// WithBase adds a base dimension. The name defaults to key and the symbol
// to the key's first letter, upper-cased.
func (b *Builder) WithBase(key string, opts ...EntryOption) *Builder {
	b.base = append(b.base, newEntry(key, opts))
	return b
}

// WithDerived adds a derived dimension. Components are given with the
// Components option.
func (b *Builder) WithDerived(key string, opts ...EntryOption) *Builder {
	b.derived = append(b.derived, newEntry(key, opts))
	return b
}

// Build creates a registry, registers all accumulated entries and closes
// the registry when the test ends.
func (b *Builder) Build() *dimensions.Registry {
	b.t.Helper()
	reg := dimensions.NewRegistry()
	b.t.Cleanup(reg.Close)
	b.BuildInto(reg)
	return reg
}

// BuildInto registers all accumulated entries in reg: base entries first,
// then derived entries, each in the order added.
func (b *Builder) BuildInto(reg *dimensions.Registry) {
	b.t.Helper()
	for _, e := range b.base {
		def, err := dimensions.NewBaseDimensionDef(e.name, e.symbol)
		require.NoError(b.t, err)
		if e.override {
			reg.ReplaceBaseDimension(e.key, def)
			continue
		}
		require.NoError(b.t, reg.TryInsertNewBaseDimension(e.key, def))
	}
	for _, e := range b.derived {
		def := b.derivedDef(e)
		if e.override {
			_, _, err := reg.ReplaceDerivedDimension(e.key, def)
			require.NoError(b.t, err)
			continue
		}
		require.NoError(b.t, reg.TryInsertNewDerivedDimension(e.key, def))
	}
}

func (b *Builder) derivedDef(e entryData) dimensions.DerivedDimensionDef {
	b.t.Helper()
	components := make([]dimensions.DimensionComponent, 0, len(e.components))
	for _, s := range e.components {
		dim, exp, ok := strings.Cut(s, "^")
		if !ok {
			exp = "1"
		}
		exponent, err := dimensions.ParseExponent(exp)
		require.NoError(b.t, err, "component %q", s)
		comp, err := dimensions.NewDimensionComponent(dim, exponent)
		require.NoError(b.t, err, "component %q", s)
		components = append(components, comp)
	}
	def, err := dimensions.NewDerivedDimensionDef(e.name, e.symbol, components)
	require.NoError(b.t, err, "derived %q", e.key)
	return def
}
