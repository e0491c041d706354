package dimensions

import (
	"fmt"
	"slices"
	"strings"
)

// DerivedDimensionDef defines a dimension formed as a product of powers of
// other registered dimensions, e.g. velocity = length · time^-1.
type DerivedDimensionDef struct {
	name       string
	symbol     string
	components []DimensionComponent
}

// NewDerivedDimensionDef creates a derived dimension definition.
// It rejects a blank name, a blank symbol and an empty component list.
func NewDerivedDimensionDef(name, symbol string, components []DimensionComponent) (DerivedDimensionDef, error) {
	if strings.TrimSpace(name) == "" {
		return DerivedDimensionDef{}, &InvalidDefinitionError{Reason: "derived dimension name cannot be empty"}
	}
	if strings.TrimSpace(symbol) == "" {
		return DerivedDimensionDef{}, &InvalidDefinitionError{Reason: fmt.Sprintf("derived dimension (%s) symbol cannot be empty", name)}
	}
	if len(components) == 0 {
		return DerivedDimensionDef{}, &InvalidDefinitionError{Reason: fmt.Sprintf("derived dimension (%s) must have at least one component", name)}
	}
	for _, c := range components {
		if c.dimension == "" || c.exponent.IsZero() {
			return DerivedDimensionDef{}, &InvalidDefinitionError{Reason: fmt.Sprintf("derived dimension (%s) has invalid components", name)}
		}
	}
	return DerivedDimensionDef{
		name:       name,
		symbol:     symbol,
		components: slices.Clone(components),
	}, nil
}

// Name returns the name of the derived dimension.
func (d DerivedDimensionDef) Name() string { return d.name }

// Symbol returns the display symbol of the derived dimension.
func (d DerivedDimensionDef) Symbol() string { return d.symbol }

// IsZero reports whether d is the zero value rather than a constructed definition.
func (d DerivedDimensionDef) IsZero() bool { return d.name == "" && len(d.components) == 0 }

// Components returns a copy of the components.
func (d DerivedDimensionDef) Components() []DimensionComponent {
	return slices.Clone(d.components)
}

// Equal reports whether d and o have the same name, symbol and components.
func (d DerivedDimensionDef) Equal(o DerivedDimensionDef) bool {
	return d.name == o.name && d.symbol == o.symbol && slices.Equal(d.components, o.components)
}

// String renders "velocity (v) = length^1 · time^-1".
func (d DerivedDimensionDef) String() string {
	parts := make([]string, len(d.components))
	for i, c := range d.components {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s (%s) = %s", d.name, d.symbol, strings.Join(parts, " · "))
}

// GoString renders the debug form used by %#v.
func (d DerivedDimensionDef) GoString() string {
	parts := make([]string, len(d.components))
	for i, c := range d.components {
		parts[i] = fmt.Sprintf("{%q, %s}", c.dimension, c.exponent)
	}
	return fmt.Sprintf("DerivedDimensionDef{name: %q, symbol: %q, components: [%s]}", d.name, d.symbol, strings.Join(parts, ", "))
}
