package dimensions

import (
	"fmt"
	"strings"
)

// BaseDimensionDef defines an independent physical dimension such as length,
// mass or time. Values are immutable; replacing a base dimension in a
// registry always installs a new BaseDimensionDef.
type BaseDimensionDef struct {
	name   string // e.g. "length"
	symbol string // e.g. "L"
}

// NewBaseDimensionDef creates a base dimension definition.
// Blank names and symbols are rejected with an InvalidDefinitionError.
func NewBaseDimensionDef(name, symbol string) (BaseDimensionDef, error) {
	if strings.TrimSpace(name) == "" {
		return BaseDimensionDef{}, &InvalidDefinitionError{Reason: "base dimension name cannot be empty"}
	}
	if strings.TrimSpace(symbol) == "" {
		return BaseDimensionDef{}, &InvalidDefinitionError{Reason: fmt.Sprintf("base dimension (%s) symbol cannot be empty", name)}
	}
	return BaseDimensionDef{name: name, symbol: symbol}, nil
}

// MustBaseDimensionDef is like NewBaseDimensionDef but panics on error.
// Intended for package-level tables of known-good definitions.
func MustBaseDimensionDef(name, symbol string) BaseDimensionDef {
	def, err := NewBaseDimensionDef(name, symbol)
	if err != nil {
		panic(err)
	}
	return def
}

// Name returns the name of the base dimension.
func (d BaseDimensionDef) Name() string { return d.name }

// Symbol returns the display symbol of the base dimension.
func (d BaseDimensionDef) Symbol() string { return d.symbol }

// IsZero reports whether d is the zero value rather than a constructed definition.
func (d BaseDimensionDef) IsZero() bool { return d.name == "" && d.symbol == "" }

// String renders "length (L)".
func (d BaseDimensionDef) String() string {
	return fmt.Sprintf("%s (%s)", d.name, d.symbol)
}

// GoString renders the debug form used by %#v.
func (d BaseDimensionDef) GoString() string {
	return fmt.Sprintf("BaseDimensionDef{name: %q, symbol: %q}", d.name, d.symbol)
}
