package dimensions

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks. The concrete error types below
// carry the offending names.
var (
	ErrInvalidDefinition = errors.New("invalid dimension definition")
	ErrAlreadyDefined    = errors.New("dimension already defined")
	ErrNotFound          = errors.New("dimension not found")
	ErrUnknownComponent  = errors.New("unknown component dimension")
	ErrCyclicDefinition  = errors.New("cyclic dimension definition")
	ErrExponentOverflow  = errors.New("exponent out of range")
)

// InvalidDefinitionError is returned when a definition fails construction-time validation.
type InvalidDefinitionError struct {
	Reason string
}

func (e *InvalidDefinitionError) Error() string {
	return fmt.Sprintf("invalid dimension definition: %s", e.Reason)
}

// Is reports whether target is ErrInvalidDefinition.
func (e *InvalidDefinitionError) Is(target error) bool {
	return target == ErrInvalidDefinition
}

// DimensionAlreadyDefinedError is returned by the insert-or-fail operations
// when the name is already present. The registry is left unchanged.
type DimensionAlreadyDefinedError struct {
	Name string
	Kind Kind
}

func (e *DimensionAlreadyDefinedError) Error() string {
	return fmt.Sprintf("cannot register dimension: a %s dimension %q already exists in the registry", e.Kind, e.Name)
}

// Is reports whether target is ErrAlreadyDefined.
func (e *DimensionAlreadyDefinedError) Is(target error) bool {
	return target == ErrAlreadyDefined
}

// DimensionNotFoundError is returned by keyed lookups for an absent name.
type DimensionNotFoundError struct {
	Name string
}

func (e *DimensionNotFoundError) Error() string {
	return fmt.Sprintf("dimension %q not found", e.Name)
}

// Is reports whether target is ErrNotFound.
func (e *DimensionNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// UnknownComponentError is returned when a derived definition references a
// name that is not registered.
type UnknownComponentError struct {
	Dimension string
	Component string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("derived dimension %q references unknown dimension %q", e.Dimension, e.Component)
}

// Is reports whether target is ErrUnknownComponent.
func (e *UnknownComponentError) Is(target error) bool {
	return target == ErrUnknownComponent
}

// CyclicDefinitionError is returned when replacing a derived dimension would
// make it depend on itself.
type CyclicDefinitionError struct {
	Path []string
}

func (e *CyclicDefinitionError) Error() string {
	return fmt.Sprintf("cyclic dimension definition: %v", e.Path)
}

// Is reports whether target is ErrCyclicDefinition.
func (e *CyclicDefinitionError) Is(target error) bool {
	return target == ErrCyclicDefinition
}

// ExponentOverflowError is returned when an exponent, given or computed,
// has a term outside ±MaxExponent.
type ExponentOverflowError struct {
	Op string
}

func (e *ExponentOverflowError) Error() string {
	return fmt.Sprintf("exponent out of range: %s", e.Op)
}

// Is reports whether target is ErrExponentOverflow.
func (e *ExponentOverflowError) Is(target error) bool {
	return target == ErrExponentOverflow
}
