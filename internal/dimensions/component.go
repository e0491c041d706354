package dimensions

import (
	"fmt"
	"strings"
)

// DimensionComponent is one factor of a derived dimension: a registered
// dimension (base or derived) raised to a rational exponent. Velocity is
// length^1 · time^-1.
type DimensionComponent struct {
	dimension string
	exponent  Exponent
}

// NewDimensionComponent creates a component referencing dimension by its registry key.
func NewDimensionComponent(dimension string, exponent Exponent) (DimensionComponent, error) {
	if strings.TrimSpace(dimension) == "" {
		return DimensionComponent{}, &InvalidDefinitionError{Reason: "component dimension cannot be empty"}
	}
	if exponent.IsZero() {
		return DimensionComponent{}, &InvalidDefinitionError{Reason: fmt.Sprintf("component (%s) exponent cannot be zero", dimension)}
	}
	return DimensionComponent{dimension: dimension, exponent: exponent}, nil
}

// Dimension returns the registry key of the referenced dimension.
func (c DimensionComponent) Dimension() string { return c.dimension }

// Exponent returns the power the referenced dimension is raised to.
func (c DimensionComponent) Exponent() Exponent { return c.exponent }

func (c DimensionComponent) String() string {
	return fmt.Sprintf("%s^%s", c.dimension, c.exponent)
}
