package dimexpr

import (
	"fmt"

	"github.com/inchworm-units/inchworm/internal/dimensions"
)

// Eval resolves every name in e against reg and combines the results.
// Names are checked up front, so an expression with several unknown names
// reports all of them.
func Eval(reg *dimensions.Registry, e Expr) (dimensions.Dimension, error) {
	if err := Check(reg, e); err != nil {
		return dimensions.Dimension{}, err
	}
	return eval(reg, e)
}

// EvalString parses input and evaluates it.
func EvalString(reg *dimensions.Registry, input string) (dimensions.Dimension, error) {
	e, err := Parse(input)
	if err != nil {
		return dimensions.Dimension{}, err
	}
	return Eval(reg, e)
}

func eval(reg *dimensions.Registry, e Expr) (dimensions.Dimension, error) {
	switch e := e.(type) {
	case *NameExpr:
		return reg.Resolve(e.Name)
	case *OneExpr:
		return dimensions.Dimensionless(), nil
	case *PowExpr:
		base, err := eval(reg, e.Base)
		if err != nil {
			return base, err
		}
		return base.Pow(e.Exponent)
	case *BinaryExpr:
		left, err := eval(reg, e.Left)
		if err != nil {
			return left, err
		}
		right, err := eval(reg, e.Right)
		if err != nil {
			return right, err
		}
		if e.Op == TokenDiv {
			return left.Div(right)
		}
		return left.Mul(right)
	default:
		return dimensions.Dimension{}, fmt.Errorf("unsupported expression %T", e)
	}
}

// Identify returns the registry keys whose resolution equals d: base keys
// first, then derived keys, each in registry order. A derived key shadowed
// by a base key of the same name is not repeated.
func Identify(reg *dimensions.Registry, d dimensions.Dimension) []string {
	var matches []string
	for _, key := range reg.BaseDimensions().Keys() {
		if d.Equal(dimensions.BaseDimension(key)) {
			matches = append(matches, key)
		}
	}
	base := reg.BaseDimensions()
	for _, key := range reg.DerivedDimensions().Keys() {
		if base.Contains(key) {
			continue
		}
		resolved, err := reg.Resolve(key)
		if err == nil && d.Equal(resolved) {
			matches = append(matches, key)
		}
	}
	return matches
}
