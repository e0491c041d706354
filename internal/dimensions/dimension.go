package dimensions

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Dimension is a canonical product of base dimensions raised to rational
// powers, keyed by base-dimension registry key. Entries with a zero exponent
// are never stored, so two Dimensions are equal exactly when their maps are.
// The zero value is dimensionless.
type Dimension struct {
	exps map[string]Exponent
}

// Dimensionless returns the dimension with no base factors.
func Dimensionless() Dimension {
	return Dimension{}
}

// BaseDimension returns the dimension consisting of the single base key raised to 1.
func BaseDimension(key string) Dimension {
	return Dimension{exps: map[string]Exponent{key: IntExponent(1)}}
}

// Exponent returns the power of the base key, zero if absent.
func (d Dimension) Exponent(key string) Exponent {
	if e, ok := d.exps[key]; ok {
		return e
	}
	return IntExponent(0)
}

// BaseNames returns the base keys with non-zero exponents in lexical order.
func (d Dimension) BaseNames() []string {
	return slices.Sorted(maps.Keys(d.exps))
}

// IsDimensionless reports whether all exponents are zero.
func (d Dimension) IsDimensionless() bool {
	return len(d.exps) == 0
}

// Mul returns d · o. It fails only when a summed exponent leaves the
// ±MaxExponent range.
func (d Dimension) Mul(o Dimension) (Dimension, error) {
	out := make(map[string]Exponent, len(d.exps)+len(o.exps))
	maps.Copy(out, d.exps)
	for k, e := range o.exps {
		sum, err := out[k].Add(e)
		if err != nil {
			return Dimension{}, fmt.Errorf("%s: %w", k, err)
		}
		if sum.IsZero() {
			delete(out, k)
			continue
		}
		out[k] = sum
	}
	return Dimension{exps: out}, nil
}

// Div returns d / o.
func (d Dimension) Div(o Dimension) (Dimension, error) {
	inv, err := o.Pow(IntExponent(-1))
	if err != nil {
		return Dimension{}, err
	}
	return d.Mul(inv)
}

// Pow returns d raised to p.
func (d Dimension) Pow(p Exponent) (Dimension, error) {
	if p.IsZero() {
		return Dimensionless(), nil
	}
	out := make(map[string]Exponent, len(d.exps))
	for k, e := range d.exps {
		prod, err := e.Mul(p)
		if err != nil {
			return Dimension{}, fmt.Errorf("%s: %w", k, err)
		}
		if prod.IsZero() {
			continue
		}
		out[k] = prod
	}
	return Dimension{exps: out}, nil
}

// Equal reports whether d and o have identical exponents for every base key.
func (d Dimension) Equal(o Dimension) bool {
	return maps.EqualFunc(d.exps, o.exps, Exponent.Equal)
}

// String renders the dimension with base keys in lexical order, e.g.
// "length·time^-1". Dimensionless renders as "1".
func (d Dimension) String() string {
	return d.format(func(key string) string { return key })
}

func (d Dimension) format(label func(string) string) string {
	if d.IsDimensionless() {
		return "1"
	}
	var b strings.Builder
	for i, key := range d.BaseNames() {
		if i > 0 {
			b.WriteString("·")
		}
		b.WriteString(label(key))
		if e := d.exps[key]; !e.Equal(IntExponent(1)) {
			b.WriteString("^")
			b.WriteString(e.String())
		}
	}
	return b.String()
}
