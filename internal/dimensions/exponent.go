package dimensions

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxExponent bounds the magnitude of an exponent's numerator and
// denominator. Products of two in-range terms fit in an int64, so Add and
// Mul compute exactly and then check the normalized result.
const MaxExponent = math.MaxInt32

// Exponent is a rational power num/den kept in lowest terms with den > 0
// and both terms within ±MaxExponent.
// The zero value is 0/1 once normalized; use NewExponent to build one.
type Exponent struct {
	num int64
	den int64
}

// NewExponent returns num/den in lowest terms. It returns an error when den
// is zero or either term is outside ±MaxExponent.
func NewExponent(num, den int64) (Exponent, error) {
	if den == 0 {
		return Exponent{}, &InvalidDefinitionError{Reason: "exponent denominator cannot be zero"}
	}
	if !inRange(num) || !inRange(den) {
		return Exponent{}, &ExponentOverflowError{Op: fmt.Sprintf("%d/%d", num, den)}
	}
	return normalize(num, den), nil
}

// IntExponent returns the integer exponent n.
func IntExponent(n int32) Exponent {
	if n == math.MinInt32 {
		panic(&ExponentOverflowError{Op: strconv.Itoa(int(n))})
	}
	return Exponent{num: int64(n), den: 1}
}

// ParseExponent parses "2", "-1" or "3/2".
func ParseExponent(s string) (Exponent, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Exponent{}, &InvalidDefinitionError{Reason: "exponent cannot be empty"}
	}
	numStr, denStr, hasDen := strings.Cut(s, "/")
	num, err := parseTerm(s, numStr)
	if err != nil {
		return Exponent{}, err
	}
	den := int64(1)
	if hasDen {
		if den, err = parseTerm(s, denStr); err != nil {
			return Exponent{}, err
		}
	}
	return NewExponent(num, den)
}

func parseTerm(exponent, term string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(term), 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return 0, &ExponentOverflowError{Op: exponent}
	}
	if err != nil {
		return 0, &InvalidDefinitionError{Reason: fmt.Sprintf("invalid exponent %q", exponent)}
	}
	return n, nil
}

func inRange(n int64) bool {
	return n >= -MaxExponent && n <= MaxExponent
}

// normalize expects |num| and |den| below 2^63.
func normalize(num, den int64) Exponent {
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return Exponent{num: 0, den: 1}
	}
	g := gcd(abs(num), den)
	return Exponent{num: num / g, den: den / g}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// Num returns the numerator.
func (e Exponent) Num() int64 { return e.num }

// Den returns the denominator, 1 for the zero value.
func (e Exponent) Den() int64 {
	if e.den == 0 {
		return 1
	}
	return e.den
}

// IsZero reports whether the exponent is 0.
func (e Exponent) IsZero() bool { return e.num == 0 }

// IsInteger reports whether the exponent has denominator 1.
func (e Exponent) IsInteger() bool { return e.Den() == 1 }

// Add returns e + o, or an ExponentOverflowError when the sum does not fit.
func (e Exponent) Add(o Exponent) (Exponent, error) {
	return checked(fmt.Sprintf("%s + %s", e, o), e.num*o.Den()+o.num*e.Den(), e.Den()*o.Den())
}

// Neg returns -e.
func (e Exponent) Neg() Exponent {
	return normalize(-e.num, e.Den())
}

// Mul returns e * o, or an ExponentOverflowError when the product does not fit.
func (e Exponent) Mul(o Exponent) (Exponent, error) {
	return checked(fmt.Sprintf("(%s) * (%s)", e, o), e.num*o.num, e.Den()*o.Den())
}

func checked(op string, num, den int64) (Exponent, error) {
	r := normalize(num, den)
	if !inRange(r.num) || !inRange(r.den) {
		return Exponent{}, &ExponentOverflowError{Op: op}
	}
	return r, nil
}

// Equal reports whether e and o denote the same rational.
func (e Exponent) Equal(o Exponent) bool {
	return normalize(e.num, e.Den()) == normalize(o.num, o.Den())
}

func (e Exponent) String() string {
	if e.IsInteger() {
		return strconv.FormatInt(e.num, 10)
	}
	return fmt.Sprintf("%d/%d", e.num, e.Den())
}
