package dimensions

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewExponent_Normalizes(t *testing.T) {
	tests := []struct {
		num, den         int64
		wantNum, wantDen int64
		want             string
	}{
		{2, 4, 1, 2, "1/2"},
		{3, -6, -1, 2, "-1/2"},
		{-4, -2, 2, 1, "2"},
		{0, 7, 0, 1, "0"},
		{-3, 1, -3, 1, "-3"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			e, err := NewExponent(tt.num, tt.den)
			require.NoError(t, err)
			require.Equal(t, tt.wantNum, e.Num())
			require.Equal(t, tt.wantDen, e.Den())
			require.Equal(t, tt.want, e.String())
		})
	}
}

func TestNewExponent_ZeroDenominator(t *testing.T) {
	_, err := NewExponent(1, 0)
	require.True(t, errors.Is(err, ErrInvalidDefinition))
}

func TestParseExponent(t *testing.T) {
	tests := []struct {
		in      string
		want    Exponent
		wantErr bool
	}{
		{"1", IntExponent(1), false},
		{" -2 ", IntExponent(-2), false},
		{"3/2", Exponent{num: 3, den: 2}, false},
		{"-1 / 2", Exponent{num: -1, den: 2}, false},
		{"4/2", IntExponent(2), false},
		{"", Exponent{}, true},
		{"x", Exponent{}, true},
		{"1/x", Exponent{}, true},
		{"1/0", Exponent{}, true},
		{"2147483647", Exponent{num: math.MaxInt32, den: 1}, false},
		{"2147483648", Exponent{}, true},
		{"-2147483648", Exponent{}, true},
		{"1/9223372036854775807", Exponent{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseExponent(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func mustAdd(t *testing.T, a, b Exponent) Exponent {
	t.Helper()
	sum, err := a.Add(b)
	require.NoError(t, err)
	return sum
}

func mustMul(t *testing.T, a, b Exponent) Exponent {
	t.Helper()
	prod, err := a.Mul(b)
	require.NoError(t, err)
	return prod
}

func TestExponent_Arithmetic(t *testing.T) {
	half := Exponent{num: 1, den: 2}
	third := Exponent{num: 1, den: 3}

	require.Equal(t, Exponent{num: 5, den: 6}, mustAdd(t, half, third))
	require.Equal(t, Exponent{num: 1, den: 6}, mustMul(t, half, third))
	require.Equal(t, Exponent{num: -1, den: 2}, half.Neg())
	require.True(t, mustAdd(t, half, half.Neg()).IsZero())
	require.True(t, IntExponent(3).IsInteger())
	require.False(t, half.IsInteger())
}

func TestExponent_ZeroValueBehavesAsZero(t *testing.T) {
	var zero Exponent
	require.True(t, zero.IsZero())
	require.Equal(t, int64(1), zero.Den())
	require.Equal(t, "0", zero.String())
	require.Equal(t, IntExponent(2), mustAdd(t, zero, IntExponent(2)))
	require.True(t, zero.Equal(IntExponent(0)))
}

func TestNewExponent_RejectsOutOfRangeTerms(t *testing.T) {
	tests := []struct {
		name     string
		num, den int64
	}{
		{"min int64 denominator", 1, math.MinInt64},
		{"min int64 numerator", math.MinInt64, 1},
		{"numerator past int32", math.MaxInt32 + 1, 1},
		{"min int32", math.MinInt32, 1},
		{"denominator past int32", 1, -(math.MaxInt32 + 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExponent(tt.num, tt.den)
			require.True(t, errors.Is(err, ErrExponentOverflow), "got %v", err)
		})
	}

	e, err := NewExponent(-math.MaxInt32, -math.MaxInt32)
	require.NoError(t, err)
	require.Equal(t, IntExponent(1), e)
}

func TestExponent_ArithmeticOverflow(t *testing.T) {
	big := IntExponent(math.MaxInt32)

	_, err := big.Add(IntExponent(1))
	require.True(t, errors.Is(err, ErrExponentOverflow))

	_, err = big.Mul(IntExponent(2))
	require.True(t, errors.Is(err, ErrExponentOverflow))

	tiny := Exponent{num: 1, den: math.MaxInt32}
	_, err = tiny.Mul(Exponent{num: 1, den: 3})
	require.True(t, errors.Is(err, ErrExponentOverflow), "denominator overflow")

	// Results that normalize back into range are fine.
	require.Equal(t, IntExponent(1), mustMul(t, big, Exponent{num: 1, den: math.MaxInt32}))
	require.Equal(t, IntExponent(0), mustAdd(t, big, big.Neg()))
}

func TestIntExponent_MinInt32Panics(t *testing.T) {
	require.Panics(t, func() { IntExponent(math.MinInt32) })
}

func TestExponent_ArithmeticStaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gen := func(label string) Exponent {
			num := rapid.Int64Range(-MaxExponent, MaxExponent).Draw(t, label+"Num")
			den := rapid.Int64Range(1, MaxExponent).Draw(t, label+"Den")
			e, err := NewExponent(num, den)
			require.NoError(t, err)
			return e
		}
		a, b := gen("a"), gen("b")

		for _, op := range []func(Exponent) (Exponent, error){a.Add, a.Mul} {
			r, err := op(b)
			if err != nil {
				require.True(t, errors.Is(err, ErrExponentOverflow))
				continue
			}
			require.LessOrEqual(t, r.Num(), int64(MaxExponent))
			require.GreaterOrEqual(t, r.Num(), int64(-MaxExponent))
			require.Positive(t, r.Den())
			require.LessOrEqual(t, r.Den(), int64(MaxExponent))
		}
	})
}

func TestExponent_ParseRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		num := rapid.Int64Range(-1000, 1000).Draw(t, "num")
		den := rapid.Int64Range(1, 1000).Draw(t, "den")

		e, err := NewExponent(num, den)
		require.NoError(t, err)

		parsed, err := ParseExponent(e.String())
		require.NoError(t, err)
		require.Equal(t, e, parsed)
	})
}
