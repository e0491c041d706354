package dimensions

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func mul(t require.TestingT, a, b Dimension) Dimension {
	d, err := a.Mul(b)
	require.NoError(t, err)
	return d
}

func div(t require.TestingT, a, b Dimension) Dimension {
	d, err := a.Div(b)
	require.NoError(t, err)
	return d
}

func pow(t require.TestingT, a Dimension, p Exponent) Dimension {
	d, err := a.Pow(p)
	require.NoError(t, err)
	return d
}

func TestDimension_MulDivPow(t *testing.T) {
	length := BaseDimension("length")
	time := BaseDimension("time")

	velocity := div(t, length, time)
	require.Equal(t, IntExponent(1), velocity.Exponent("length"))
	require.Equal(t, IntExponent(-1), velocity.Exponent("time"))
	require.Equal(t, IntExponent(0), velocity.Exponent("mass"))

	accel := div(t, velocity, time)
	require.Equal(t, IntExponent(-2), accel.Exponent("time"))

	area := pow(t, length, IntExponent(2))
	require.Equal(t, []string{"length"}, area.BaseNames())
	require.Equal(t, IntExponent(2), area.Exponent("length"))
}

func TestDimension_CancellationDropsKeys(t *testing.T) {
	length := BaseDimension("length")

	ratio := div(t, length, length)
	require.True(t, ratio.IsDimensionless())
	require.Empty(t, ratio.BaseNames())
	require.True(t, ratio.Equal(Dimensionless()))
	require.Equal(t, "1", ratio.String())
}

func TestDimension_PowZeroIsDimensionless(t *testing.T) {
	require.True(t, pow(t, BaseDimension("mass"), IntExponent(0)).IsDimensionless())
}

func TestDimension_String(t *testing.T) {
	force := div(t,
		mul(t, BaseDimension("mass"), BaseDimension("length")),
		pow(t, BaseDimension("time"), IntExponent(2)))

	require.Equal(t, "length·mass·time^-2", force.String())
	require.Equal(t, "length^1/2", pow(t, BaseDimension("length"), Exponent{num: 1, den: 2}).String())
}

func TestDimension_OverflowIsAnError(t *testing.T) {
	huge := pow(t, BaseDimension("length"), IntExponent(math.MaxInt32))

	_, err := huge.Pow(IntExponent(4))
	require.True(t, errors.Is(err, ErrExponentOverflow))

	_, err = huge.Mul(BaseDimension("length"))
	require.True(t, errors.Is(err, ErrExponentOverflow))

	_, err = huge.Div(pow(t, BaseDimension("length"), IntExponent(-1)))
	require.True(t, errors.Is(err, ErrExponentOverflow))

	// Cancelling a large exponent still drops the key.
	require.True(t, div(t, huge, huge).Equal(Dimensionless()))
}

func TestDimension_AlgebraProperties(t *testing.T) {
	keys := []string{"length", "mass", "time", "current"}
	genDim := rapid.Custom(func(t *rapid.T) Dimension {
		d := Dimensionless()
		n := rapid.IntRange(0, 4).Draw(t, "factors")
		for i := 0; i < n; i++ {
			key := rapid.SampledFrom(keys).Draw(t, "key")
			num := rapid.Int64Range(-3, 3).Draw(t, "num")
			den := rapid.Int64Range(1, 3).Draw(t, "den")
			e, _ := NewExponent(num, den)
			d = mul(t, d, pow(t, BaseDimension(key), e))
		}
		return d
	})

	rapid.Check(t, func(t *rapid.T) {
		a := genDim.Draw(t, "a")
		b := genDim.Draw(t, "b")

		ab := mul(t, a, b)
		require.True(t, ab.Equal(mul(t, b, a)), "multiplication commutes")
		require.True(t, div(t, ab, b).Equal(a), "division undoes multiplication")
		require.True(t, div(t, a, a).IsDimensionless(), "a/a is dimensionless")
		for _, k := range ab.BaseNames() {
			require.False(t, ab.Exponent(k).IsZero(), "no zero exponents are stored")
		}
	})
}
