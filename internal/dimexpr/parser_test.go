package dimexpr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "single name", input: "length", expected: "length"},
		{name: "left associative", input: "mass * length / time", expected: "((mass * length) / time)"},
		{name: "power binds tighter", input: "length / time^2", expected: "(length / time^2)"},
		{name: "parentheses", input: "mass / (length * time^2)", expected: "(mass / (length * time^2))"},
		{name: "negative exponent", input: "time^-1", expected: "time^(-1)"},
		{name: "fractional exponent", input: "length^1/2", expected: "length^(1/2)"},
		{name: "parenthesized exponent", input: "length^(3/2) * mass", expected: "(length^(3/2) * mass)"},
		{name: "division after exponent", input: "length^2/time", expected: "(length^2 / time)"},
		{name: "dimensionless one", input: "1/time", expected: "(1 / time)"},
		{name: "quoted name", input: "'electric current' * time", expected: "('electric current' * time)"},
		{name: "middle dot", input: "length·time^-1", expected: "(length * time^(-1))"},
		{name: "power of group", input: "(length/time)^2", expected: "(length / time)^2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, e.String())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		pos   int
		msg   string
	}{
		{name: "empty", input: "  ", pos: 3, msg: "empty expression"},
		{name: "dangling operator", input: "length *", pos: 9, msg: "unexpected end"},
		{name: "number factor", input: "2 * length", pos: 1, msg: "only 1 may stand alone"},
		{name: "missing paren", input: "(length * time", pos: 15, msg: "expected ')'"},
		{name: "trailing token", input: "length time", pos: 8, msg: `unexpected "time"`},
		{name: "missing exponent", input: "length^", pos: 8, msg: "expected an integer exponent"},
		{name: "zero denominator", input: "length^1/0", pos: 11, msg: "denominator"},
		{name: "unterminated quote", input: "'bit rate", pos: 1, msg: "unterminated quote"},
		{name: "illegal character", input: "mass + length", pos: 6, msg: "illegal character"},
		{name: "empty quoted name", input: "''", pos: 1, msg: "empty name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, tt.pos, syntaxErr.Pos)
			assert.Contains(t, syntaxErr.Msg, tt.msg)
		})
	}
}
