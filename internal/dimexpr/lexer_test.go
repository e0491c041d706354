package dimexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lexAll(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

func TestLexer_Tokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "product",
			input: "mass * length",
			expected: []Token{
				{Type: TokenIdent, Literal: "mass", Pos: 1},
				{Type: TokenMul, Literal: "*", Pos: 6},
				{Type: TokenIdent, Literal: "length", Pos: 8},
				{Type: TokenEOF, Pos: 14},
			},
		},
		{
			name:  "negative fractional exponent",
			input: "time^-1/2",
			expected: []Token{
				{Type: TokenIdent, Literal: "time", Pos: 1},
				{Type: TokenPow, Literal: "^", Pos: 5},
				{Type: TokenMinus, Literal: "-", Pos: 6},
				{Type: TokenNumber, Literal: "1", Pos: 7},
				{Type: TokenDiv, Literal: "/", Pos: 8},
				{Type: TokenNumber, Literal: "2", Pos: 9},
				{Type: TokenEOF, Pos: 10},
			},
		},
		{
			name:  "middle dot separator",
			input: "length·time",
			expected: []Token{
				{Type: TokenIdent, Literal: "length", Pos: 1},
				{Type: TokenMul, Literal: "·", Pos: 7},
				{Type: TokenIdent, Literal: "time", Pos: 9},
				{Type: TokenEOF, Pos: 13},
			},
		},
		{
			name:  "quoted name with spaces",
			input: "'electric current'/(time)",
			expected: []Token{
				{Type: TokenString, Literal: "electric current", Pos: 1},
				{Type: TokenDiv, Literal: "/", Pos: 19},
				{Type: TokenLParen, Literal: "(", Pos: 20},
				{Type: TokenIdent, Literal: "time", Pos: 21},
				{Type: TokenRParen, Literal: ")", Pos: 25},
				{Type: TokenEOF, Pos: 26},
			},
		},
		{
			name:  "utf-8 identifier",
			input: "Θ_abs",
			expected: []Token{
				{Type: TokenIdent, Literal: "Θ_abs", Pos: 1},
				{Type: TokenEOF, Pos: 7},
			},
		},
		{
			name:  "unterminated quote",
			input: `"bit rate`,
			expected: []Token{
				{Type: TokenIllegal, Literal: `"bit rate`, Pos: 1},
				{Type: TokenEOF, Pos: 10},
			},
		},
		{
			name:  "illegal character",
			input: "mass + length",
			expected: []Token{
				{Type: TokenIdent, Literal: "mass", Pos: 1},
				{Type: TokenIllegal, Literal: "+", Pos: 6},
				{Type: TokenIdent, Literal: "length", Pos: 8},
				{Type: TokenEOF, Pos: 14},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, lexAll(tt.input))
		})
	}
}

func TestTokenType_String(t *testing.T) {
	assert.Equal(t, "*", TokenMul.String())
	assert.Equal(t, "/", TokenDiv.String())
	assert.Equal(t, "IDENT", TokenIdent.String())
	assert.Equal(t, "UNKNOWN", TokenType(99).String())
}
