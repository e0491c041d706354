// Package dimexpr parses and evaluates dimension expressions such as
// "force * length", "mass / (length * time^2)" or "'electric current' * time".
//
// Grammar:
//
//	expression = power { ("*" | "·" | "/") power }
//	power      = factor [ "^" exponent ]
//	factor     = name | "1" | "(" expression ")"
//	exponent   = [ "-" ] integer [ "/" integer ] | "(" exponent ")"
//	name       = identifier | 'quoted' | "quoted"
//
// Names are registry keys. Keys with spaces must be quoted. After an
// exponent, "/ integer" is read as a fraction: "length^1/2" is the square
// root of length, not half of it.
package dimexpr

// TokenType represents the type of lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	TokenIdent  // length, bit_rate
	TokenString // 'electric current'
	TokenNumber // 2

	TokenLParen // (
	TokenRParen // )
	TokenMul    // * or ·
	TokenDiv    // /
	TokenPow    // ^
	TokenMinus  // -
)

// String returns the string representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return "ILLEGAL"
	case TokenIdent:
		return "IDENT"
	case TokenString:
		return "STRING"
	case TokenNumber:
		return "NUMBER"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenMul:
		return "*"
	case TokenDiv:
		return "/"
	case TokenPow:
		return "^"
	case TokenMinus:
		return "-"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int // 1-based byte offset, for error messages
}
