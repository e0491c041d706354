package dimexpr

import (
	"fmt"
	"strconv"

	"github.com/inchworm-units/inchworm/internal/dimensions"
)

// SyntaxError reports where parsing failed.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("position %d: %s", e.Pos, e.Msg)
}

// Parser parses tokens into an Expr.
type Parser struct {
	lexer   *Lexer
	current Token
	peek    Token
}

// NewParser creates a parser for the input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a complete expression.
func Parse(input string) (Expr, error) {
	return NewParser(input).Parse()
}

// Parse parses the input and fails on trailing tokens.
func (p *Parser) Parse() (Expr, error) {
	if p.current.Type == TokenEOF {
		return nil, p.errorf("empty expression")
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	switch p.current.Type {
	case TokenEOF:
		return expr, nil
	case TokenIllegal:
		return nil, p.illegal()
	default:
		return nil, p.errorf("unexpected %q", p.current.Literal)
	}
}

func (p *Parser) illegal() error {
	if lit := p.current.Literal; lit != "" && (lit[0] == '\'' || lit[0] == '"') {
		return p.errorf("unterminated quote")
	}
	return p.errorf("illegal character %q", p.current.Literal)
}

func (p *Parser) nextToken() {
	p.current = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) errorf(format string, args ...any) error {
	return &SyntaxError{Pos: p.current.Pos, Msg: fmt.Sprintf(format, args...)}
}

// expression = power { ("*" | "/") power }
func (p *Parser) parseExpression() (Expr, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}

	for p.current.Type == TokenMul || p.current.Type == TokenDiv {
		op := p.current.Type
		p.nextToken()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

// power = factor [ "^" exponent ]
func (p *Parser) parsePower() (Expr, error) {
	base, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokenPow {
		return base, nil
	}
	p.nextToken()
	exp, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	return &PowExpr{Base: base, Exponent: exp}, nil
}

// factor = name | "1" | "(" expression ")"
func (p *Parser) parseFactor() (Expr, error) {
	switch p.current.Type {
	case TokenIdent, TokenString:
		if p.current.Literal == "" {
			return nil, p.errorf("empty name")
		}
		n := &NameExpr{Name: p.current.Literal, Pos: p.current.Pos}
		p.nextToken()
		return n, nil

	case TokenNumber:
		if p.current.Literal != "1" {
			return nil, p.errorf("only 1 may stand alone, got %s", p.current.Literal)
		}
		p.nextToken()
		return &OneExpr{}, nil

	case TokenLParen:
		p.nextToken()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.current.Type != TokenRParen {
			return nil, p.errorf("expected ')', got %q", p.current.Literal)
		}
		p.nextToken()
		return expr, nil

	case TokenIllegal:
		return nil, p.illegal()

	case TokenEOF:
		return nil, p.errorf("unexpected end of expression")

	default:
		return nil, p.errorf("expected a name, 1 or '(', got %q", p.current.Literal)
	}
}

// exponent = [ "-" ] integer [ "/" integer ] | "(" exponent ")"
func (p *Parser) parseExponent() (dimensions.Exponent, error) {
	if p.current.Type == TokenLParen {
		p.nextToken()
		exp, err := p.parseExponent()
		if err != nil {
			return exp, err
		}
		if p.current.Type != TokenRParen {
			return exp, p.errorf("expected ')' after exponent, got %q", p.current.Literal)
		}
		p.nextToken()
		return exp, nil
	}

	sign := int64(1)
	if p.current.Type == TokenMinus {
		sign = -1
		p.nextToken()
	}
	num, err := p.parseInteger()
	if err != nil {
		return dimensions.Exponent{}, err
	}
	den := int64(1)
	if p.current.Type == TokenDiv && p.peek.Type == TokenNumber {
		p.nextToken()
		if den, err = p.parseInteger(); err != nil {
			return dimensions.Exponent{}, err
		}
	}

	exp, err := dimensions.NewExponent(sign*num, den)
	if err != nil {
		return exp, p.errorf("%v", err)
	}
	return exp, nil
}

func (p *Parser) parseInteger() (int64, error) {
	if p.current.Type != TokenNumber {
		return 0, p.errorf("expected an integer exponent, got %q", p.current.Literal)
	}
	n, err := strconv.ParseInt(p.current.Literal, 10, 32)
	if err != nil {
		return 0, p.errorf("exponent %s out of range", p.current.Literal)
	}
	p.nextToken()
	return n, nil
}
