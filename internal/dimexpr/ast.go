package dimexpr

import (
	"strings"

	"github.com/inchworm-units/inchworm/internal/dimensions"
)

// Expr is a parsed dimension expression.
type Expr interface {
	String() string
	expr()
}

// NameExpr references a registry key.
type NameExpr struct {
	Name string
	Pos  int
}

// OneExpr is the literal 1, the dimensionless dimension.
type OneExpr struct{}

// BinaryExpr is "left * right" or "left / right".
type BinaryExpr struct {
	Left  Expr
	Op    TokenType // TokenMul or TokenDiv
	Right Expr
}

// PowExpr raises Base to a rational power.
type PowExpr struct {
	Base     Expr
	Exponent dimensions.Exponent
}

func (*NameExpr) expr()   {}
func (*OneExpr) expr()    {}
func (*BinaryExpr) expr() {}
func (*PowExpr) expr()    {}

func (n *NameExpr) String() string {
	if isPlainName(n.Name) {
		return n.Name
	}
	return "'" + n.Name + "'"
}

func (*OneExpr) String() string { return "1" }

func (b *BinaryExpr) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

func (p *PowExpr) String() string {
	exp := p.Exponent.String()
	if !p.Exponent.IsInteger() || p.Exponent.Num() < 0 {
		exp = "(" + exp + ")"
	}
	return p.Base.String() + "^" + exp
}

func isPlainName(name string) bool {
	if name == "" || isDigit(name[0]) || strings.Contains(name, "·") {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isLetter(name[i]) && !isDigit(name[i]) {
			return false
		}
	}
	return true
}
