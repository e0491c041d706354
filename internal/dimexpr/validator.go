package dimexpr

import (
	"fmt"
	"strings"

	"github.com/inchworm-units/inchworm/internal/dimensions"
)

// UnknownNamesError lists names in an expression that are not registered.
type UnknownNamesError struct {
	Names []string
}

func (e *UnknownNamesError) Error() string {
	quoted := make([]string, len(e.Names))
	for i, n := range e.Names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return "unknown dimension(s): " + strings.Join(quoted, ", ")
}

// Is reports whether target is dimensions.ErrNotFound.
func (e *UnknownNamesError) Is(target error) bool {
	return target == dimensions.ErrNotFound
}

// Names returns the distinct names referenced by e, in order of first use.
func Names(e Expr) []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(Expr)
	walk = func(e Expr) {
		switch e := e.(type) {
		case *NameExpr:
			if !seen[e.Name] {
				seen[e.Name] = true
				names = append(names, e.Name)
			}
		case *PowExpr:
			walk(e.Base)
		case *BinaryExpr:
			walk(e.Left)
			walk(e.Right)
		}
	}
	walk(e)
	return names
}

// Check verifies every name in e is a base or derived key of reg.
func Check(reg *dimensions.Registry, e Expr) error {
	var unknown []string
	for _, name := range Names(e) {
		if !reg.BaseDimensions().Contains(name) && !reg.DerivedDimensions().Contains(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return &UnknownNamesError{Names: unknown}
	}
	return nil
}
