package catalog

import (
	_ "embed"
	"fmt"
)

//go:embed standard.yaml
var standardYAML []byte

// Standard returns the built-in ISQ catalog: the seven base dimensions and
// a handful of common derived dimensions. A registry never loads it on its
// own; callers apply it explicitly.
func Standard() *Catalog {
	cat, err := Parse("standard.yaml", standardYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded standard catalog is invalid: %v", err))
	}
	return cat
}
