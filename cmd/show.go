package cmd

import (
	"github.com/spf13/cobra"

	"github.com/inchworm-units/inchworm/internal/dimensions"
	"github.com/inchworm-units/inchworm/internal/presentation"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one dimension",
	Long: `Show a single registry entry. For a derived dimension the definition and
its resolution to base dimensions are printed as well.

When a base dimension shadows a derived one with the same key, both are shown.`,
	Example: `  inchworm show force
  inchworm show length -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	name := args[0]

	reg, err := buildRegistry(cmd.Context())
	if err != nil {
		return err
	}
	defer reg.Close()

	f := formatter(cmd)
	base, isBase := reg.BaseDimensions().Lookup(name)
	derived, isDerived := reg.DerivedDimensions().Lookup(name)
	if !isBase && !isDerived {
		return &dimensions.DimensionNotFoundError{Name: name}
	}
	if isBase {
		if err := f.FormatDimension(presentation.FromBase(name, base)); err != nil {
			return err
		}
	}
	if isDerived {
		return f.FormatDimension(presentation.FromDerived(reg, name, derived))
	}
	return nil
}
