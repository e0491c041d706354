package cmd

import (
	"github.com/spf13/cobra"

	"github.com/inchworm-units/inchworm/internal/presentation"
)

var listDerivedOnly bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered dimensions",
	Long: `List the base and derived dimensions in the registry, in registration order.

Derived dimensions show their definition and the base exponents they resolve to.`,
	Example: `  inchworm list
  inchworm list --derived
  inchworm list -o json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listDerivedOnly, "derived", false, "only list derived dimensions")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	reg, err := buildRegistry(cmd.Context())
	if err != nil {
		return err
	}
	defer reg.Close()

	return formatter(cmd).FormatRegistry(presentation.FromRegistry(reg), listDerivedOnly)
}
