package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inchworm-units/inchworm/internal/dimexpr"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate a dimension expression",
	Long: `Evaluate an expression over registered dimensions and print the result in
base dimensions, along with every registered dimension it equals.

Operators are * (or ·), / and ^ with integer or fractional exponents.
Quote names that contain spaces. Multiple arguments are joined with spaces.`,
	Example: `  inchworm eval "force * length"
  inchworm eval "mass / (length * time^2)"
  inchworm eval "'electric current' * time"
  inchworm eval "length^1/2"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

type evalResult struct {
	Expression string   `json:"expression"`
	Parsed     string   `json:"parsed"`
	Resolved   string   `json:"resolved"`
	Base       string   `json:"base"`
	Matches    []string `json:"matches"`
}

func runEval(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")
	expr, err := dimexpr.Parse(input)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", input, err)
	}

	reg, err := buildRegistry(cmd.Context())
	if err != nil {
		return err
	}
	defer reg.Close()

	d, err := dimexpr.Eval(reg, expr)
	if err != nil {
		return err
	}

	res := evalResult{
		Expression: input,
		Parsed:     expr.String(),
		Resolved:   reg.Format(d),
		Base:       d.String(),
		Matches:    dimexpr.Identify(reg, d),
	}
	if res.Matches == nil {
		res.Matches = []string{}
	}

	msg := res.Resolved
	if len(res.Matches) > 0 {
		msg += "  (" + strings.Join(res.Matches, ", ") + ")"
	}
	return formatter(cmd).FormatResult(msg, res)
}
