package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inchworm-units/inchworm/internal/catalog"
	"github.com/inchworm-units/inchworm/internal/config"
	"github.com/inchworm-units/inchworm/internal/log"
)

var checkCmd = &cobra.Command{
	Use:   "check <catalog>...",
	Short: "Check that catalogs apply cleanly",
	Long: `Check each catalog file against the configured registry without saving anything.

Every file is checked on its own against the registry built from the standard
catalog and the configured catalogs. The command fails if any file does not apply.`,
	Example: `  inchworm check ./dimensions/information.yaml
  inchworm --standard=false check base.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

type checkResult struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
	Error   string `json:"error,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	reg, err := buildRegistry(ctx)
	if err != nil {
		return err
	}
	defer reg.Close()
	configured := catalog.FromSnapshot(reg.Snapshot())

	results := make([]checkResult, 0, len(args))
	failed := 0
	for _, path := range args {
		res := checkResult{Path: path}
		cat, err := catalog.LoadFile(config.ExpandHome(path))
		if err == nil {
			res.Entries = cat.Len()
			err = cat.Check(ctx, configured)
		}
		if err != nil {
			res.Error = err.Error()
			failed++
			log.Warn(log.CatCLI, "catalog check failed", "path", path, "error", err)
		}
		results = append(results, res)
	}

	f := formatter(cmd)
	if f.JSON() {
		if err := f.FormatResult("", results); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		for _, res := range results {
			if res.Error != "" {
				fmt.Fprintf(out, "FAIL %s: %s\n", res.Path, res.Error)
				continue
			}
			fmt.Fprintf(out, "ok   %s (%d entries)\n", res.Path, res.Entries)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d catalogs failed", failed, len(args))
	}
	return nil
}
