package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/inchworm-units/inchworm/internal/catalog"
	"github.com/inchworm-units/inchworm/internal/config"
	"github.com/inchworm-units/inchworm/internal/dimensions"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the registry as a catalog file",
	Long: `Write the current registry, built from all configured catalogs, as a single
catalog YAML file. The output can be used as the only catalog with --standard=false.`,
	Example: `  inchworm export
  inchworm export --out merged.yaml`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	reg, err := buildRegistry(cmd.Context())
	if err != nil {
		return err
	}
	defer reg.Close()

	return writeCatalog(cmd, reg.Snapshot(), exportOut)
}

// writeCatalog marshals snap as catalog YAML to path, or to stdout if path is empty.
func writeCatalog(cmd *cobra.Command, snap dimensions.Snapshot, path string) error {
	data, err := catalog.FromSnapshot(snap).Marshal()
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	if path == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	path = config.ExpandHome(path)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d dimensions to %s\n", snap.Len(), path)
	return nil
}
