package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inchworm-units/inchworm/internal/catalog"
	"github.com/inchworm-units/inchworm/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the inchworm config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a commented default config file to the --config path, or to
~/.config/inchworm/config.yaml. An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configAddCatalogCmd = &cobra.Command{
	Use:   "add-catalog <path>",
	Short: "Validate a catalog and append it to the config",
	Long: `Check that the catalog applies on top of the configured registry, then add
it to the catalogs list in the config file. Comments and other settings in the
file are preserved.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigAddCatalog,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), configPath())
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd, configAddCatalogCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// configPath returns the file commands should write: --config, the file
// viper loaded, or the user config location.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		if _, err := os.Stat(used); err == nil {
			return used
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".inchworm", "config.yaml")
	}
	return filepath.Join(home, ".config", "inchworm", "config.yaml")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}

func runConfigAddCatalog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]
	current := viper.GetStringSlice("catalogs")
	if slices.Contains(current, path) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is already configured\n", path)
		return nil
	}

	cat, err := catalog.LoadFile(config.ExpandHome(path))
	if err != nil {
		return err
	}
	reg, err := buildRegistry(ctx)
	if err != nil {
		return err
	}
	defer reg.Close()
	if err := cat.Check(ctx, catalog.FromSnapshot(reg.Snapshot())); err != nil {
		return err
	}

	target := configPath()
	catalogs, err := config.AddCatalog(target, current, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s (%d catalogs)\n", path, target, len(catalogs))
	return nil
}
