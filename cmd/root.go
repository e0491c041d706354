package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inchworm-units/inchworm/internal/cachemanager"
	"github.com/inchworm-units/inchworm/internal/catalog"
	"github.com/inchworm-units/inchworm/internal/config"
	"github.com/inchworm-units/inchworm/internal/dimensions"
	"github.com/inchworm-units/inchworm/internal/flags"
	"github.com/inchworm-units/inchworm/internal/log"
	"github.com/inchworm-units/inchworm/internal/presentation"
	"github.com/inchworm-units/inchworm/internal/tracing"
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config

	extraCatalogs []string

	logCleanup     func()
	tracerProvider *tracing.Provider
	featureFlags   *flags.Set
)

var rootCmd = &cobra.Command{
	Use:   "inchworm",
	Short: "Dimension registry and dimensional analysis toolkit",
	Long: `inchworm manages a registry of physical dimensions: base dimensions such as
length, mass and time, and derived dimensions composed from them.

The registry is built from the built-in ISQ catalog (unless --standard=false)
followed by the catalogs listed in the config file and on the command line.`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .inchworm/config.yaml, then ~/.config/inchworm/config.yaml)")
	rootCmd.PersistentFlags().StringArrayVar(&extraCatalogs, "catalog", nil,
		"additional catalog file, applied after configured ones (repeatable)")
	rootCmd.PersistentFlags().Bool("standard", true,
		"seed the registry with the built-in ISQ catalog")
	rootCmd.PersistentFlags().StringP("output", "o", "",
		"output format: table or json")
	rootCmd.PersistentFlags().Bool("debug", false,
		"write debug logs (also INCHWORM_DEBUG=1)")
}

func initConfig() {
	// Start from a clean viper so repeated Execute calls see only their own flags.
	viper.Reset()
	_ = viper.BindPFlag("standard", rootCmd.PersistentFlags().Lookup("standard"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))

	defaults := config.Defaults()
	viper.SetDefault("catalogs", defaults.Catalogs)
	viper.SetDefault("standard", defaults.Standard)
	viper.SetDefault("output", defaults.Output)
	viper.SetDefault("store.path", defaults.Store.Path)
	viper.SetDefault("log.debug", defaults.Log.Debug)
	viper.SetDefault("log.path", defaults.Log.Path)
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("flags", map[string]bool{})

	viper.SetEnvPrefix("INCHWORM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// INCHWORM_DEBUG is the documented switch; log.debug maps to INCHWORM_LOG_DEBUG.
	_ = viper.BindEnv("log.debug", "INCHWORM_DEBUG", "INCHWORM_LOG_DEBUG")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .inchworm/config.yaml (current directory)
		// 2. ~/.config/inchworm/config.yaml (user config)
		if _, err := os.Stat(".inchworm/config.yaml"); err == nil {
			viper.SetConfigFile(".inchworm/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "inchworm"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// A missing config file is fine; defaults apply.
	configErr = nil
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = fmt.Errorf("reading config: %w", err)
		}
	}

	cfg = config.Config{}
	if err := viper.Unmarshal(&cfg); err != nil && configErr == nil {
		configErr = fmt.Errorf("decoding config: %w", err)
	}
}

// configErr carries a config failure from initConfig to setup, which can
// return it.
var configErr error

func setup(cmd *cobra.Command, _ []string) error {
	if configErr != nil && (cmd != configInitCmd || !errors.Is(configErr, fs.ErrNotExist)) {
		return configErr
	}
	cfg.Catalogs = append(cfg.Catalogs, extraCatalogs...)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Log.Debug {
		cleanup, err := log.Init(cfg.Log.Path)
		if err != nil {
			return fmt.Errorf("initializing log: %w", err)
		}
		logCleanup = cleanup
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			log.SetMinLevel(level)
		}
	} else {
		log.SetEnabled(false)
	}

	featureFlags = flags.New(cfg.Flags)

	provider, err := tracing.NewProvider(cfg.Tracing.Provider())
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	tracerProvider = provider

	log.Debug(log.CatCLI, "command started", "command", cmd.CommandPath(), "config", viper.ConfigFileUsed())
	return nil
}

func teardown(*cobra.Command, []string) error {
	var err error
	if tracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = tracerProvider.Shutdown(ctx)
		cancel()
		tracerProvider = nil
	}
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
	return err
}

// buildRegistry creates a registry from the standard catalog (if enabled)
// and every configured catalog, in order.
func buildRegistry(ctx context.Context) (*dimensions.Registry, error) {
	reg := newRegistry()
	if err := applyConfiguredCatalogs(ctx, reg); err != nil {
		reg.Close()
		return nil, err
	}
	return reg, nil
}

func newRegistry() *dimensions.Registry {
	if featureFlags.Enabled(flags.NoResolutionCache) {
		return dimensions.NewRegistry(dimensions.WithResolutionCache(cachemanager.NoopCacheManager[dimensions.Dimension]{}))
	}
	return dimensions.NewRegistry()
}

func applyConfiguredCatalogs(ctx context.Context, reg *dimensions.Registry) error {
	if cfg.Standard {
		if _, err := catalog.Standard().Apply(ctx, reg); err != nil {
			return err
		}
	}
	for _, path := range cfg.Catalogs {
		cat, err := catalog.LoadFile(config.ExpandHome(path))
		if err != nil {
			return err
		}
		if _, err := cat.Apply(ctx, reg); err != nil {
			return err
		}
	}
	return nil
}

func formatter(cmd *cobra.Command) *presentation.Formatter {
	return presentation.NewFormatter(cmd.OutOrStdout(), cfg.Output)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
