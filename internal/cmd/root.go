// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tblx/tblx-ui/internal/config"
	"github.com/tblx/tblx-ui/internal/output"
)

// GlobalConfig holds CLI-wide state resolved during PersistentPreRunE.
// It is created by NewRootCmd and passed into every sub-command constructor.
type GlobalConfig struct {
	// Config is the loaded config file. Never nil after initialization.
	Config *config.Config

	// ConfigErr is the error from loading the config file, if any.
	// Only `config vet` fails on it; other commands run on defaults.
	ConfigErr error

	// Resolved holds the global values before command-local flags apply.
	Resolved *config.ResolvedConfig

	ConfigFlag   string
	RegistryFlag string
	PrefixFlag   string
	Verbose      bool
	Timestamps   bool
}

// NewRootCmd creates the root command for the tblx-ui CLI.
func NewRootCmd() *cobra.Command {
	gc := &GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "tblx-ui",
		Short: "Add tblx-ui components to your project",
		Long: `tblx-ui copies table components and their dependencies from a component
registry into your project's source tree.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return initializeGlobals(c, gc)
		},
	}

	rootCmd.PersistentFlags().StringVar(&gc.ConfigFlag, "config", "", "Path to config file (env: TBLX_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&gc.RegistryFlag, "registry", "", "Path to registry manifest (env: TBLX_REGISTRY)")
	rootCmd.PersistentFlags().StringVar(&gc.PrefixFlag, "prefix", "", "Registry-root path segment stripped on install (env: TBLX_PREFIX)")
	rootCmd.PersistentFlags().BoolVarP(&gc.Verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&gc.Timestamps, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(
		NewAddCmd(gc),
		NewListCmd(gc),
		NewDiffCmd(gc),
		NewConfigCmd(gc),
		NewVersionCmd(gc),
	)

	return rootCmd
}

// initializeGlobals loads the config file, resolves global values, and sets
// up logging.
func initializeGlobals(c *cobra.Command, gc *GlobalConfig) error {
	configPath, err := config.ResolveConfigPath(gc.ConfigFlag)
	if err != nil {
		return err
	}

	cfg, err := config.NewLoader().Load(configPath.Value)
	if err != nil {
		gc.ConfigErr = err
		cfg = &config.Config{}
	}
	gc.Config = cfg

	// Timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{
		Verbose: gc.Verbose,
		Writer:  c.ErrOrStderr(),
	}
	if c.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(gc.Timestamps)
	} else if cfg.Log.Timestamps != nil {
		logCfg.Timestamps = cfg.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	if gc.ConfigErr != nil {
		output.Warn("ignoring config file, using defaults", "path", configPath.Value, "error", gc.ConfigErr)
	}

	resolved, err := config.ResolveAll(config.ResolveAllOptions{
		ConfigFlag:   gc.ConfigFlag,
		RegistryFlag: gc.RegistryFlag,
		PrefixFlag:   gc.PrefixFlag,
		Config:       cfg,
	})
	if err != nil {
		return err
	}
	gc.Resolved = resolved

	if gc.Verbose {
		output.Debug("initializing CLI",
			"config", resolved.ConfigPath.Value,
			"registry", resolved.Registry.Value,
		)
	}

	return nil
}
