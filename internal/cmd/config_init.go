package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tblx/tblx-ui/internal/config"
	oerrors "github.com/tblx/tblx-ui/internal/errors"
)

// configHeader is written above the generated YAML.
const configHeader = "# tblx-ui CLI configuration\n" +
	"# Values here are overridden by TBLX_* environment variables and flags.\n\n"

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(gc *GlobalConfig) *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a new configuration file",
		Long: `Create a tblx-ui configuration file with default values.

The file is created at ~/.tblx/config.yaml by default.
Use --config or TBLX_CONFIG to choose a different location.

Examples:
  tblx-ui config init
  tblx-ui config init --force`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runConfigInit(c, gc, force)
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config file")

	return c
}

func runConfigInit(c *cobra.Command, gc *GlobalConfig, force bool) error {
	path := gc.Resolved.ConfigPath.Value

	exists, err := config.FileExists(path)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if exists && !force {
		return &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: path,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    oerrors.ErrValidation,
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append([]byte(configHeader), data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Fprintf(c.OutOrStdout(), "Config file created: %s\n", path)
	return nil
}
