package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tblx/tblx-ui/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(_ *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show tblx-ui version information.

Displays:
  - CLI version, commit, and build date
  - Go version
  - CUE SDK version used for manifest validation`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			fmt.Fprintln(c.OutOrStdout(), version.GetInfo().String())
			return nil
		},
	}
}
