package cmd

import (
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(gc *GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Configuration management for the tblx-ui CLI.`,
	}

	c.AddCommand(NewConfigInitCmd(gc))
	c.AddCommand(NewConfigVetCmd(gc))

	return c
}
