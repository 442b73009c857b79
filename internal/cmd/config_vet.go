package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tblx/tblx-ui/internal/config"
	oerrors "github.com/tblx/tblx-ui/internal/errors"
	"github.com/tblx/tblx-ui/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(gc *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate the configuration file",
		Long: `Validate the tblx-ui configuration file and show where each value
comes from.

The config path is resolved using precedence:
  --config flag > TBLX_CONFIG env > ~/.tblx/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runConfigVet(c, gc)
		},
	}
}

func runConfigVet(c *cobra.Command, gc *GlobalConfig) error {
	path := gc.Resolved.ConfigPath.Value

	exists, err := config.FileExists(path)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if !exists {
		return oerrors.NewNotFoundError("configuration file not found", path,
			"Run 'tblx-ui config init' to create one.")
	}

	if gc.ConfigErr != nil {
		return &oerrors.DetailError{
			Type:     "validation failed",
			Message:  gc.ConfigErr.Error(),
			Location: path,
			Cause:    oerrors.ErrValidation,
		}
	}

	var verrs config.ValidationErrors
	for _, err := range []error{config.Validate(gc.Config), gc.Resolved.Validate()} {
		var errs config.ValidationErrors
		if errors.As(err, &errs) {
			verrs = append(verrs, errs...)
		} else if err != nil {
			return err
		}
	}
	if len(verrs) > 0 {
		output.Error("config validation failed", "path", path)
		for _, e := range verrs {
			output.Error(e.Message, "field", e.Field)
		}
		return &oerrors.ExitError{Err: verrs, Code: oerrors.ExitValidationError, Printed: true}
	}

	out := c.OutOrStdout()
	fmt.Fprintln(out, output.FormatCheckmark("Config file is valid: "+path))

	t := output.NewTable("KEY", "VALUE", "SOURCE")
	for _, v := range gc.Resolved.Values() {
		t.Row(v.Key, v.Value, string(v.Source))
	}
	fmt.Fprintln(out, t.String())

	return nil
}
