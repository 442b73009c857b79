package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tblx/tblx-ui/internal/config"
	oerrors "github.com/tblx/tblx-ui/internal/errors"
	"github.com/tblx/tblx-ui/internal/output"
	"github.com/tblx/tblx-ui/internal/registry"
)

// installFlags holds the flags shared by commands that place files
// (add, diff).
type installFlags struct {
	Dir            string
	WithBaseStyles bool
}

// addTo registers the install flags on the given cobra command.
func (f *installFlags) addTo(c *cobra.Command) {
	c.Flags().StringVarP(&f.Dir, "dir", "d", config.DefaultDir,
		"Target directory (env: TBLX_DIR)")
	c.Flags().BoolVar(&f.WithBaseStyles, "with-base-styles", false,
		"Include base CSS variables and layout")
}

// resolveInstall resolves the command-local install flags against env,
// config, and defaults.
func resolveInstall(c *cobra.Command, gc *GlobalConfig, f *installFlags) (*config.ResolvedConfig, error) {
	resolved, err := config.ResolveAll(config.ResolveAllOptions{
		ConfigFlag:            gc.ConfigFlag,
		RegistryFlag:          gc.RegistryFlag,
		PrefixFlag:            gc.PrefixFlag,
		DirFlag:               f.Dir,
		DirFlagSet:            c.Flags().Changed("dir"),
		WithBaseStylesFlag:    f.WithBaseStyles,
		WithBaseStylesFlagSet: c.Flags().Changed("with-base-styles"),
		Config:                gc.Config,
	})
	if err != nil {
		return nil, err
	}

	config.LogResolvedValues(resolved.Values())
	return resolved, nil
}

// loadCatalog loads the manifest at the resolved registry path. Load errors
// are logged here and returned with Printed set.
func loadCatalog(resolved *config.ResolvedConfig) (*registry.Catalog, error) {
	catalog, err := registry.Load(resolved.Registry.Value, registry.WithPrefix(resolved.Prefix.Value))
	if err != nil {
		printLoadError(err)
		return nil, &oerrors.ExitError{Err: err, Code: oerrors.ExitCodeFromError(err), Printed: true}
	}

	output.Debug("registry loaded",
		"path", resolved.Registry.Value,
		"components", len(catalog.Components),
		"baseStyles", len(catalog.BaseStyles),
	)
	return catalog, nil
}

// printLoadError prints a manifest error. Schema details, when present, are
// printed as plain lines beneath the summary.
func printLoadError(err error) {
	var malformed *oerrors.ManifestMalformedError
	if errors.As(err, &malformed) && malformed.Details != "" {
		output.Error("registry manifest is malformed", "path", malformed.Path)
		output.Info(malformed.Details)
		return
	}
	output.Error("loading registry manifest", "error", err)
}

// handleNotFound prints a missing component and the valid names carried by
// the error, then returns the error to exit with. Legacy mode exits 0.
func handleNotFound(catalog *registry.Catalog, nf *oerrors.ComponentNotFoundError, legacy bool) error {
	output.Error(nf.Error())
	if len(nf.Available) == 0 {
		output.Info(nf.Hint())
	} else {
		output.Info("Available components:")
		for _, name := range nf.Available {
			line := "  - " + output.StyleNoun.Render(name)
			if comp, ok := catalog.Lookup(name); ok && comp.Description != "" {
				line += ": " + comp.Description
			}
			output.Info(line)
		}
	}

	if legacy {
		output.Debug("legacy exit codes enabled, exiting 0")
		return nil
	}
	return &oerrors.ExitError{Err: nf, Code: oerrors.ExitNotFound, Printed: true}
}
