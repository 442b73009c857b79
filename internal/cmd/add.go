package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	oerrors "github.com/tblx/tblx-ui/internal/errors"
	"github.com/tblx/tblx-ui/internal/installer"
	"github.com/tblx/tblx-ui/internal/output"
	"github.com/tblx/tblx-ui/internal/resolver"
)

// addOptions holds the flags for the add command.
type addOptions struct {
	install installFlags
	dryRun  bool
}

// NewAddCmd creates the add command.
func NewAddCmd(gc *GlobalConfig) *cobra.Command {
	opts := &addOptions{}

	c := &cobra.Command{
		Use:   "add <component>",
		Short: "Add a component to your project",
		Long: `Add a component and everything it depends on to your project.

Dependencies are copied before the components that need them. Existing files
at the destination are overwritten.

Examples:
  # Add the Table component to src/components/tblx
  tblx-ui add Table

  # Add into a custom directory, with the shared base styles
  tblx-ui add Pager --dir app/ui --with-base-styles

  # Show what would be written
  tblx-ui add Table --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runAdd(c, gc, opts, args[0])
		},
	}

	opts.install.addTo(c)
	c.Flags().BoolVar(&opts.dryRun, "dry-run", false,
		"Show the files that would be written without writing them")

	return c
}

func runAdd(c *cobra.Command, gc *GlobalConfig, opts *addOptions, name string) error {
	resolved, err := resolveInstall(c, gc, &opts.install)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(resolved)
	if err != nil {
		return err
	}

	// Resolution finishes before anything is written, so a missing name
	// anywhere in the closure leaves the target untouched.
	comps, err := resolver.Resolve(catalog, name)
	if err != nil {
		var nf *oerrors.ComponentNotFoundError
		if errors.As(err, &nf) {
			return handleNotFound(catalog, nf, resolved.LegacyExitCodes.Bool())
		}
		return err
	}

	output.Debug("resolved components", "component", name, "order", resolver.Names(comps))

	targetDir, err := filepath.Abs(resolved.Dir.Value)
	if err != nil {
		return err
	}
	withBase := resolved.WithBaseStyles.Bool()
	inst := installer.New(osfs.New(catalog.Root), osfs.New(targetDir))
	out := c.OutOrStdout()

	if opts.dryRun {
		files, err := inst.Plan(catalog, comps, withBase)
		if err != nil {
			output.Error("planning install", "error", err)
			return &oerrors.ExitError{Err: err, Code: oerrors.ExitCodeFromError(err), Printed: true}
		}
		for _, f := range files {
			fmt.Fprintln(out, output.FormatFileLine(filepath.Join(targetDir, filepath.FromSlash(f.Dest)), f.Status))
		}
		fmt.Fprintln(out, output.StyleDim.Render(fmt.Sprintf("dry run: %d files, nothing written", len(files))))
		return nil
	}

	result, err := inst.Install(catalog, comps, withBase)
	if err != nil {
		output.Error("installing components", "error", err, "copied", len(result.Files))
		return &oerrors.ExitError{Err: err, Code: oerrors.ExitCodeFromError(err), Printed: true}
	}

	printNextSteps(out, name, resolved.Dir.Value, len(result.Files))
	return nil
}

func printNextSteps(w io.Writer, name, dir string, copied int) {
	fmt.Fprintln(w, output.FormatCheckmark(fmt.Sprintf("Added %s (%d files)", output.StyleNoun.Render(name), copied)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, output.StyleSummary.Render("Next steps:"))
	fmt.Fprintln(w, "  1. Make sure 'tblx' is installed: npm install tblx")
	fmt.Fprintf(w, "  2. Import the component from '%s'\n", dir)
	fmt.Fprintln(w, "  3. Import the CSS styles in your app")
}
