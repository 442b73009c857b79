package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	oerrors "github.com/tblx/tblx-ui/internal/errors"
	"github.com/tblx/tblx-ui/internal/installer"
	"github.com/tblx/tblx-ui/internal/output"
	"github.com/tblx/tblx-ui/internal/resolver"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd(gc *GlobalConfig) *cobra.Command {
	flags := &installFlags{}

	c := &cobra.Command{
		Use:   "diff <component>",
		Short: "Show what adding a component would change",
		Long: `Compare the registry copy of a component and its dependencies with the
files already in your project. Files that differ are shown as a line diff;
files that do not exist yet are listed as new. Nothing is written.

Examples:
  tblx-ui diff Table
  tblx-ui diff Table --dir app/ui --with-base-styles`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runDiff(c, gc, flags, args[0])
		},
	}

	flags.addTo(c)

	return c
}

func runDiff(c *cobra.Command, gc *GlobalConfig, flags *installFlags, name string) error {
	resolved, err := resolveInstall(c, gc, flags)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(resolved)
	if err != nil {
		return err
	}

	comps, err := resolver.Resolve(catalog, name)
	if err != nil {
		var nf *oerrors.ComponentNotFoundError
		if errors.As(err, &nf) {
			return handleNotFound(catalog, nf, resolved.LegacyExitCodes.Bool())
		}
		return err
	}

	targetDir, err := filepath.Abs(resolved.Dir.Value)
	if err != nil {
		return err
	}
	inst := installer.New(osfs.New(catalog.Root), osfs.New(targetDir))

	files, err := inst.Plan(catalog, comps, resolved.WithBaseStyles.Bool())
	if err != nil {
		output.Error("comparing files", "error", err)
		return &oerrors.ExitError{Err: err, Code: oerrors.ExitCodeFromError(err), Printed: true}
	}

	out := c.OutOrStdout()
	styles := output.NewDiffStyles(output.IsTTY())

	var created, changed int
	for _, f := range files {
		dest := filepath.Join(targetDir, filepath.FromSlash(f.Dest))
		switch f.Status {
		case output.StatusCreated:
			created++
			fmt.Fprintln(out, output.FormatFileLine(dest, f.Status))
		case output.StatusOverwritten:
			changed++
			text, err := inst.Diff(f, styles)
			if err != nil {
				output.Error("comparing files", "error", err)
				return &oerrors.ExitError{Err: err, Code: oerrors.ExitCodeFromError(err), Printed: true}
			}
			fmt.Fprint(out, text)
		}
	}

	if created == 0 && changed == 0 {
		fmt.Fprintln(out, output.FormatCheckmark(fmt.Sprintf("%s is up to date", output.StyleNoun.Render(name))))
		return nil
	}

	fmt.Fprintln(out, output.StyleSummary.Render(
		fmt.Sprintf("%d new, %d changed, %d unchanged", created, changed, len(files)-created-changed)))
	return nil
}
