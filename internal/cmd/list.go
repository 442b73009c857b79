package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	oerrors "github.com/tblx/tblx-ui/internal/errors"
	"github.com/tblx/tblx-ui/internal/output"
	"github.com/tblx/tblx-ui/internal/registry"
)

// listOptions holds the flags for the list command.
type listOptions struct {
	output string
}

// NewListCmd creates the list command.
func NewListCmd(gc *GlobalConfig) *cobra.Command {
	opts := &listOptions{}

	c := &cobra.Command{
		Use:   "list",
		Short: "List all available components",
		Long: `List every component in the registry with its description and the
components it depends on. Nothing is written.

Examples:
  tblx-ui list
  tblx-ui list -o table
  tblx-ui list -o json`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runList(c, gc, opts)
		},
	}

	c.Flags().StringVarP(&opts.output, "output", "o", "text",
		"Output format ("+strings.Join(output.ValidFormats(), ", ")+")")

	return c
}

func runList(c *cobra.Command, gc *GlobalConfig, opts *listOptions) error {
	format := output.ParseOutputFormat(opts.output)
	if !format.IsValid() {
		return oerrors.NewValidationError(
			fmt.Sprintf("invalid output format %q", opts.output),
			"", "output",
			"Use one of: "+strings.Join(output.ValidFormats(), ", "),
		)
	}

	catalog, err := loadCatalog(gc.Resolved)
	if err != nil {
		return err
	}

	out := c.OutOrStdout()
	comps := catalog.Sorted()

	switch format {
	case output.FormatYAML:
		data, err := yaml.Marshal(comps)
		if err != nil {
			return fmt.Errorf("marshaling components: %w", err)
		}
		fmt.Fprint(out, string(data))
	case output.FormatJSON:
		data, err := json.MarshalIndent(comps, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling components: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case output.FormatTable:
		fmt.Fprintln(out, output.RenderComponentTable(componentRows(comps)))
	default:
		fmt.Fprintln(out, output.StyleSummary.Render(listHeading(catalog)))
		fmt.Fprintln(out)
		fmt.Fprint(out, output.RenderComponentList(componentRows(comps)))
	}

	return nil
}

func listHeading(catalog *registry.Catalog) string {
	name := "tblx-ui"
	if catalog.Name != "" {
		name = catalog.Name
	}
	if catalog.Version != "" {
		return fmt.Sprintf("Available %s components (%s):", name, catalog.Version)
	}
	return fmt.Sprintf("Available %s components:", name)
}

func componentRows(comps []*registry.Component) []output.ComponentRow {
	rows := make([]output.ComponentRow, 0, len(comps))
	for _, comp := range comps {
		rows = append(rows, output.ComponentRow{
			Name:         comp.Name,
			Description:  comp.Description,
			Dependencies: comp.Dependencies,
		})
	}
	return rows
}
