package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableStyle defines the style for table output.
type TableStyle struct {
	// Border is the border style.
	Border lipgloss.Border

	// BorderColor is the color for borders.
	BorderColor lipgloss.Color

	// HeaderStyle is the style for header cells.
	HeaderStyle lipgloss.Style

	// CellStyle is the style for regular cells.
	CellStyle lipgloss.Style
}

// DefaultTableStyle returns the default table style.
func DefaultTableStyle() TableStyle {
	return TableStyle{
		Border:      lipgloss.NormalBorder(),
		BorderColor: ColorDimGray,
		HeaderStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		CellStyle:   lipgloss.NewStyle(),
	}
}

// Table represents a styled table.
type Table struct {
	headers []string
	rows    [][]string
	style   TableStyle
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    make([][]string, 0),
		style:   DefaultTableStyle(),
	}
}

// Row adds a row to the table.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// String renders the table as a string.
func (t *Table) String() string {
	tbl := table.New().
		Border(t.style.Border).
		BorderStyle(lipgloss.NewStyle().Foreground(t.style.BorderColor)).
		Headers(t.headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.style.HeaderStyle
			}
			return t.style.CellStyle
		})

	for _, row := range t.rows {
		tbl.Row(row...)
	}

	return tbl.String()
}

// ComponentRow is one registry component as shown by listings.
type ComponentRow struct {
	Name         string
	Description  string
	Dependencies []string
}

// RenderComponentTable renders registry components as a table.
func RenderComponentTable(rows []ComponentRow) string {
	t := NewTable("NAME", "DESCRIPTION", "DEPENDENCIES")

	for _, r := range rows {
		t.Row(r.Name, r.Description, strings.Join(r.Dependencies, ", "))
	}

	return t.String()
}

// RenderComponentList renders registry components as indented text:
// the name, the description beneath it, and dependencies when present.
func RenderComponentList(rows []ComponentRow) string {
	var sb strings.Builder

	for _, r := range rows {
		sb.WriteString("  ")
		sb.WriteString(StyleNoun.Render(r.Name))
		sb.WriteString("\n    ")
		sb.WriteString(r.Description)
		sb.WriteString("\n")
		if len(r.Dependencies) > 0 {
			sb.WriteString("    ")
			sb.WriteString(StyleDim.Render("Dependencies: "))
			sb.WriteString(strings.Join(r.Dependencies, ", "))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
