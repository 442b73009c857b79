package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines kept around each change.
const diffContext = 2

// DiffStyles holds the styles used for line diffs.
type DiffStyles struct {
	Added   lipgloss.Style
	Removed lipgloss.Style
	Header  lipgloss.Style
	Context lipgloss.Style
}

// NewDiffStyles returns colored diff styles, or plain styles when color is false.
func NewDiffStyles(color bool) DiffStyles {
	// Source files keep their tabs.
	base := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	if !color {
		return DiffStyles{Added: base, Removed: base, Header: base, Context: base}
	}
	return DiffStyles{
		Added:   base.Foreground(ColorGreen),
		Removed: base.Foreground(ColorRed),
		Header:  base.Bold(true),
		Context: base.Faint(true),
	}
}

type diffLine struct {
	op   diffmatchpatch.Operation
	text string
}

// RenderTextDiff renders a line-oriented diff between the current content of
// a file and the content that would replace it. Returns an empty string when
// the two are identical.
func RenderTextDiff(path string, current, incoming []byte, styles DiffStyles) string {
	if string(current) == string(incoming) {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(string(current), string(incoming))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var all []diffLine
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		for _, l := range strings.Split(text, "\n") {
			all = append(all, diffLine{op: d.Type, text: l})
		}
	}

	// Mark lines within diffContext of any change.
	keep := make([]bool, len(all))
	for i, l := range all {
		if l.op == diffmatchpatch.DiffEqual {
			continue
		}
		for j := max(0, i-diffContext); j <= min(len(all)-1, i+diffContext); j++ {
			keep[j] = true
		}
	}

	var sb strings.Builder
	sb.WriteString(styles.Header.Render("--- " + path + " (installed)"))
	sb.WriteString("\n")
	sb.WriteString(styles.Header.Render("+++ " + path + " (registry)"))
	sb.WriteString("\n")

	skipped := false
	for i, l := range all {
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped {
			sb.WriteString(styles.Context.Render("@@"))
			sb.WriteString("\n")
			skipped = false
		}
		switch l.op {
		case diffmatchpatch.DiffInsert:
			sb.WriteString(styles.Added.Render("+" + l.text))
		case diffmatchpatch.DiffDelete:
			sb.WriteString(styles.Removed.Render("-" + l.text))
		default:
			sb.WriteString(styles.Context.Render(" " + l.text))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
