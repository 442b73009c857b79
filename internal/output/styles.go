package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals elsewhere.
var (
	// ColorCyan is used for identifiable nouns: component names, file paths.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "created" file status.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "overwritten" file status.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for removed diff lines.
	ColorRed = lipgloss.Color("196")

	// ColorBoldRed is used for the "failed" file status.
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (component names, paths).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs (adding, copying).
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (scope prefixes, arrows).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// File status constants.
const (
	StatusCreated     = "created"
	StatusOverwritten = "overwritten"
	StatusUnchanged   = "unchanged"
	StatusFailed      = "failed"
)

// StatusStyle returns the lipgloss style for a given file status string.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusCreated:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusOverwritten:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusUnchanged:
		return lipgloss.NewStyle().Faint(true)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minPathColumnWidth is the minimum width of the path column before the
// status suffix, so status words line up.
const minPathColumnWidth = 48

// FormatFileLine renders a destination path with a right-aligned,
// color-coded status suffix.
//
// Format: f:<path>  <status>
func FormatFileLine(path, status string) string {
	padding := minPathColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	return StyleDim.Render("f:") + StyleNoun.Render(path) +
		strings.Repeat(" ", padding) + StatusStyle(status).Render(status)
}

// FormatCopy renders a single progress line for a copied file.
//
// Format: <source> → <dest>
func FormatCopy(source, dest string) string {
	return source + " " + StyleDim.Render("→") + " " + StyleNoun.Render(dest)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
