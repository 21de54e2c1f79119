package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleOutput = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHexDump = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	styleListing = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindOutput lineKind = iota
	kindHexDump
	kindListing
	kindSystem
	kindError
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case isHexRow(line):
		return kindHexDump
	case strings.Contains(line, "failed:"),
		strings.HasPrefix(line, "Unknown command"),
		strings.HasPrefix(line, "Usage:"):
		return kindError
	case isSizeColumn(line):
		return kindListing
	default:
		return kindOutput
	}
}

// isHexRow recognizes the console's hex dump rows: an 8 digit offset
// followed by two spaces.
func isHexRow(line string) bool {
	if len(line) < 10 || line[8] != ' ' || line[9] != ' ' {
		return false
	}
	for i := 0; i < 8; i++ {
		c := line[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// isSizeColumn recognizes listing rows: a right-aligned size, two spaces,
// a name.
func isSizeColumn(line string) bool {
	if len(line) < 13 || line[10] != ' ' || line[11] != ' ' {
		return false
	}
	seenDigit := false
	for i := 0; i < 10; i++ {
		switch {
		case line[i] == ' ':
			if seenDigit {
				return false
			}
		case line[i] >= '0' && line[i] <= '9':
			seenDigit = true
		default:
			return false
		}
	}
	return seenDigit
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindHexDump:
		return styleHexDump.Render(line)
	case kindListing:
		return styleListing.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	default:
		return styleOutput.Render(line)
	}
}
