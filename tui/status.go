package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// configured title, platform, and the live package and cache counts.
func (m Model) renderStatusBar() string {
	flags := m.console.Res.GameFlags()

	left := fmt.Sprintf(" %s | %s", flags.Game, flags.Platform)
	if flags.IsTalkie {
		left += " CD"
	}
	if flags.IsDemo {
		left += " demo"
	}

	right := fmt.Sprintf("paks:%d cached:%d ",
		len(m.console.Res.PakList()), len(m.console.Res.CacheList()))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
