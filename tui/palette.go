package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// vgaPaletteSize is a full 256 color VGA palette: 3 bytes per entry,
// 6 bits per channel.
const vgaPaletteSize = 768

// swatchesPerRow keeps palette rows narrow enough for small terminals.
const swatchesPerRow = 16

// renderPalette turns raw VGA palette data into rows of colored swatches.
// Data must hold whole 3-byte entries; a partial palette renders partially.
func renderPalette(data []byte) ([]string, bool) {
	if len(data) == 0 || len(data)%3 != 0 || len(data) > vgaPaletteSize {
		return nil, false
	}

	count := len(data) / 3
	rows := make([]string, 0, count/swatchesPerRow+2)
	rows = append(rows, fmt.Sprintf("%d color(s):", count))

	var row string
	for i := 0; i < count; i++ {
		// 6-bit DAC values scale to 8-bit by shifting.
		c := colorful.Color{
			R: float64(data[i*3]<<2) / 255,
			G: float64(data[i*3+1]<<2) / 255,
			B: float64(data[i*3+2]<<2) / 255,
		}
		row += lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("██")
		if (i+1)%swatchesPerRow == 0 {
			rows = append(rows, row)
			row = ""
		}
	}
	if row != "" {
		rows = append(rows, row)
	}
	return rows, true
}
