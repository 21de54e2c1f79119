package tui

import (
	"testing"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"[kyra1 console. Type help for commands.]", kindSystem},
		{"00000000  48 69 21 00", kindHexDump},
		{"       123  INTRO.CPS", kindListing},
		{"Load failed: not found", kindError},
		{"Unknown command: frobnicate. Type help for available commands.", kindError},
		{"Usage: load <package>", kindError},
		{"Loaded ART.PAK.", kindOutput},
		{"yes", kindOutput},
		{"", kindOutput},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestIsHexRow(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"00000000  48 69 21", true},
		{"000000f0  ff ff ff", true},
		{"0000000g  48 69 21", false},
		{"00000000 48", false},
		{"short", false},
	}
	for _, tt := range tests {
		if got := isHexRow(tt.line); got != tt.want {
			t.Errorf("isHexRow(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestRenderPalette(t *testing.T) {
	full := make([]byte, vgaPaletteSize)
	rows, ok := renderPalette(full)
	if !ok {
		t.Fatal("full palette should render")
	}
	// Header plus 256/16 swatch rows.
	if len(rows) != 1+256/swatchesPerRow {
		t.Fatalf("got %d rows", len(rows))
	}

	partial := make([]byte, 48) // 16 colors
	rows, ok = renderPalette(partial)
	if !ok {
		t.Fatal("partial palette should render")
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header plus one", len(rows))
	}

	if _, ok := renderPalette(make([]byte, 47)); ok {
		t.Error("partial entries must be rejected")
	}
	if _, ok := renderPalette(make([]byte, vgaPaletteSize+3)); ok {
		t.Error("oversized data must be rejected")
	}
	if _, ok := renderPalette(nil); ok {
		t.Error("empty data must be rejected")
	}
}

func TestHistoryNavigation(t *testing.T) {
	h := NewHistory(3)
	h.Push("one")
	h.Push("two")
	h.Push("two") // consecutive duplicate is dropped
	h.Push("three")

	if got, _ := h.Prev(); got != "three" {
		t.Fatalf("Prev = %q, want three", got)
	}
	if got, _ := h.Prev(); got != "two" {
		t.Fatalf("Prev = %q, want two", got)
	}
	if got, _ := h.Next(); got != "three" {
		t.Fatalf("Next = %q, want three", got)
	}
	if _, ok := h.Next(); ok {
		t.Fatal("Next past the newest entry should report false")
	}

	h.Push("four") // ring is full, "one" falls off
	h.ResetCursor()
	for i := 0; i < 10; i++ {
		h.Prev()
	}
	if got, _ := h.Prev(); got != "two" {
		t.Fatalf("oldest entry = %q, want two", got)
	}
}
