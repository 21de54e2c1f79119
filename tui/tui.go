package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/pakfs/cli"
)

// rawLine stores an unstyled output line with its classification, so we
// can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text    string
	kind    lineKind
	isInput bool // true for echoed command input
	styled  bool // true for pre-rendered lines (palette swatches)
}

// Model is the Bubble Tea model for the resource console.
type Model struct {
	console *cli.Console

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated output (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	quitting bool
	lastCmd  string
}

// consoleOutputMsg carries command output into the Update loop.
type consoleOutputMsg struct {
	input  string // echoed command (empty for the banner)
	lines  []string
	styled bool // lines are pre-rendered and must not be re-styled
}

// New creates a TUI model over the given console.
func New(console *cli.Console) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		console: console,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(console *cli.Console) error {
	m := New(console)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command producing the banner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		flags := m.console.Res.GameFlags()
		return consoleOutputMsg{lines: []string{
			fmt.Sprintf("%s resource console. Type help for commands, pal <file> for a palette preview.", flags.Game),
			"",
		}}
	}
}

// Update handles messages (key presses, window resize, command output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case consoleOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// "again" / "g" repeats the last command.
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(consoleOutputMsg{input: input, lines: []string{"Nothing to repeat."}})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// "pal" previews are a TUI affordance, not a console command.
	if name, ok := strings.CutPrefix(lower, "pal "); ok {
		m = m.appendOutput(m.paletteOutput(input, strings.TrimSpace(name)))
		return m, nil
	}

	result := m.console.Execute(input)
	m = m.appendOutput(consoleOutputMsg{input: input, lines: result.Lines})
	if result.Quit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// paletteOutput loads a file and renders it as color swatches.
func (m Model) paletteOutput(input, name string) consoleOutputMsg {
	data, err := m.console.Res.FileData(name)
	if err != nil {
		return consoleOutputMsg{input: input, lines: []string{fmt.Sprintf("Palette failed: %v", err)}}
	}
	rows, ok := renderPalette(data)
	if !ok {
		return consoleOutputMsg{input: input, lines: []string{
			fmt.Sprintf("%s is %d bytes; palettes are whole 3-byte entries up to 768 bytes.", strings.ToUpper(name), len(data)),
		}}
	}
	return consoleOutputMsg{input: input, lines: rows, styled: true}
}

// appendOutput adds lines to the log and refreshes the viewport.
func (m Model) appendOutput(msg consoleOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, styled: msg.styled}
		if !msg.styled {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between commands.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-styles all raw lines at the current width and updates
// the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	var styled []string
	for _, rl := range m.rawLines {
		switch {
		case rl.text == "":
			styled = append(styled, "")
		case rl.styled:
			styled = append(styled, rl.text)
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(rl.text))
		default:
			styled = append(styled, renderLineKind(rl.text, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}
