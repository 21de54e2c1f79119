// Package cli provides the plain-terminal debug console for the resource
// layer: command dispatch, output formatting, and script playback.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// CLI runs the console as a line-oriented terminal loop.
type CLI struct {
	Console   *Console
	In        io.Reader
	Out       io.Writer
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a terminal loop over the given console.
func New(console *Console) *CLI {
	return &CLI{
		Console: console,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run starts the loop: prompt, input, dispatch, output. It returns when
// the input ends or a quit command runs.
func (c *CLI) Run() {
	flags := c.Console.Res.GameFlags()
	c.printSystem(fmt.Sprintf("%s console. Type help for commands.", flags.Game))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// "again" / "g" repeats the last command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Console.Execute(input)
		for _, line := range result.Lines {
			c.printLine(line)
		}
		if result.Quit {
			return
		}
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
