// Package script runs sandboxed Lua automation against the resource
// console: batch extraction, data integrity checks, and scripted package
// manipulation share one command surface with the interactive frontends.
package script

import (
	"fmt"
	"io"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/pakfs/cli"
)

// Runner executes Lua scripts against a console.
type Runner struct {
	Console *cli.Console
	Out     io.Writer
}

// New creates a runner writing script output to stdout.
func New(console *cli.Console) *Runner {
	return &Runner{Console: console, Out: os.Stdout}
}

// RunFile executes one script file in a fresh sandboxed VM.
func (r *Runner) RunFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script %s: %w", path, err)
	}
	return r.Run(string(src), path)
}

// Run executes script source in a fresh sandboxed VM. The VM is discarded
// afterwards; scripts share no state.
func (r *Runner) Run(src, name string) error {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)
	registerAPI(L, r)

	fn, err := L.LoadString(src)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("executing %s: %w", name, err)
	}
	return nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	// Table library (table.insert, table.sort, etc.)
	lua.OpenTable(L)
	// String library (string.format, string.byte, etc.)
	lua.OpenString(L)
	// Math library (math.floor, math.max, etc.)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions. Scripts reach game data
// only through the registered API, never the host filesystem.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}
}
