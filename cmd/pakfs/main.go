// Pakfs is a debug console for Westwood-style game data: it mounts a game
// directory, loads its package archives, and lets you inspect and extract
// the files inside.
//
// Usage: pakfs [--version] [--plain] [--script <file>] [--lua <file>]
// [--game <id>] [--platform <p>] [--lang <l>] [--demo] [--talkie]
// [--installer] [--no-reset] <game_directory>
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/nathoo/pakfs/cli"
	"github.com/nathoo/pakfs/logger"
	"github.com/nathoo/pakfs/resource"
	"github.com/nathoo/pakfs/script"
	"github.com/nathoo/pakfs/tui"
	"github.com/nathoo/pakfs/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: pakfs [--version] [--plain] [--script <file>] [--lua <file>] " +
	"[--game <id>] [--platform <p>] [--lang <l>] [--demo] [--talkie] [--installer] [--no-reset] <game_directory>"

func main() {
	// Optional .env file; flags and explicit env still win.
	godotenv.Load()
	logger.Init(os.Stderr, os.Getenv("PAKFS_LOG_LEVEL"))

	plain := false
	noReset := false
	gamePath := os.Getenv("PAKFS_GAME_PATH")
	var scriptFile, luaFile string

	flags := types.GameFlags{
		Game:     parseGame(os.Getenv("PAKFS_GAME")),
		Platform: parsePlatform(os.Getenv("PAKFS_PLATFORM")),
		Lang:     parseLang(os.Getenv("PAKFS_LANG")),
	}

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("pakfs %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--no-reset":
			noReset = true
		case "--demo":
			flags.IsDemo = true
		case "--talkie":
			flags.IsTalkie = true
		case "--installer":
			flags.UseInstaller = true
		case "--script":
			scriptFile = stringArg(args, &i, "--script")
		case "--lua":
			luaFile = stringArg(args, &i, "--lua")
		case "--game":
			flags.Game = parseGame(stringArg(args, &i, "--game"))
		case "--platform":
			flags.Platform = parsePlatform(stringArg(args, &i, "--platform"))
		case "--lang":
			flags.Lang = parseLang(stringArg(args, &i, "--lang"))
		default:
			if gamePath == "" {
				gamePath = args[i]
			}
		}
	}

	if gamePath == "" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}
	if flags.Game == types.GameNone {
		flags.Game = types.GameKyra1
	}

	res, err := resource.New(afero.NewOsFs(), gamePath, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening game directory: %v\n", err)
		os.Exit(1)
	}
	if !noReset {
		// A partial install is still inspectable, so a failed reset only warns.
		if err := res.Reset(); err != nil {
			logger.Warn("reset failed", "err", err)
		}
	}

	console := cli.NewConsole(res)

	// Lua mode: run the script and exit.
	if luaFile != "" {
		if err := script.New(console).RunFile(luaFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Script mode: replay console commands, echoing each one.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c := cli.New(console)
		c.In = f
		c.EchoInput = true
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		cli.New(console).Run()
		return
	}

	if err := tui.Run(console); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// stringArg consumes the value following a flag.
func stringArg(args []string, i *int, flag string) string {
	if *i+1 >= len(args) {
		fmt.Fprintf(os.Stderr, "%s requires a value\n", flag)
		os.Exit(1)
	}
	*i++
	return args[*i]
}

func parseGame(s string) types.GameID {
	switch strings.ToLower(s) {
	case "kyra1":
		return types.GameKyra1
	case "kyra2":
		return types.GameKyra2
	case "kyra3":
		return types.GameKyra3
	case "eob1":
		return types.GameEOB1
	case "eob2":
		return types.GameEOB2
	case "lol":
		return types.GameLOL
	default:
		return types.GameNone
	}
}

func parsePlatform(s string) types.Platform {
	switch strings.ToLower(s) {
	case "macintosh", "mac":
		return types.PlatformMacintosh
	case "amiga":
		return types.PlatformAmiga
	case "fmtowns", "towns":
		return types.PlatformFMTowns
	case "segacd":
		return types.PlatformSegaCD
	default:
		return types.PlatformDOS
	}
}

func parseLang(s string) types.Language {
	switch strings.ToLower(s) {
	case "fr", "french":
		return types.LangFrench
	case "de", "german":
		return types.LangGerman
	case "es", "spanish":
		return types.LangSpanish
	case "it", "italian":
		return types.LangItalian
	case "ja", "japanese":
		return types.LangJapanese
	default:
		return types.LangEnglish
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
