package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/nathoo/pakfs/resource"
)

// extractWorkers bounds parallel member extraction.
const extractWorkers = 4

// Console executes debug commands against a resource facade. The same
// dispatcher backs the plain terminal, the full-screen UI, and the Lua
// bindings, so every frontend exposes an identical command set.
type Console struct {
	Res *resource.Resource

	// OutFS receives extracted files; defaults to the host filesystem.
	OutFS afero.Fs
}

// Result is the outcome of one executed command.
type Result struct {
	Lines []string
	Quit  bool
}

// NewConsole creates a console over res, extracting to the host filesystem.
func NewConsole(res *resource.Resource) *Console {
	return &Console{Res: res, OutFS: afero.NewOsFs()}
}

// Execute runs a single command line and returns its output.
func (c *Console) Execute(line string) Result {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Result{}
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "quit", "exit":
		return Result{Lines: []string{"Goodbye."}, Quit: true}

	case "help":
		return Result{Lines: c.cmdHelp()}

	case "reset":
		return Result{Lines: c.cmdReset()}

	case "list":
		pattern := "*"
		if len(args) > 0 {
			pattern = args[0]
		}
		return Result{Lines: c.cmdList(pattern)}

	case "paks":
		return Result{Lines: c.cmdPaks()}

	case "cache":
		return Result{Lines: c.cmdCache()}

	case "load":
		if len(args) != 1 {
			return usage("load <package>")
		}
		return Result{Lines: c.cmdLoad(args[0])}

	case "unload":
		if len(args) < 1 || len(args) > 2 || (len(args) == 2 && args[1] != "drop") {
			return usage("unload <package> [drop]")
		}
		return Result{Lines: c.cmdUnload(args[0], len(args) == 2)}

	case "installer":
		if len(args) < 2 || len(args) > 3 {
			return usage("installer <base> <extfmt> [headerlen]")
		}
		return Result{Lines: c.cmdInstaller(args)}

	case "exists":
		if len(args) != 1 {
			return usage("exists <file>")
		}
		return Result{Lines: c.cmdExists(args[0])}

	case "size":
		if len(args) != 1 {
			return usage("size <file>")
		}
		return Result{Lines: c.cmdSize(args[0])}

	case "hex":
		if len(args) < 1 || len(args) > 2 {
			return usage("hex <file> [length]")
		}
		return Result{Lines: c.cmdHex(args)}

	case "extract":
		if len(args) != 2 {
			return usage("extract <glob> <dir>")
		}
		return Result{Lines: c.cmdExtract(args[0], args[1])}

	default:
		return Result{Lines: []string{
			fmt.Sprintf("Unknown command: %s. Type help for available commands.", cmd),
		}}
	}
}

func usage(u string) Result {
	return Result{Lines: []string{"Usage: " + u}}
}

func (c *Console) cmdHelp() []string {
	return []string{
		"Commands:",
		"  list [glob]                    — List resolvable files",
		"  exists <file>                  — Check whether a file resolves",
		"  size <file>                    — Show a file's size",
		"  hex <file> [length]            — Hex dump a file",
		"  extract <glob> <dir>           — Extract matching files to a directory",
		"  paks                           — Show active packages",
		"  cache                          — Show parsed archives",
		"  load <package>                 — Activate a package",
		"  unload <package> [drop]        — Deactivate a package (drop: evict cache)",
		"  installer <base> <fmt> [hdr]   — Mount a multi-volume installer",
		"  reset                          — Restore the title's starting package set",
		"  help                           — Show this help",
		"  quit                           — Leave the console",
	}
}

func (c *Console) cmdReset() []string {
	if err := c.Res.Reset(); err != nil {
		return []string{fmt.Sprintf("Reset failed: %v", err)}
	}
	return []string{"Search set restored."}
}

func (c *Console) cmdList(pattern string) []string {
	members := c.Res.ListFiles(pattern)
	if len(members) == 0 {
		return []string{"No matches."}
	}

	names := make([]string, len(members))
	sizes := make(map[string]int64, len(members))
	for i, m := range members {
		names[i] = m.Name()
		sizes[m.Name()] = m.Size()
	}
	sort.Strings(names)

	out := make([]string, 0, len(names)+1)
	for _, n := range names {
		out = append(out, fmt.Sprintf("%10d  %s", sizes[n], n))
	}
	return append(out, fmt.Sprintf("%d file(s)", len(names)))
}

func (c *Console) cmdPaks() []string {
	paks := c.Res.PakList()
	if len(paks) == 0 {
		return []string{"No active packages."}
	}
	out := make([]string, len(paks))
	for i, p := range paks {
		out[i] = p.String()
	}
	return out
}

func (c *Console) cmdCache() []string {
	cached := c.Res.CacheList()
	if len(cached) == 0 {
		return []string{"Cache is empty."}
	}
	out := make([]string, len(cached))
	for i, n := range cached {
		out[i] = n.String()
	}
	return out
}

func (c *Console) cmdLoad(pak string) []string {
	if err := c.Res.LoadPakFile(pak); err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	return []string{fmt.Sprintf("Loaded %s.", strings.ToUpper(pak))}
}

func (c *Console) cmdUnload(pak string, drop bool) []string {
	if !c.Res.IsInPakList(pak) {
		return []string{fmt.Sprintf("%s is not active.", strings.ToUpper(pak))}
	}
	c.Res.UnloadPakFile(pak, drop)
	if c.Res.IsInPakList(pak) {
		return []string{fmt.Sprintf("%s is protected and stays active.", strings.ToUpper(pak))}
	}
	return []string{fmt.Sprintf("Unloaded %s.", strings.ToUpper(pak))}
}

func (c *Console) cmdInstaller(args []string) []string {
	headerLen := int64(0)
	if len(args) == 3 {
		n, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil || n < 0 {
			return []string{"Header length must be a non-negative number."}
		}
		headerLen = n
	}
	if err := c.Res.LoadInstallerArchive(args[0], args[1], headerLen); err != nil {
		return []string{fmt.Sprintf("Installer mount failed: %v", err)}
	}
	return []string{fmt.Sprintf("Mounted installer %s.", strings.ToUpper(args[0]))}
}

func (c *Console) cmdExists(file string) []string {
	if c.Res.Exists(file) {
		return []string{"yes"}
	}
	return []string{"no"}
}

func (c *Console) cmdSize(file string) []string {
	size, err := c.Res.FileSize(file)
	if err != nil {
		return []string{fmt.Sprintf("Size failed: %v", err)}
	}
	return []string{fmt.Sprintf("%d bytes", size)}
}

func (c *Console) cmdHex(args []string) []string {
	length := 256
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return []string{"Length must be a positive number."}
		}
		length = n
	}

	data, err := c.Res.FileData(args[0])
	if err != nil {
		return []string{fmt.Sprintf("Read failed: %v", err)}
	}
	truncated := len(data) > length
	if truncated {
		data = data[:length]
	}
	out := hexDump(data)
	if truncated {
		out = append(out, "...")
	}
	return out
}

// hexDump renders data as 16-byte rows: offset, hex bytes, printable ASCII.
func hexDump(data []byte) []string {
	var out []string
	for off := 0; off < len(data); off += 16 {
		row := data[off:]
		if len(row) > 16 {
			row = row[:16]
		}

		var hexPart, ascii strings.Builder
		for i := 0; i < 16; i++ {
			if i == 8 {
				hexPart.WriteByte(' ')
			}
			if i < len(row) {
				fmt.Fprintf(&hexPart, "%02x ", row[i])
				if row[i] >= ' ' && row[i] <= '~' {
					ascii.WriteByte(row[i])
				} else {
					ascii.WriteByte('.')
				}
			} else {
				hexPart.WriteString("   ")
			}
		}
		out = append(out, fmt.Sprintf("%08x  %s |%s|", off, hexPart.String(), ascii.String()))
	}
	return out
}

// cmdExtract copies every matching file to dir, a few in parallel. The
// facade serializes its own lookups, so concurrent FileData calls are safe.
func (c *Console) cmdExtract(pattern, dir string) []string {
	members := c.Res.ListFiles(pattern)
	if len(members) == 0 {
		return []string{"No matches."}
	}
	if err := c.OutFS.MkdirAll(dir, 0o755); err != nil {
		return []string{fmt.Sprintf("Extract failed: %v", err)}
	}

	var g errgroup.Group
	g.SetLimit(extractWorkers)
	for _, m := range members {
		name := m.Name()
		g.Go(func() error {
			data, err := c.Res.FileData(name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			path := filepath.Join(dir, filepath.Base(name))
			if err := afero.WriteFile(c.OutFS, path, data, 0o644); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return []string{fmt.Sprintf("Extract failed: %v", err)}
	}
	return []string{fmt.Sprintf("Extracted %d file(s) to %s.", len(members), dir)}
}
