package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/nathoo/pakfs/stream"
	"github.com/nathoo/pakfs/types"
)

// Dir is an Archive over a directory tree. Member names are matched
// case-insensitively against the host filesystem; the real path is recorded
// at index time so later opens do not depend on host case handling.
type Dir struct {
	fs    afero.Fs
	root  string
	name  types.CanonicalName
	index map[types.CanonicalName]dirEntry
}

type dirEntry struct {
	path string // path relative to fs, host casing preserved
	size int64
}

// NewDir indexes root (on fs) up to depth levels of subdirectories.
// depth 0 indexes only the directory itself. Files found deeper are exposed
// under their bare filename, the way the engine's search paths flatten
// subdirectories.
func NewDir(fs afero.Fs, root string, depth int) (*Dir, error) {
	d := &Dir{
		fs:    fs,
		root:  root,
		name:  types.Canonical(filepath.ToSlash(root)),
		index: make(map[types.CanonicalName]dirEntry),
	}
	if err := d.scan(root, depth); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dir) scan(dir string, depth int) error {
	entries, err := afero.ReadDir(d.fs, dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}
	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		if e.IsDir() {
			if depth > 0 {
				if err := d.scan(full, depth-1); err != nil {
					return err
				}
			}
			continue
		}
		key := types.Canonical(e.Name())
		if _, dup := d.index[key]; dup {
			continue // first hit wins, matching scan order
		}
		d.index[key] = dirEntry{path: full, size: e.Size()}
	}
	return nil
}

// AddSubDirectory indexes one named subdirectory of the root if it exists,
// ignoring case. Returns false when no such subdirectory is present.
func (d *Dir) AddSubDirectory(name string, depth int) (bool, error) {
	entries, err := afero.ReadDir(d.fs, d.root)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.IsDir() && strings.EqualFold(e.Name(), name) {
			if err := d.scan(filepath.Join(d.root, e.Name()), depth); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (d *Dir) Name() types.CanonicalName { return d.name }

func (d *Dir) Has(name types.CanonicalName) bool {
	_, ok := d.index[name]
	return ok
}

func (d *Dir) List(out []Member, pattern string) []Member {
	for _, n := range sortedNames(d.index) {
		if Match(n, pattern) {
			out = append(out, &dirMember{dir: d, key: n})
		}
	}
	return out
}

func (d *Dir) Open(name types.CanonicalName) (stream.Stream, error) {
	e, ok := d.index[name]
	if !ok {
		return nil, ErrNotFound
	}
	return d.open(e)
}

func (d *Dir) open(e dirEntry) (stream.Stream, error) {
	f, err := d.fs.Open(e.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, e.path)
		}
		return nil, fmt.Errorf("opening %s: %w", e.path, err)
	}
	return stream.NewSection(f, 0, e.size, f), nil
}

// dirMember hands out streams for one indexed file.
type dirMember struct {
	dir *Dir
	key types.CanonicalName
}

func (m *dirMember) Name() string { return m.key.String() }

func (m *dirMember) Size() int64 { return m.dir.index[m.key].size }

func (m *dirMember) CreateReadStream() (stream.Stream, error) {
	return m.dir.open(m.dir.index[m.key])
}
