// Package archive implements read-only containers of game data files and
// the format-sniffing loaders that recognize them. An Archive either proves
// it does not hold a member, or produces a fresh independent stream over the
// member's bytes. Concrete archives are directory trees, PAK/APK packages,
// TLK speech files, INS installer lists, split compressed installers, and
// zip files.
package archive

import (
	"errors"
	"path"
	"sort"

	"github.com/nathoo/pakfs/stream"
	"github.com/nathoo/pakfs/types"
)

var (
	// ErrNotFound reports that a member name resolves to nothing. Non-fatal.
	ErrNotFound = errors.New("archive: member not found")

	// ErrFormatUnknown reports that no registered loader claimed a file.
	// This is the normal "not this format" outcome, distinct from an I/O
	// failure opening the file.
	ErrFormatUnknown = errors.New("archive: no loader recognized format")

	// ErrCorrupt reports a recognized container with an invalid or
	// truncated index. Required-asset callers escalate this to fatal.
	ErrCorrupt = errors.New("archive: corrupt or truncated container")
)

// Member is a handle to one addressable file, either inside an archive or
// on a directory layer. It does not own bytes; CreateReadStream opens a
// fresh stream per call.
type Member interface {
	Name() string
	Size() int64
	CreateReadStream() (stream.Stream, error)
}

// Archive is a read-only named container of members. Lookups use canonical
// names only.
type Archive interface {
	// Name is the canonical identity of the archive, used as its cache key.
	Name() types.CanonicalName

	// Has reports whether the archive contains the named member.
	Has(name types.CanonicalName) bool

	// List appends members matching the glob pattern to out and returns it.
	// The pattern is matched against canonical names.
	List(out []Member, pattern string) []Member

	// Open returns a fresh stream over the named member, or ErrNotFound.
	Open(name types.CanonicalName) (stream.Stream, error)
}

// Match reports whether the canonical name matches the glob pattern.
// Patterns are canonicalized before matching so "*.pak" and "*.PAK" are
// equivalent.
func Match(name types.CanonicalName, pattern string) bool {
	ok, err := path.Match(types.Canonical(pattern).String(), name.String())
	return err == nil && ok
}

// sortedNames returns the canonical member names of m in stable order.
func sortedNames[V any](m map[types.CanonicalName]V) []types.CanonicalName {
	names := make([]types.CanonicalName, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
