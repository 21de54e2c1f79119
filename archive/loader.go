package archive

import (
	"fmt"
	"io"

	"github.com/nathoo/pakfs/logger"
	"github.com/nathoo/pakfs/stream"
	"github.com/nathoo/pakfs/types"
)

// Loader is a format-detection and parsing strategy. Detection is
// two-phase: CheckFilename filters by name pattern so a cheap string test
// runs before any I/O, then IsLoadable verifies the actual content. The
// split prevents a file that is merely *named* like a package from being
// claimed by the wrong loader.
//
// IsLoadable may consume the stream freely; the registry rewinds it before
// the next loader's sniff and before Load.
type Loader interface {
	CheckFilename(name types.CanonicalName) bool
	IsLoadable(name types.CanonicalName, s stream.Stream) bool
	Load(name types.CanonicalName, m Member, s stream.Stream) (Archive, error)
}

// Registry is the ordered list of loaders consulted to materialize an
// archive from a file. Order matters: the first loader whose two checks
// both pass wins.
type Registry struct {
	loaders []Loader
}

// NewRegistry returns a registry with the built-in loaders in their
// canonical order: PAK, INS, TLK, zip.
func NewRegistry() *Registry {
	return &Registry{loaders: []Loader{
		&PakLoader{},
		&InsLoader{},
		&TlkLoader{},
		&ZipLoader{},
	}}
}

// Register appends a loader. Used by tests to install probes.
func (r *Registry) Register(l Loader) {
	r.loaders = append(r.loaders, l)
}

// Load opens m and dispatches it to the first claiming loader.
//
// Failure modes are kept distinct: an error opening the member stream is a
// hard I/O failure and is returned wrapped; no loader claiming the content
// returns ErrFormatUnknown, which callers probing "each known package name"
// treat as soft.
func (r *Registry) Load(name types.CanonicalName, m Member) (Archive, error) {
	s, err := m.CreateReadStream()
	if err != nil {
		logger.Warn("archive open failed", "name", name, "err", err)
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer s.Close()

	for _, l := range r.loaders {
		if !l.CheckFilename(name) {
			continue
		}
		if l.IsLoadable(name, s) {
			if _, err := s.Seek(0, io.SeekStart); err != nil {
				return nil, err
			}
			arc, err := l.Load(name, m, s)
			if err != nil {
				return nil, fmt.Errorf("loading %s: %w", name, err)
			}
			return arc, nil
		}
		// Rewind so the next loader sees the stream from byte 0.
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
	}

	logger.Debug("no loader matched", "name", name)
	return nil, fmt.Errorf("%w: %s", ErrFormatUnknown, name)
}
