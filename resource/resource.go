// Package resource is the public facade of the pakfs layer: it composes
// the prioritized search set, the loader registry, and the archive cache
// into one surface the engine reads game data through.
//
// All operations are synchronous and complete before returning. The facade
// serializes cache mutation against lookup internally, so callers may issue
// concurrent reads.
package resource

import (
	"errors"
	"fmt"
	"io"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"

	"github.com/nathoo/pakfs/archive"
	"github.com/nathoo/pakfs/logger"
	"github.com/nathoo/pakfs/search"
	"github.com/nathoo/pakfs/stream"
	"github.com/nathoo/pakfs/types"
)

// Re-exported sentinels so callers rarely need the archive package.
var (
	ErrNotFound      = archive.ErrNotFound
	ErrFormatUnknown = archive.ErrFormatUnknown
	ErrCorrupt       = archive.ErrCorrupt
)

// Search layer priorities, mirroring the engine's fixed stack: the OS-path
// base layer always wins over package contents, installer archives sit
// between it and the protected set, plain archives come last. The override
// table may lift a single archive above everything.
const (
	prioOverride  = 4
	prioBase      = 3
	prioInstaller = 2
	prioProtected = 1
	prioArchives  = 0
)

// dataCacheSize bounds the decoded-file LRU on the facade.
const dataCacheSize = 128

// Resource locates, loads, and caches game archives for one title variant.
type Resource struct {
	mu sync.Mutex

	flags    types.GameFlags
	fs       afero.Fs
	gamePath string

	files          *search.Paths // root set: base dir + sub-sets below
	archiveFiles   *search.Paths // unloadable packages
	protectedFiles *search.Paths // immune to UnloadPakFile

	loaders *archive.Registry
	cache   map[types.CanonicalName]archive.Archive

	// scanned tracks archives Reset added directly to the root set so the
	// next Reset can retract them.
	scanned []string

	dataCache *lru.Cache[types.CanonicalName, []byte]

	bigEndian bool
}

// New builds a Resource over the game data directory at gamePath on fs.
// The base layer is indexed immediately; title-specific sub-directories
// ("runtime", "malcolm", "data") join it according to flags. Archives are
// not loaded until Reset or LoadPakFile.
func New(fs afero.Fs, gamePath string, flags types.GameFlags) (*Resource, error) {
	base, err := archive.NewDir(fs, gamePath, 0)
	if err != nil {
		return nil, fmt.Errorf("resource: %w", err)
	}

	switch {
	case flags.Game == types.GameKyra1 && flags.Platform == types.PlatformMacintosh:
		if _, err := base.AddSubDirectory("runtime", 0); err != nil {
			return nil, fmt.Errorf("resource: %w", err)
		}
	case flags.Game == types.GameKyra3:
		if _, err := base.AddSubDirectory("malcolm", 0); err != nil {
			return nil, fmt.Errorf("resource: %w", err)
		}
	case flags.Game == types.GameLOL:
		if _, err := base.AddSubDirectory("data", 2); err != nil {
			return nil, fmt.Errorf("resource: %w", err)
		}
	}

	dc, err := lru.New[types.CanonicalName, []byte](dataCacheSize)
	if err != nil {
		return nil, err
	}

	r := &Resource{
		flags:          flags,
		fs:             fs,
		gamePath:       gamePath,
		files:          search.NewPaths("files"),
		archiveFiles:   search.NewPaths("archives"),
		protectedFiles: search.NewPaths("protected"),
		loaders:        archive.NewRegistry(),
		cache:          make(map[types.CanonicalName]archive.Archive),
		dataCache:      dc,
		bigEndian:      flags.Platform.BigEndian(),
	}

	r.files.Add("global_search", base, prioBase, false)
	// Installer archives join at prioInstaller during Reset, not here.
	r.files.Add("protected", r.protectedFiles, prioProtected, false)
	r.files.Add("archives", r.archiveFiles, prioArchives, false)

	return r, nil
}

// GameFlags returns the immutable variant description the facade serves.
func (r *Resource) GameFlags() types.GameFlags { return r.flags }

// Loaders exposes the registry so tools and tests can install extra
// loaders before any archive is opened.
func (r *Resource) Loaders() *archive.Registry { return r.loaders }

// loadArchive materializes the named archive through the loader registry,
// consulting the cache first. A given canonical name is parsed at most once
// per process; later requests return the cached instance. Caller holds mu.
func (r *Resource) loadArchive(name types.CanonicalName, m archive.Member) (archive.Archive, error) {
	if arc, ok := r.cache[name]; ok {
		return arc, nil
	}
	arc, err := r.loaders.Load(name, m)
	if err != nil {
		return nil, err
	}
	r.cache[name] = arc
	logger.Debug("archive cached", "name", name)
	return arc, nil
}

// CachedArchive returns the cached archive for the canonical name, or nil.
func (r *Resource) CachedArchive(name string) archive.Archive {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache[types.Canonical(name)]
}

// IsInCacheList reports whether an archive of that name is parsed and
// cached, active in a layer or not.
func (r *Resource) IsInCacheList(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.cache[types.Canonical(name)]
	return ok
}

// Exists reports whether the logical file resolves in any active layer.
func (r *Resource) Exists(file string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.files.Has(types.Canonical(file))
}

// MustExist is Exists with escalation: a miss comes back as an error for
// callers that cannot run without the file.
func (r *Resource) MustExist(file string) error {
	if !r.Exists(file) {
		return fmt.Errorf("%w: required file %s", ErrNotFound, file)
	}
	return nil
}

// FileSize returns the size of the logical file.
func (r *Resource) FileSize(file string) (int64, error) {
	s, err := r.CreateReadStream(file)
	if err != nil {
		return 0, err
	}
	defer s.Close()
	return s.Size(), nil
}

// FileData reads the whole logical file into a fresh buffer owned by the
// caller. Small results are kept in an LRU so repeated reads of the same
// decoded file skip the archive; the cached copy is never aliased out.
func (r *Resource) FileData(file string) ([]byte, error) {
	key := types.Canonical(file)

	r.mu.Lock()
	if data, ok := r.dataCache.Get(key); ok {
		r.mu.Unlock()
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}
	r.mu.Unlock()

	s, err := r.CreateReadStream(file)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	data, err := stream.ReadAll(s)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}

	r.mu.Lock()
	kept := make([]byte, len(data))
	copy(kept, data)
	r.dataCache.Add(key, kept)
	r.mu.Unlock()

	return data, nil
}

// LoadFileToBuf fills buf from the logical file. The buffer is zero-filled
// first, then min(len(buf), file size) bytes are copied: callers that rely
// on implicit zero padding of undersized files keep that behavior, and an
// oversized file is truncated without overrun.
func (r *Resource) LoadFileToBuf(file string, buf []byte) error {
	s, err := r.CreateReadStream(file)
	if err != nil {
		return err
	}
	defer s.Close()

	for i := range buf {
		buf[i] = 0
	}
	n := int64(len(buf))
	if sz := s.Size(); sz < n {
		n = sz
	}
	_, err = io.ReadFull(s, buf[:n])
	return err
}

// CreateReadStream opens a fresh stream over the logical file. A miss is
// ErrNotFound; an underlying open failure is returned wrapped and logged
// separately so the two are distinguishable in the logs.
func (r *Resource) CreateReadStream(file string) (stream.Stream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := types.Canonical(file)
	s, err := r.files.Open(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Debug("file not found", "file", key)
		} else {
			logger.Warn("file open failed", "file", key, "err", err)
		}
		return nil, err
	}
	return s, nil
}

// CreateEndianAwareReadStream opens the logical file wrapped in a byte
// order interpreter. PlatformEndian resolves to the title platform's
// native order.
func (r *Resource) CreateEndianAwareReadStream(file string, mode types.EndianMode) (*stream.Endian, error) {
	s, err := r.CreateReadStream(file)
	if err != nil {
		return nil, err
	}
	return stream.NewEndian(s, mode, r.bigEndian), nil
}

// ListFiles returns handles for every logical file matching the glob
// pattern across all active layers.
func (r *Resource) ListFiles(pattern string) []archive.Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.files.List(nil, pattern)
}
