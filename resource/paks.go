package resource

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/pakfs/logger"
	"github.com/nathoo/pakfs/stream"
	"github.com/nathoo/pakfs/types"
)

// LoadPakFile makes the named package's contents resolvable. The call is
// idempotent: a package already active in the normal or protected set is
// left alone. The package file itself is located through the active
// layers, so packages nested in other packages work.
func (r *Resource) LoadPakFile(filename string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadPakFile(filename)
}

func (r *Resource) loadPakFile(filename string) error {
	name := types.Canonical(filename)
	if r.archiveFiles.HasArchive(string(name)) || r.protectedFiles.HasArchive(string(name)) {
		return nil
	}

	m := r.files.GetMember(name)
	if m == nil {
		return fmt.Errorf("%w: package %s", ErrNotFound, filename)
	}
	arc, err := r.loadArchive(name, m)
	if err != nil {
		return fmt.Errorf("loading package %s: %w", filename, err)
	}
	r.archiveFiles.Add(string(name), arc, prioArchives, false)
	return nil
}

// LoadProtectedFiles activates every named package in the protected set.
// Protected packages survive UnloadPakFile and UnloadAllPakFiles. A single
// missing or unreadable package fails the whole call: the protected list
// is the title's required base data.
func (r *Resource) LoadProtectedFiles(filenames []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadProtectedFiles(filenames)
}

func (r *Resource) loadProtectedFiles(filenames []string) error {
	for _, filename := range filenames {
		name := types.Canonical(filename)
		m := r.files.GetMember(name)
		if m == nil {
			return fmt.Errorf("%w: protected package %s", ErrNotFound, filename)
		}
		arc, err := r.loadArchive(name, m)
		if err != nil {
			return fmt.Errorf("loading protected package %s: %w", filename, err)
		}
		r.protectedFiles.Add(string(name), arc, prioProtected, false)
	}
	return nil
}

// LoadFileList activates every package named in the given file table.
//
// The table is the binary index some titles ship alongside their data: a
// run of little-endian uint32 record offsets terminated by a zero entry,
// each record starting with a NUL-padded 12 byte filename. Only names
// ending in .PAK are packages; other records describe loose files and are
// skipped. A package missing on disk is tolerated with a warning, since
// demo releases ship truncated tables.
func (r *Resource) LoadFileList(listFile string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadFileList(listFile)
}

func (r *Resource) loadFileList(listFile string) error {
	s, err := r.files.Open(types.Canonical(listFile))
	if err != nil {
		return fmt.Errorf("file table %s: %w", listFile, err)
	}
	data, err := stream.ReadAll(s)
	s.Close()
	if err != nil {
		return fmt.Errorf("file table %s: %w", listFile, err)
	}

	for pos := 0; pos+4 <= len(data); pos += 4 {
		off := binary.LittleEndian.Uint32(data[pos:])
		if off == 0 {
			break
		}
		if int(off)+13 > len(data) {
			return fmt.Errorf("%w: file table %s: record offset %d out of range", ErrCorrupt, listFile, off)
		}
		name := cString(data[off : off+13])
		if !strings.HasSuffix(strings.ToUpper(name), ".PAK") {
			continue
		}
		if err := r.loadPakFile(name); err != nil {
			logger.Warn("file table entry skipped", "table", listFile, "pak", name, "err", err)
		}
	}
	return nil
}

// LoadFileNames activates a fixed list of packages, tolerating misses the
// same way LoadFileList does.
func (r *Resource) LoadFileNames(filenames []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, filename := range filenames {
		if err := r.loadPakFile(filename); err != nil {
			logger.Warn("package skipped", "pak", filename, "err", err)
		}
	}
}

// UnloadPakFile deactivates the named package. Protected packages are
// immune and the call on one is a no-op. With removeFromCache the parsed
// archive is also evicted, so a later LoadPakFile re-parses the container.
func (r *Resource) UnloadPakFile(filename string, removeFromCache bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := types.Canonical(filename)
	if r.protectedFiles.HasArchive(string(name)) {
		return
	}
	if !r.archiveFiles.Remove(string(name)) {
		return
	}
	r.dataCache.Purge()
	if removeFromCache {
		delete(r.cache, name)
	}
}

// UnloadAllPakFiles deactivates every normal package. Protected packages
// stay; the archive cache stays.
func (r *Resource) UnloadAllPakFiles() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unloadAllPakFiles()
}

func (r *Resource) unloadAllPakFiles() {
	r.archiveFiles.Clear()
	r.dataCache.Purge()
}

// IsInPakList reports whether the package is active, normal or protected.
func (r *Resource) IsInPakList(filename string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := string(types.Canonical(filename))
	return r.archiveFiles.HasArchive(name) || r.protectedFiles.HasArchive(name)
}

// PakList returns the names of all active packages, normal then protected.
func (r *Resource) PakList() []types.CanonicalName {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.archiveFiles.LayerNames()
	return append(out, r.protectedFiles.LayerNames()...)
}

// CacheList returns the names of all parsed archives in the cache.
func (r *Resource) CacheList() []types.CanonicalName {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.CanonicalName, 0, len(r.cache))
	for name := range r.cache {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// cString cuts b at the first NUL.
func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
