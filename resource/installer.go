package resource

import (
	"fmt"

	"github.com/nathoo/pakfs/archive"
	"github.com/nathoo/pakfs/logger"
	"github.com/nathoo/pakfs/stream"
	"github.com/nathoo/pakfs/types"
)

// splitHeaderLen is the per-part header the split Macintosh installer
// carries; the payload starts past it in every part.
const splitHeaderLen = 100

// LoadInstallerArchive assembles a numbered multi-volume installer and
// activates it at installer priority. Volumes are named base.<ext> with
// ext produced by extFmt from 1 upward (e.g. "%03d" gives base.001,
// base.002, ...); discovery stops at the first missing volume. headerLen
// bytes are stripped from the front of each volume before the payloads
// are joined byte-continuously.
func (r *Resource) LoadInstallerArchive(base, extFmt string, headerLen int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadInstallerArchive(base, extFmt, headerLen)
}

func (r *Resource) loadInstallerArchive(base, extFmt string, headerLen int64) error {
	var parts []string
	for i := 1; ; i++ {
		part := fmt.Sprintf("%s.%s", base, fmt.Sprintf(extFmt, i))
		if r.files.GetMember(types.Canonical(part)) == nil {
			break
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return fmt.Errorf("%w: installer %s: no volumes", ErrNotFound, base)
	}

	arc, err := r.assembleInstaller(types.Canonical(base), parts, headerLen)
	if err != nil {
		return err
	}
	r.files.Add("installer", arc, prioInstaller, false)
	return nil
}

// loadSplitInstaller assembles the fixed five part Macintosh installer
// (base, base.2 .. base.5) and returns it without activating a layer; the
// caller decides how its contents join the search set.
func (r *Resource) loadSplitInstaller(base string) (archive.Archive, error) {
	parts := make([]string, 0, 5)
	for i := 1; i <= 5; i++ {
		if i == 1 {
			parts = append(parts, base)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s.%d", base, i))
	}
	return r.assembleInstaller(types.Canonical(base), parts, splitHeaderLen)
}

// assembleInstaller opens every named part, strips the per-part header,
// joins the payloads into one byte-continuous stream, and parses that as
// an installer archive. The result is cached under name, so reassembly
// is skipped on later calls. Caller holds mu.
func (r *Resource) assembleInstaller(name types.CanonicalName, partNames []string, headerLen int64) (archive.Archive, error) {
	if arc, ok := r.cache[name]; ok {
		return arc, nil
	}

	streams := make([]stream.Stream, 0, len(partNames))
	fail := func(err error) (archive.Archive, error) {
		for _, s := range streams {
			s.Close()
		}
		return nil, err
	}

	for _, part := range partNames {
		key := types.Canonical(part)
		s, err := r.files.Open(key)
		if err != nil {
			return fail(fmt.Errorf("installer %s: volume %s: %w", name, part, err))
		}
		if s.Size() <= headerLen {
			s.Close()
			return fail(fmt.Errorf("%w: installer %s: volume %s is %d bytes, need more than %d",
				ErrCorrupt, name, part, s.Size(), headerLen))
		}
		streams = append(streams, stream.NewWindow(s, headerLen, s.Size()-headerLen))
	}

	joined := stream.NewConcat(streams)
	arc, err := archive.LoadInstaller(name, joined)
	joined.Close()
	if err != nil {
		return nil, fmt.Errorf("installer %s: %w", name, err)
	}
	r.cache[name] = arc
	logger.Info("installer assembled", "name", name, "volumes", len(partNames))
	return arc, nil
}
