package archive

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/nathoo/pakfs/stream"
	"github.com/nathoo/pakfs/types"
)

// PakLoader reads Westwood PAK/APK packages: a table of
// {uint32 offset, zero-terminated name} records, closed by a record whose
// offset equals the file size. Member sizes are derived from consecutive
// offsets. DOS data stores the offsets little-endian, Amiga data big-endian;
// the loader tries both.
type PakLoader struct{}

func (l *PakLoader) CheckFilename(name types.CanonicalName) bool {
	n := name.String()
	return strings.HasSuffix(n, ".PAK") ||
		strings.HasSuffix(n, ".APK") ||
		strings.HasSuffix(n, ".VRM")
}

func (l *PakLoader) IsLoadable(name types.CanonicalName, s stream.Stream) bool {
	if _, err := parsePakIndex(s, binary.LittleEndian); err == nil {
		return true
	}
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return false
	}
	_, err := parsePakIndex(s, binary.BigEndian)
	return err == nil
}

func (l *PakLoader) Load(name types.CanonicalName, m Member, s stream.Stream) (Archive, error) {
	entries, err := parsePakIndex(s, binary.LittleEndian)
	if err != nil {
		if _, serr := s.Seek(0, io.SeekStart); serr != nil {
			return nil, serr
		}
		entries, err = parsePakIndex(s, binary.BigEndian)
	}
	if err != nil {
		return nil, err
	}

	arc := newIndexed(name, m)
	for _, e := range entries {
		arc.add(e.name, e.off, e.size)
	}
	return arc, nil
}

type pakEntry struct {
	name string
	off  int64
	size int64
}

// parsePakIndex reads the member table from the start of s. It fails on the
// first implausible value, which is what lets the caller distinguish byte
// orders: an index read with the wrong order produces offsets that are
// non-monotonic or out of range almost immediately.
func parsePakIndex(s stream.Stream, order binary.ByteOrder) ([]pakEntry, error) {
	fileSize := s.Size()
	br := bufio.NewReader(s)

	var entries []pakEntry
	var consumed int64 // bytes of index read so far
	firstOff := int64(-1)

	for {
		var raw uint32
		if err := binary.Read(br, order, &raw); err != nil {
			return nil, fmt.Errorf("%w: unterminated pak index", ErrCorrupt)
		}
		consumed += 4
		off := int64(raw)

		// End marker: an entry whose offset is the file size.
		if off == fileSize {
			break
		}
		if off <= 0 || off > fileSize {
			return nil, fmt.Errorf("%w: pak offset %d out of range", ErrCorrupt, off)
		}
		if n := len(entries); n > 0 && off <= entries[n-1].off {
			return nil, fmt.Errorf("%w: pak offsets not increasing", ErrCorrupt)
		}
		if firstOff < 0 {
			firstOff = off
		}

		name, err := br.ReadString(0)
		if err != nil {
			return nil, fmt.Errorf("%w: unterminated pak name", ErrCorrupt)
		}
		consumed += int64(len(name))
		name = name[:len(name)-1] // drop NUL
		if !plausibleMemberName(name) {
			return nil, fmt.Errorf("%w: implausible pak member name", ErrCorrupt)
		}

		if consumed > firstOff {
			return nil, fmt.Errorf("%w: pak index overruns first member", ErrCorrupt)
		}

		entries = append(entries, pakEntry{name: name, off: off})

		// Index region exhausted without an explicit end marker.
		if consumed == firstOff {
			break
		}
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty pak", ErrCorrupt)
	}
	for i := range entries {
		end := fileSize
		if i+1 < len(entries) {
			end = entries[i+1].off
		}
		entries[i].size = end - entries[i].off
	}
	return entries, nil
}

// plausibleMemberName accepts short printable ASCII names, the only kind
// that appears in real packages.
func plausibleMemberName(name string) bool {
	if len(name) == 0 || len(name) > 32 {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] <= ' ' || name[i] > '~' {
			return false
		}
	}
	return true
}
