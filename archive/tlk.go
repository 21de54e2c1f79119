package archive

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/nathoo/pakfs/stream"
	"github.com/nathoo/pakfs/types"
)

// TlkLoader reads speech packages: a uint16le entry count followed by
// count pairs of {uint32le id, uint32le offset}. Each offset points at a
// uint32le payload size followed by the audio data. Members are exposed
// under synthesized "<id>.AUD" names.
type TlkLoader struct{}

func (l *TlkLoader) CheckFilename(name types.CanonicalName) bool {
	return strings.HasSuffix(name.String(), ".TLK")
}

func (l *TlkLoader) IsLoadable(name types.CanonicalName, s stream.Stream) bool {
	_, err := parseTlkIndex(s)
	return err == nil
}

func (l *TlkLoader) Load(name types.CanonicalName, m Member, s stream.Stream) (Archive, error) {
	entries, err := parseTlkIndex(s)
	if err != nil {
		return nil, err
	}

	arc := newIndexed(name, m)
	for _, e := range entries {
		// Payload starts after the embedded size field.
		arc.add(fmt.Sprintf("%d.AUD", e.id), e.off+4, e.size)
	}
	return arc, nil
}

type tlkEntry struct {
	id   uint32
	off  int64
	size int64
}

func parseTlkIndex(s stream.Stream) ([]tlkEntry, error) {
	fileSize := s.Size()

	var count uint16
	if err := binary.Read(s, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: tlk header", ErrCorrupt)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: empty tlk", ErrCorrupt)
	}
	indexEnd := int64(2 + 8*int64(count))
	if indexEnd > fileSize {
		return nil, fmt.Errorf("%w: tlk index exceeds file", ErrCorrupt)
	}

	entries := make([]tlkEntry, count)
	for i := range entries {
		var id, off uint32
		if err := binary.Read(s, binary.LittleEndian, &id); err != nil {
			return nil, fmt.Errorf("%w: tlk index", ErrCorrupt)
		}
		if err := binary.Read(s, binary.LittleEndian, &off); err != nil {
			return nil, fmt.Errorf("%w: tlk index", ErrCorrupt)
		}
		if int64(off) < indexEnd || int64(off)+4 > fileSize {
			return nil, fmt.Errorf("%w: tlk offset %d out of range", ErrCorrupt, off)
		}
		entries[i] = tlkEntry{id: id, off: int64(off)}
	}

	// Read the size prefix stored at each entry.
	for i := range entries {
		if _, err := s.Seek(entries[i].off, io.SeekStart); err != nil {
			return nil, err
		}
		var size uint32
		if err := binary.Read(s, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("%w: tlk entry size", ErrCorrupt)
		}
		if entries[i].off+4+int64(size) > fileSize {
			return nil, fmt.Errorf("%w: tlk entry overruns file", ErrCorrupt)
		}
		entries[i].size = int64(size)
	}
	return entries, nil
}
