package archive

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/nathoo/pakfs/stream"
	"github.com/nathoo/pakfs/types"
)

// Installer payload compression methods.
const (
	installerStore = 0
	installerLZSS  = 1
)

// LoadInstaller parses the payload of a split compressed installer after
// its volumes have been concatenated into one continuous stream by the
// caller. Layout: uint16le file count, then per file
// {uint8 nameLen, name, uint8 method, uint32le compSize, uint32le rawSize},
// followed by the data blobs back to back in index order.
//
// The archive is fully materialized: install data is read once and each
// member decompressed eagerly. Any inconsistency is ErrCorrupt — the engine
// cannot start without its installer assets, so there is no partial result.
func LoadInstaller(name types.CanonicalName, s stream.Stream) (Archive, error) {
	var count uint16
	if err := binary.Read(s, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: installer header", ErrCorrupt)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: empty installer", ErrCorrupt)
	}

	type instEntry struct {
		name     string
		method   uint8
		compSize uint32
		rawSize  uint32
	}

	entries := make([]instEntry, count)
	for i := range entries {
		var nameLen uint8
		if err := binary.Read(s, binary.LittleEndian, &nameLen); err != nil {
			return nil, fmt.Errorf("%w: installer index", ErrCorrupt)
		}
		nameBuf := make([]byte, nameLen)
		if _, err := io.ReadFull(s, nameBuf); err != nil {
			return nil, fmt.Errorf("%w: installer index", ErrCorrupt)
		}
		if !plausibleMemberName(string(nameBuf)) {
			return nil, fmt.Errorf("%w: implausible installer member name", ErrCorrupt)
		}
		e := &entries[i]
		e.name = string(nameBuf)
		if err := binary.Read(s, binary.LittleEndian, &e.method); err != nil {
			return nil, fmt.Errorf("%w: installer index", ErrCorrupt)
		}
		if err := binary.Read(s, binary.LittleEndian, &e.compSize); err != nil {
			return nil, fmt.Errorf("%w: installer index", ErrCorrupt)
		}
		if err := binary.Read(s, binary.LittleEndian, &e.rawSize); err != nil {
			return nil, fmt.Errorf("%w: installer index", ErrCorrupt)
		}
	}

	arc := NewMem(name)
	for _, e := range entries {
		blob := make([]byte, e.compSize)
		if _, err := io.ReadFull(s, blob); err != nil {
			return nil, fmt.Errorf("%w: installer data for %s", ErrCorrupt, e.name)
		}

		switch e.method {
		case installerStore:
			if e.compSize != e.rawSize {
				return nil, fmt.Errorf("%w: stored size mismatch for %s", ErrCorrupt, e.name)
			}
			arc.Put(e.name, blob)
		case installerLZSS:
			raw, err := decompressLZSS(stream.FromBytes(blob), int64(e.rawSize))
			if err != nil {
				return nil, fmt.Errorf("decompressing %s: %w", e.name, err)
			}
			arc.Put(e.name, raw)
		default:
			return nil, fmt.Errorf("%w: unknown compression %d for %s", ErrCorrupt, e.method, e.name)
		}
	}
	return arc, nil
}
