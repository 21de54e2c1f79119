package resource

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/spf13/afero"
)

type pakFixture struct {
	name string
	data []byte
}

// buildPak produces a little-endian package image: offset/name index, end
// marker carrying the file size, then the member data back to back.
func buildPak(members []pakFixture) []byte {
	indexSize := 4 // end marker
	dataSize := 0
	for _, m := range members {
		indexSize += 4 + len(m.name) + 1
		dataSize += len(m.data)
	}
	fileSize := indexSize + dataSize

	var buf bytes.Buffer
	off := indexSize
	for _, m := range members {
		binary.Write(&buf, binary.LittleEndian, uint32(off))
		buf.WriteString(m.name)
		buf.WriteByte(0)
		off += len(m.data)
	}
	binary.Write(&buf, binary.LittleEndian, uint32(fileSize))
	for _, m := range members {
		buf.Write(m.data)
	}
	return buf.Bytes()
}

// buildInstaller produces an installer payload with every member stored
// uncompressed.
func buildInstaller(members []pakFixture) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(len(members)))
	for _, m := range members {
		buf.WriteByte(byte(len(m.name)))
		buf.WriteString(m.name)
		buf.WriteByte(0) // stored
		binary.Write(&buf, binary.LittleEndian, uint32(len(m.data)))
		binary.Write(&buf, binary.LittleEndian, uint32(len(m.data)))
	}
	for _, m := range members {
		buf.Write(m.data)
	}
	return buf.Bytes()
}

// buildFileTable produces a file list index: offset table terminated by a
// zero entry, then 16 byte records holding NUL padded names.
func buildFileTable(names []string) []byte {
	tableSize := 4 * (len(names) + 1)
	var buf bytes.Buffer
	for i := range names {
		binary.Write(&buf, binary.LittleEndian, uint32(tableSize+i*16))
	}
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	for _, name := range names {
		rec := make([]byte, 16)
		copy(rec, name)
		buf.Write(rec)
	}
	return buf.Bytes()
}

func writeGameFile(t *testing.T, fs afero.Fs, path string, data []byte) {
	t.Helper()
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
}
