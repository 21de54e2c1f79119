package archive

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/nathoo/pakfs/stream"
	"github.com/nathoo/pakfs/types"
)

// ZipLoader accepts standard zip files, letting repacked or fan-translated
// data sets ship as ordinary zips instead of native packages. The central
// directory is parsed at load time; member bytes are inflated per Open.
type ZipLoader struct{}

var zipMagic = []byte{'P', 'K', 0x03, 0x04}

func (l *ZipLoader) CheckFilename(name types.CanonicalName) bool {
	return strings.HasSuffix(name.String(), ".ZIP")
}

func (l *ZipLoader) IsLoadable(name types.CanonicalName, s stream.Stream) bool {
	var magic [4]byte
	if _, err := io.ReadFull(s, magic[:]); err != nil {
		return false
	}
	return bytes.Equal(magic[:], zipMagic)
}

func (l *ZipLoader) Load(name types.CanonicalName, m Member, s stream.Stream) (Archive, error) {
	// zip needs random access; pull the container into memory once.
	data, err := io.ReadAll(s)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	arc := &zipArchive{
		name:  name,
		files: make(map[types.CanonicalName]*zip.File),
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		arc.files[types.Canonical(f.Name)] = f
	}
	return arc, nil
}

type zipArchive struct {
	name  types.CanonicalName
	files map[types.CanonicalName]*zip.File
}

func (a *zipArchive) Name() types.CanonicalName { return a.name }

func (a *zipArchive) Has(name types.CanonicalName) bool {
	_, ok := a.files[name]
	return ok
}

func (a *zipArchive) List(out []Member, pattern string) []Member {
	for _, n := range sortedNames(a.files) {
		if Match(n, pattern) {
			out = append(out, &zipMember{arc: a, key: n})
		}
	}
	return out
}

func (a *zipArchive) Open(name types.CanonicalName) (stream.Stream, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, ErrNotFound
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return stream.FromBytes(data), nil
}

type zipMember struct {
	arc *zipArchive
	key types.CanonicalName
}

func (m *zipMember) Name() string { return m.key.String() }

func (m *zipMember) Size() int64 {
	return int64(m.arc.files[m.key].UncompressedSize64)
}

func (m *zipMember) CreateReadStream() (stream.Stream, error) {
	return m.arc.Open(m.key)
}
