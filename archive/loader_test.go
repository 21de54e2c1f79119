package archive

import (
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/pakfs/stream"
	"github.com/nathoo/pakfs/types"
)

// byteMember is an in-memory Member for loader tests.
type byteMember struct {
	name string
	data []byte
}

func (m *byteMember) Name() string { return m.name }
func (m *byteMember) Size() int64  { return int64(len(m.data)) }
func (m *byteMember) CreateReadStream() (stream.Stream, error) {
	return stream.FromBytes(m.data), nil
}

// probeLoader records what it observes during dispatch.
type probeLoader struct {
	suffix    string
	accept    bool
	sniffed   []byte // first byte seen by each IsLoadable call
	loadFirst byte   // first byte seen by Load
	loaded    int
}

func (l *probeLoader) CheckFilename(name types.CanonicalName) bool {
	return strings.HasSuffix(name.String(), l.suffix)
}

func (l *probeLoader) IsLoadable(name types.CanonicalName, s stream.Stream) bool {
	var b [1]byte
	if _, err := s.Read(b[:]); err != nil {
		return false
	}
	l.sniffed = append(l.sniffed, b[0])
	return l.accept
}

func (l *probeLoader) Load(name types.CanonicalName, m Member, s stream.Stream) (Archive, error) {
	var b [1]byte
	if _, err := s.Read(b[:]); err != nil {
		return nil, err
	}
	l.loadFirst = b[0]
	l.loaded++
	return NewMem(name), nil
}

func TestRegistryFallbackRewindsStream(t *testing.T) {
	reject := &probeLoader{suffix: ".DAT", accept: false}
	accept := &probeLoader{suffix: ".DAT", accept: true}
	reg := NewRegistry()
	reg.Register(reject)
	reg.Register(accept)

	m := &byteMember{name: "X.DAT", data: []byte{0x42, 0x43, 0x44}}
	if _, err := reg.Load(types.Canonical(m.name), m); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// The first loader consumed a byte and declined; the second must still
	// see the stream from byte 0, and so must Load after the accept.
	if len(reject.sniffed) != 1 || reject.sniffed[0] != 0x42 {
		t.Fatalf("rejecting loader sniffed %v, want [0x42]", reject.sniffed)
	}
	if len(accept.sniffed) != 1 || accept.sniffed[0] != 0x42 {
		t.Fatalf("accepting loader sniffed %v, want [0x42]", accept.sniffed)
	}
	if accept.loadFirst != 0x42 {
		t.Fatalf("Load saw first byte %#02x, want 0x42", accept.loadFirst)
	}
}

func TestRegistryFilenameGate(t *testing.T) {
	wrongExt := &probeLoader{suffix: ".TLK", accept: true}
	rightExt := &probeLoader{suffix: ".DAT", accept: true}
	reg := NewRegistry()
	reg.Register(wrongExt)
	reg.Register(rightExt)

	m := &byteMember{name: "X.DAT", data: []byte{1}}
	if _, err := reg.Load(types.Canonical(m.name), m); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(wrongExt.sniffed) != 0 {
		t.Fatal("loader with non-matching filename must not touch the stream")
	}
	if rightExt.loaded != 1 {
		t.Fatal("matching loader should have loaded")
	}
}

func TestRegistryNoLoaderMatches(t *testing.T) {
	reg := NewRegistry()
	m := &byteMember{name: "X.UNKNOWN", data: []byte{1, 2, 3}}
	_, err := reg.Load(types.Canonical(m.name), m)
	if !errors.Is(err, ErrFormatUnknown) {
		t.Fatalf("got %v, want ErrFormatUnknown", err)
	}
}

func TestRegistryContentOverridesExtension(t *testing.T) {
	// A file named like a package but with garbage content must fall
	// through every loader instead of being claimed by extension alone.
	reg := NewRegistry()
	m := &byteMember{name: "FAKE.PAK", data: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}}
	_, err := reg.Load(types.Canonical(m.name), m)
	if !errors.Is(err, ErrFormatUnknown) {
		t.Fatalf("got %v, want ErrFormatUnknown", err)
	}
}
