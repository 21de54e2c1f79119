package archive

import (
	"github.com/nathoo/pakfs/stream"
	"github.com/nathoo/pakfs/types"
)

// entry locates one member inside a container's byte source.
type entry struct {
	off  int64
	size int64
}

// indexed is a lazily-read Archive: only the member table lives in memory,
// member bytes are re-read from the source on every Open. PAK and TLK
// loaders produce these.
type indexed struct {
	name    types.CanonicalName
	src     Member
	entries map[types.CanonicalName]entry
}

func newIndexed(name types.CanonicalName, src Member) *indexed {
	return &indexed{
		name:    name,
		src:     src,
		entries: make(map[types.CanonicalName]entry),
	}
}

func (a *indexed) add(name string, off, size int64) {
	a.entries[types.Canonical(name)] = entry{off: off, size: size}
}

func (a *indexed) Name() types.CanonicalName { return a.name }

func (a *indexed) Has(name types.CanonicalName) bool {
	_, ok := a.entries[name]
	return ok
}

func (a *indexed) List(out []Member, pattern string) []Member {
	for _, n := range sortedNames(a.entries) {
		if Match(n, pattern) {
			out = append(out, &indexedMember{arc: a, key: n})
		}
	}
	return out
}

func (a *indexed) Open(name types.CanonicalName) (stream.Stream, error) {
	e, ok := a.entries[name]
	if !ok {
		return nil, ErrNotFound
	}
	src, err := a.src.CreateReadStream()
	if err != nil {
		return nil, err
	}
	return stream.NewWindow(src, e.off, e.size), nil
}

type indexedMember struct {
	arc *indexed
	key types.CanonicalName
}

func (m *indexedMember) Name() string { return m.key.String() }

func (m *indexedMember) Size() int64 { return m.arc.entries[m.key].size }

func (m *indexedMember) CreateReadStream() (stream.Stream, error) {
	return m.arc.Open(m.key)
}
