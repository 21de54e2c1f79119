package archive

import (
	"github.com/nathoo/pakfs/stream"
	"github.com/nathoo/pakfs/types"
)

// Mem is an Archive fully materialized in memory. Loaders that must
// decompress their whole payload up front (installer, INS, zip) produce
// one, and tests use it as a trivial fixture.
type Mem struct {
	name  types.CanonicalName
	files map[types.CanonicalName][]byte
}

// NewMem creates an empty in-memory archive with the given canonical name.
func NewMem(name types.CanonicalName) *Mem {
	return &Mem{name: name, files: make(map[types.CanonicalName][]byte)}
}

// Put stores data under the canonicalized name, replacing any previous
// content. The slice is not copied.
func (m *Mem) Put(name string, data []byte) {
	m.files[types.Canonical(name)] = data
}

func (m *Mem) Name() types.CanonicalName { return m.name }

func (m *Mem) Has(name types.CanonicalName) bool {
	_, ok := m.files[name]
	return ok
}

func (m *Mem) List(out []Member, pattern string) []Member {
	for _, n := range sortedNames(m.files) {
		if Match(n, pattern) {
			out = append(out, &memMember{arc: m, key: n})
		}
	}
	return out
}

func (m *Mem) Open(name types.CanonicalName) (stream.Stream, error) {
	data, ok := m.files[name]
	if !ok {
		return nil, ErrNotFound
	}
	return stream.FromBytes(data), nil
}

type memMember struct {
	arc *Mem
	key types.CanonicalName
}

func (m *memMember) Name() string { return m.key.String() }

func (m *memMember) Size() int64 { return int64(len(m.arc.files[m.key])) }

func (m *memMember) CreateReadStream() (stream.Stream, error) {
	return stream.FromBytes(m.arc.files[m.key]), nil
}
