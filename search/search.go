// Package search composes archives and directories into one prioritized
// logical filesystem. A Paths holds named layers; lookups resolve to the
// highest-priority layer containing the name, with registration order
// breaking ties. A Paths is itself an Archive, so sets nest: the facade
// keeps its "protected" and "archives" groups as sub-sets of one root.
package search

import (
	"github.com/nathoo/pakfs/archive"
	"github.com/nathoo/pakfs/stream"
	"github.com/nathoo/pakfs/types"
)

// layer is one named, prioritized source in the set.
type layer struct {
	name        types.CanonicalName
	arc         archive.Archive
	priority    int
	autoDispose bool
	seq         int // registration order, for deterministic tie-breaks
}

// Paths is a prioritized union of archives. The zero value is not usable;
// create one with NewPaths.
type Paths struct {
	name    types.CanonicalName
	layers  []layer
	nextSeq int
}

// NewPaths creates an empty set with the given identity.
func NewPaths(name string) *Paths {
	return &Paths{name: types.Canonical(name)}
}

// Add registers arc as a layer. Higher priority wins on conflicting member
// names; among equal priorities the earlier registration wins. Adding a
// name that already exists replaces that layer in place, keeping its
// original position.
func (p *Paths) Add(name string, arc archive.Archive, priority int, autoDispose bool) {
	key := types.Canonical(name)
	for i := range p.layers {
		if p.layers[i].name == key {
			p.layers[i].arc = arc
			p.layers[i].priority = priority
			p.layers[i].autoDispose = autoDispose
			return
		}
	}
	p.layers = append(p.layers, layer{
		name:        key,
		arc:         arc,
		priority:    priority,
		autoDispose: autoDispose,
		seq:         p.nextSeq,
	})
	p.nextSeq++
}

// Remove detaches the named layer. The archive itself is untouched; it may
// still live in the facade's cache.
func (p *Paths) Remove(name string) bool {
	key := types.Canonical(name)
	for i := range p.layers {
		if p.layers[i].name == key {
			p.layers = append(p.layers[:i], p.layers[i+1:]...)
			return true
		}
	}
	return false
}

// HasArchive reports whether a layer with the given name is registered.
func (p *Paths) HasArchive(name string) bool {
	key := types.Canonical(name)
	for i := range p.layers {
		if p.layers[i].name == key {
			return true
		}
	}
	return false
}

// Clear drops every layer.
func (p *Paths) Clear() {
	p.layers = nil
}

// LayerNames returns the registered layer names in registration order.
func (p *Paths) LayerNames() []types.CanonicalName {
	names := make([]types.CanonicalName, len(p.layers))
	for i := range p.layers {
		names[i] = p.layers[i].name
	}
	return names
}

// resolve finds the winning layer for a member name, or nil.
func (p *Paths) resolve(name types.CanonicalName) *layer {
	var best *layer
	for i := range p.layers {
		l := &p.layers[i]
		if !l.arc.Has(name) {
			continue
		}
		// Strictly greater: equal priority keeps the earlier registration.
		if best == nil || l.priority > best.priority {
			best = l
		}
	}
	return best
}

// GetMember returns a handle to the winning copy of name, or nil.
func (p *Paths) GetMember(name types.CanonicalName) archive.Member {
	l := p.resolve(name)
	if l == nil {
		return nil
	}
	return &memberRef{arc: l.arc, key: name}
}

// Name implements archive.Archive for nested sets.
func (p *Paths) Name() types.CanonicalName { return p.name }

// Has implements archive.Archive.
func (p *Paths) Has(name types.CanonicalName) bool {
	return p.resolve(name) != nil
}

// List implements archive.Archive: the union of all layers' matches, each
// logical name appearing once, resolved through the normal priority rules.
func (p *Paths) List(out []archive.Member, pattern string) []archive.Member {
	seen := make(map[types.CanonicalName]bool)
	for i := range p.layers {
		var matches []archive.Member
		matches = p.layers[i].arc.List(matches, pattern)
		for _, m := range matches {
			key := types.Canonical(m.Name())
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, p.GetMember(key))
		}
	}
	return out
}

// Open implements archive.Archive: a fresh stream from the winning layer.
func (p *Paths) Open(name types.CanonicalName) (stream.Stream, error) {
	l := p.resolve(name)
	if l == nil {
		return nil, archive.ErrNotFound
	}
	return l.arc.Open(name)
}

// memberRef is a by-name handle into a specific archive. It holds no bytes
// and no stream; CreateReadStream opens fresh.
type memberRef struct {
	arc archive.Archive
	key types.CanonicalName
}

func (m *memberRef) Name() string { return m.key.String() }

// Size opens the member briefly to measure it.
func (m *memberRef) Size() int64 {
	s, err := m.arc.Open(m.key)
	if err != nil {
		return 0
	}
	defer s.Close()
	return s.Size()
}

func (m *memberRef) CreateReadStream() (stream.Stream, error) {
	return m.arc.Open(m.key)
}

var _ archive.Archive = (*Paths)(nil)
