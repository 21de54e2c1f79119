// Package stream provides the seekable read streams handed out by the
// resource layer: in-memory buffers, bounded sub-views of a larger source,
// byte-continuous concatenations of split files, and endian-aware wrappers.
package stream

import (
	"bytes"
	"io"
)

// Stream is a read-only seekable byte stream with a known size. Every
// stream returned by the resource layer starts positioned at offset 0 and
// is independent of any other stream over the same data.
type Stream interface {
	io.Reader
	io.Seeker
	io.Closer
	Size() int64
}

// Buffer is a Stream over an in-memory byte slice.
type Buffer struct {
	r    *bytes.Reader
	size int64
}

// FromBytes wraps b in a Stream. The slice is not copied.
func FromBytes(b []byte) *Buffer {
	return &Buffer{r: bytes.NewReader(b), size: int64(len(b))}
}

func (b *Buffer) Read(p []byte) (int, error) { return b.r.Read(p) }

func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	return b.r.Seek(offset, whence)
}

func (b *Buffer) Close() error { return nil }

func (b *Buffer) Size() int64 { return b.size }

// ReadAll reads the remaining content of s into a fresh buffer.
func ReadAll(s Stream) ([]byte, error) {
	return io.ReadAll(s)
}
