package stream

import (
	"errors"
	"io"
)

// Concat presents a list of streams as one continuous Stream. Reads cross
// part boundaries with no gap and no duplicated byte: part i+1 begins at
// exactly the offset where part i ends. Closing the concat closes every
// part.
type Concat struct {
	parts  []Stream
	starts []int64 // starts[i] = logical offset of parts[i]
	size   int64
	pos    int64
	closed bool
}

// NewConcat builds a concatenated stream. The parts are used in order and
// owned by the returned stream.
func NewConcat(parts []Stream) *Concat {
	c := &Concat{parts: parts, starts: make([]int64, len(parts))}
	for i, p := range parts {
		c.starts[i] = c.size
		c.size += p.Size()
	}
	return c
}

// partAt returns the index of the part containing logical offset off,
// or -1 when off is at or past the end.
func (c *Concat) partAt(off int64) int {
	if off >= c.size {
		return -1
	}
	for i := len(c.parts) - 1; i >= 0; i-- {
		if off >= c.starts[i] {
			return i
		}
	}
	return -1
}

func (c *Concat) Read(p []byte) (int, error) {
	if c.closed {
		return 0, io.ErrClosedPipe
	}
	total := 0
	for len(p) > 0 {
		i := c.partAt(c.pos)
		if i < 0 {
			if total > 0 {
				return total, nil
			}
			return 0, io.EOF
		}
		part := c.parts[i]
		local := c.pos - c.starts[i]
		if _, err := part.Seek(local, io.SeekStart); err != nil {
			return total, err
		}
		want := part.Size() - local
		buf := p
		if int64(len(buf)) > want {
			buf = buf[:want]
		}
		n, err := part.Read(buf)
		c.pos += int64(n)
		total += n
		p = p[n:]
		if err != nil && err != io.EOF {
			return total, err
		}
		if n == 0 && err == io.EOF && c.pos < c.starts[i]+part.Size() {
			// Part claims bytes it cannot deliver.
			return total, io.ErrUnexpectedEOF
		}
	}
	return total, nil
}

func (c *Concat) Seek(offset int64, whence int) (int64, error) {
	if c.closed {
		return 0, io.ErrClosedPipe
	}
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = c.pos + offset
	case io.SeekEnd:
		target = c.size + offset
	default:
		return 0, errors.New("stream: invalid whence")
	}
	if target < 0 {
		return 0, errors.New("stream: seek before start")
	}
	c.pos = target
	return target, nil
}

func (c *Concat) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	var first error
	for _, p := range c.parts {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (c *Concat) Size() int64 { return c.size }
