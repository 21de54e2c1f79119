package stream

import (
	"errors"
	"fmt"
	"io"
)

// Section is a bounded Stream over a window [off, off+size) of an underlying
// io.ReaderAt. Multiple sections over the same source are independent: each
// keeps its own position. Closing a Section closes the optional owner handle
// it was created with.
type Section struct {
	src    io.ReaderAt
	off    int64
	size   int64
	pos    int64
	owner  io.Closer // closed by Close when non-nil
	closed bool
}

// NewSection creates a bounded view of src. owner may be nil; when set it is
// closed together with the section (typically the file handle backing src).
func NewSection(src io.ReaderAt, off, size int64, owner io.Closer) *Section {
	return &Section{src: src, off: off, size: size, owner: owner}
}

func (s *Section) Read(p []byte) (int, error) {
	if s.closed {
		return 0, io.ErrClosedPipe
	}
	if s.pos >= s.size {
		return 0, io.EOF
	}
	if max := s.size - s.pos; int64(len(p)) > max {
		p = p[:max]
	}
	n, err := s.src.ReadAt(p, s.off+s.pos)
	s.pos += int64(n)
	if err == io.EOF && s.pos < s.size {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

func (s *Section) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, io.ErrClosedPipe
	}
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = s.pos + offset
	case io.SeekEnd:
		target = s.size + offset
	default:
		return 0, errors.New("stream: invalid whence")
	}
	if target < 0 {
		return 0, fmt.Errorf("stream: seek to negative offset %d", target)
	}
	s.pos = target
	return target, nil
}

func (s *Section) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.owner != nil {
		return s.owner.Close()
	}
	return nil
}

func (s *Section) Size() int64 { return s.size }
