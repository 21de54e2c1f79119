package stream

import (
	"errors"
	"io"
)

// Window restricts an owned Stream to the range [off, off+size), exposing it
// as a stream of its own that starts at position 0. Unlike Section it does
// not need an io.ReaderAt, so it can bound streams that are only seekable,
// such as a Concat. The wrapped stream must not be used elsewhere.
type Window struct {
	src    Stream
	off    int64
	size   int64
	pos    int64
	closed bool
}

// NewWindow bounds src to size bytes starting at off. Ownership of src
// transfers to the window.
func NewWindow(src Stream, off, size int64) *Window {
	return &Window{src: src, off: off, size: size}
}

func (w *Window) Read(p []byte) (int, error) {
	if w.closed {
		return 0, io.ErrClosedPipe
	}
	if w.pos >= w.size {
		return 0, io.EOF
	}
	if _, err := w.src.Seek(w.off+w.pos, io.SeekStart); err != nil {
		return 0, err
	}
	if max := w.size - w.pos; int64(len(p)) > max {
		p = p[:max]
	}
	n, err := w.src.Read(p)
	w.pos += int64(n)
	if err == io.EOF && w.pos < w.size {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

func (w *Window) Seek(offset int64, whence int) (int64, error) {
	if w.closed {
		return 0, io.ErrClosedPipe
	}
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = w.pos + offset
	case io.SeekEnd:
		target = w.size + offset
	default:
		return 0, errors.New("stream: invalid whence")
	}
	if target < 0 {
		return 0, errors.New("stream: seek before start")
	}
	w.pos = target
	return target, nil
}

func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.src.Close()
}

func (w *Window) Size() int64 { return w.size }
