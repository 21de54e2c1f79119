package stream

import (
	"encoding/binary"
	"io"

	"github.com/nathoo/pakfs/types"
)

// Endian wraps a Stream with a fixed byte order for multi-byte reads.
// The underlying stream is owned by the wrapper.
type Endian struct {
	Stream
	order binary.ByteOrder
}

// NewEndian wraps s. mode is resolved against the platform default flag:
// PlatformEndian picks big-endian when bigEndianPlatform is set, ForceBE and
// ForceLE override it.
func NewEndian(s Stream, mode types.EndianMode, bigEndianPlatform bool) *Endian {
	big := bigEndianPlatform
	switch mode {
	case types.ForceBE:
		big = true
	case types.ForceLE:
		big = false
	}
	var order binary.ByteOrder = binary.LittleEndian
	if big {
		order = binary.BigEndian
	}
	return &Endian{Stream: s, order: order}
}

// BigEndian reports the effective byte order of the wrapper.
func (e *Endian) BigEndian() bool { return e.order == binary.BigEndian }

func (e *Endian) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(e.Stream, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (e *Endian) ReadUint16() (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(e.Stream, b[:]); err != nil {
		return 0, err
	}
	return e.order.Uint16(b[:]), nil
}

func (e *Endian) ReadUint32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(e.Stream, b[:]); err != nil {
		return 0, err
	}
	return e.order.Uint32(b[:]), nil
}
