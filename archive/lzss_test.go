package archive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/nathoo/pakfs/stream"
)

// bitWriter emits an MSB-first bit stream, the mirror of what the
// decompressor consumes.
type bitWriter struct {
	buf bytes.Buffer
	cur uint8
	n   uint
}

func (w *bitWriter) writeBits(v uint64, bits uint) {
	for i := int(bits) - 1; i >= 0; i-- {
		w.cur <<= 1
		if v&(1<<uint(i)) != 0 {
			w.cur |= 1
		}
		w.n++
		if w.n == 8 {
			w.buf.WriteByte(w.cur)
			w.cur, w.n = 0, 0
		}
	}
}

func (w *bitWriter) literal(b byte) {
	w.writeBits(1, 1)
	w.writeBits(uint64(b), 8)
}

func (w *bitWriter) reference(dist, length int) {
	w.writeBits(0, 1)
	w.writeBits(uint64(dist), 12)
	w.writeBits(uint64(length-3), 4)
}

func (w *bitWriter) bytes() []byte {
	out := w.buf.Bytes()
	if w.n > 0 {
		out = append(out, w.cur<<(8-w.n))
	}
	return out
}

func TestDecompressLZSS(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *bitWriter)
		want  []byte
	}{
		{
			"literals only",
			func(w *bitWriter) {
				for _, b := range []byte("HELLO") {
					w.literal(b)
				}
			},
			[]byte("HELLO"),
		},
		{
			"back reference",
			func(w *bitWriter) {
				w.literal('A')
				w.literal('B')
				w.reference(2, 4)
			},
			[]byte("ABABAB"),
		},
		{
			"overlapping run",
			func(w *bitWriter) {
				w.literal('A')
				w.reference(1, 8)
			},
			bytes.Repeat([]byte{'A'}, 9),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w bitWriter
			tt.write(&w)
			got, err := decompressLZSS(bytes.NewReader(w.bytes()), int64(len(tt.want)))
			if err != nil {
				t.Fatalf("decompressLZSS: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecompressLZSSBadDistance(t *testing.T) {
	var w bitWriter
	w.literal('A')
	w.reference(5, 4) // window only holds one byte

	_, err := decompressLZSS(bytes.NewReader(w.bytes()), 5)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("got %v, want ErrCorrupt", err)
	}
}

func TestDecompressLZSSTruncated(t *testing.T) {
	var w bitWriter
	w.literal('A')

	_, err := decompressLZSS(bytes.NewReader(w.bytes()), 100)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("got %v, want ErrCorrupt", err)
	}
}

func TestLoadInstallerCompressedMember(t *testing.T) {
	raw := []byte("the same phrase, the same phrase")
	var w bitWriter
	for _, b := range []byte("the same phrase, ") {
		w.literal(b)
	}
	w.reference(17, 15)
	blob := w.bytes()

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(2))

	buf.WriteByte(byte(len("PLAIN.TXT")))
	buf.WriteString("PLAIN.TXT")
	buf.WriteByte(installerStore)
	binary.Write(&buf, binary.LittleEndian, uint32(5))
	binary.Write(&buf, binary.LittleEndian, uint32(5))

	buf.WriteByte(byte(len("PACKED.TXT")))
	buf.WriteString("PACKED.TXT")
	buf.WriteByte(installerLZSS)
	binary.Write(&buf, binary.LittleEndian, uint32(len(blob)))
	binary.Write(&buf, binary.LittleEndian, uint32(len(raw)))

	buf.WriteString("plain")
	buf.Write(blob)

	arc, err := LoadInstaller("WESTWOOD", stream.FromBytes(buf.Bytes()))
	if err != nil {
		t.Fatalf("LoadInstaller: %v", err)
	}
	if got := readMember(t, arc, "PLAIN.TXT"); string(got) != "plain" {
		t.Errorf("PLAIN.TXT: got %q", got)
	}
	if got := readMember(t, arc, "PACKED.TXT"); !bytes.Equal(got, raw) {
		t.Errorf("PACKED.TXT: got %q, want %q", got, raw)
	}
}
