package stream

import (
	"bytes"
	"io"
	"testing"

	"github.com/nathoo/pakfs/types"
)

func TestConcatContinuity(t *testing.T) {
	// 0..29 split unevenly over three parts.
	all := make([]byte, 30)
	for i := range all {
		all[i] = byte(i)
	}
	c := NewConcat([]Stream{
		FromBytes(all[:7]),
		FromBytes(all[7:19]),
		FromBytes(all[19:]),
	})
	defer c.Close()

	if c.Size() != 30 {
		t.Fatalf("Size = %d, want 30", c.Size())
	}
	got, err := io.ReadAll(c)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, all) {
		t.Fatal("concatenated read must be byte-continuous")
	}
}

func TestConcatSeekAcrossBoundary(t *testing.T) {
	c := NewConcat([]Stream{
		FromBytes([]byte("abc")),
		FromBytes([]byte("defgh")),
	})
	defer c.Close()

	tests := []struct {
		off  int64
		n    int
		want string
	}{
		{0, 3, "abc"},
		{2, 3, "cde"}, // straddles the boundary
		{3, 5, "defgh"},
		{6, 2, "gh"},
	}
	for _, tt := range tests {
		if _, err := c.Seek(tt.off, io.SeekStart); err != nil {
			t.Fatalf("Seek(%d): %v", tt.off, err)
		}
		buf := make([]byte, tt.n)
		if _, err := io.ReadFull(c, buf); err != nil {
			t.Fatalf("read at %d: %v", tt.off, err)
		}
		if string(buf) != tt.want {
			t.Errorf("at %d: got %q, want %q", tt.off, buf, tt.want)
		}
	}

	if _, err := c.Seek(100, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Read(make([]byte, 1)); err != io.EOF {
		t.Fatalf("read past end: got %v, want EOF", err)
	}
}

func TestWindowBounds(t *testing.T) {
	src := FromBytes([]byte("xxxABCDEFyyy"))
	w := NewWindow(src, 3, 6)
	defer w.Close()

	if w.Size() != 6 {
		t.Fatalf("Size = %d, want 6", w.Size())
	}
	got, err := io.ReadAll(w)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "ABCDEF" {
		t.Fatalf("got %q, want ABCDEF", got)
	}

	if _, err := w.Seek(4, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 2)
	if _, err := io.ReadFull(w, buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != "EF" {
		t.Fatalf("got %q, want EF", buf)
	}
	if _, err := w.Read(buf); err != io.EOF {
		t.Fatalf("read at window end: got %v, want EOF", err)
	}
}

func TestWindowsShareSourcePosition(t *testing.T) {
	// Two sequential reads through one window interleaved with seeks on
	// the shared source must still see their own positions.
	src := FromBytes([]byte("0123456789"))
	w := NewWindow(src, 2, 6)
	defer w.Close()

	buf := make([]byte, 3)
	if _, err := io.ReadFull(w, buf); err != nil {
		t.Fatal(err)
	}
	src.Seek(0, io.SeekStart) // disturb the underlying position
	if _, err := io.ReadFull(w, buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != "567" {
		t.Fatalf("got %q, want 567", buf)
	}
}

func TestSectionIndependentPositions(t *testing.T) {
	data := []byte("ABCDEFGH")
	r := bytes.NewReader(data)

	a := NewSection(r, 0, 4, nil)
	b := NewSection(r, 4, 4, nil)

	bufA := make([]byte, 4)
	bufB := make([]byte, 4)
	if _, err := io.ReadFull(a, bufA); err != nil {
		t.Fatal(err)
	}
	if _, err := io.ReadFull(b, bufB); err != nil {
		t.Fatal(err)
	}
	if string(bufA) != "ABCD" || string(bufB) != "EFGH" {
		t.Fatalf("got %q and %q", bufA, bufB)
	}
}

func TestEndianModes(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}

	tests := []struct {
		name       string
		mode       types.EndianMode
		platformBE bool
		want32     uint32
	}{
		{"platform little", types.PlatformEndian, false, 0x04030201},
		{"platform big", types.PlatformEndian, true, 0x01020304},
		{"forced big on little platform", types.ForceBE, false, 0x01020304},
		{"forced little on big platform", types.ForceLE, true, 0x04030201},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEndian(FromBytes(data), tt.mode, tt.platformBE)
			v, err := e.ReadUint32()
			if err != nil {
				t.Fatal(err)
			}
			if v != tt.want32 {
				t.Fatalf("got %#08x, want %#08x", v, tt.want32)
			}
		})
	}
}
