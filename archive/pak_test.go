package archive

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/nathoo/pakfs/stream"
	"github.com/nathoo/pakfs/types"
)

type pakMemberFixture struct {
	name string
	data []byte
}

func buildPakImage(order binary.ByteOrder, members []pakMemberFixture) []byte {
	indexSize := 4
	dataSize := 0
	for _, m := range members {
		indexSize += 4 + len(m.name) + 1
		dataSize += len(m.data)
	}
	fileSize := indexSize + dataSize

	var buf bytes.Buffer
	off := indexSize
	for _, m := range members {
		binary.Write(&buf, order, uint32(off))
		buf.WriteString(m.name)
		buf.WriteByte(0)
		off += len(m.data)
	}
	binary.Write(&buf, order, uint32(fileSize))
	for _, m := range members {
		buf.Write(m.data)
	}
	return buf.Bytes()
}

func readMember(t *testing.T, arc Archive, name string) []byte {
	t.Helper()
	s, err := arc.Open(types.Canonical(name))
	if err != nil {
		t.Fatalf("Open(%s): %v", name, err)
	}
	defer s.Close()
	data, err := stream.ReadAll(s)
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return data
}

func TestPakLoaderByteOrders(t *testing.T) {
	members := []pakMemberFixture{
		{"INTRO.CPS", []byte("intro picture")},
		{"ROOM.DAT", []byte("room")},
		{"EMPTYISH", []byte("x")},
	}

	tests := []struct {
		name  string
		order binary.ByteOrder
	}{
		{"little endian", binary.LittleEndian},
		{"big endian", binary.BigEndian},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &byteMember{name: "TEST.PAK", data: buildPakImage(tt.order, members)}

			var l PakLoader
			s, _ := m.CreateReadStream()
			defer s.Close()
			if !l.IsLoadable(types.Canonical(m.name), s) {
				t.Fatal("IsLoadable = false, want true")
			}
			s.Seek(0, 0)

			arc, err := l.Load(types.Canonical(m.name), m, s)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			for _, want := range members {
				if got := readMember(t, arc, want.name); !bytes.Equal(got, want.data) {
					t.Errorf("%s: got %q, want %q", want.name, got, want.data)
				}
			}
			if arc.Has("NOPE.CPS") {
				t.Error("Has should reject unknown member")
			}
		})
	}
}

func TestPakLoaderRejectsCorruptIndex(t *testing.T) {
	good := buildPakImage(binary.LittleEndian, []pakMemberFixture{{"A.DAT", []byte("aaaa")}})

	tests := []struct {
		name   string
		mangle func([]byte) []byte
	}{
		{"truncated index", func(b []byte) []byte { return b[:3] }},
		{"offset past file size", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b, uint32(len(b)+100))
			return b
		}},
		{"name terminator destroyed", func(b []byte) []byte {
			b[9] = 'X' // the NUL after "A.DAT"
			return b
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mangle(append([]byte{}, good...))
			var l PakLoader
			s := stream.FromBytes(data)
			if l.IsLoadable("BAD.PAK", s) {
				t.Fatal("IsLoadable accepted corrupt image")
			}
		})
	}
}

func TestPakLoaderCheckFilename(t *testing.T) {
	var l PakLoader
	tests := []struct {
		file string
		want bool
	}{
		{"INTRO.PAK", true},
		{"CAVE.APK", true},
		{"CHAPTER1.VRM", true},
		{"SPEECH.TLK", false},
		{"README.TXT", false},
	}
	for _, tt := range tests {
		if got := l.CheckFilename(types.Canonical(tt.file)); got != tt.want {
			t.Errorf("CheckFilename(%s) = %v, want %v", tt.file, got, tt.want)
		}
	}
}
