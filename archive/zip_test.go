package archive

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/nathoo/pakfs/types"
)

func buildZipImage(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestZipLoader(t *testing.T) {
	img := buildZipImage(t, map[string]string{
		"intro.cps": "picture",
		"room.dat":  "room",
	})
	m := &byteMember{name: "PATCH.ZIP", data: img}

	var l ZipLoader
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
	if got := readMember(t, arc, "INTRO.CPS"); string(got) != "picture" {
		t.Errorf("INTRO.CPS: got %q", got)
	}
	if !arc.Has("ROOM.DAT") {
		t.Error("member names should be canonicalized")
	}
}

func TestZipLoaderRejectsNonZip(t *testing.T) {
	var l ZipLoader
	m := &byteMember{name: "FAKE.ZIP", data: []byte("not a zip at all")}
	s, _ := m.CreateReadStream()
	defer s.Close()
	if l.IsLoadable(types.Canonical(m.name), s) {
		t.Fatal("IsLoadable accepted non-zip content")
	}
}
