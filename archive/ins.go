package archive

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/nathoo/pakfs/stream"
	"github.com/nathoo/pakfs/types"
)

// InsLoader reads installer file-list containers: a CRLF-terminated list of
// member names closed by an empty line, followed by one {uint32le size,
// payload} record per listed name, in list order. The whole container is
// materialized at load time.
type InsLoader struct{}

func (l *InsLoader) CheckFilename(name types.CanonicalName) bool {
	n := name.String()
	return strings.HasSuffix(n, ".INS") || strings.HasSuffix(n, ".001")
}

func (l *InsLoader) IsLoadable(name types.CanonicalName, s stream.Stream) bool {
	// The first line must be a plausible member name ending in CRLF.
	br := bufio.NewReader(s)
	line, err := br.ReadString('\n')
	if err != nil {
		return false
	}
	if !strings.HasSuffix(line, "\r\n") {
		return false
	}
	return plausibleMemberName(strings.TrimSuffix(line, "\r\n"))
}

func (l *InsLoader) Load(name types.CanonicalName, m Member, s stream.Stream) (Archive, error) {
	br := bufio.NewReader(s)

	var names []string
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: ins name list", ErrCorrupt)
		}
		if !strings.HasSuffix(line, "\r\n") {
			return nil, fmt.Errorf("%w: ins name not CRLF terminated", ErrCorrupt)
		}
		line = strings.TrimSuffix(line, "\r\n")
		if line == "" {
			break // empty line closes the list
		}
		if !plausibleMemberName(line) {
			return nil, fmt.Errorf("%w: implausible ins member name", ErrCorrupt)
		}
		names = append(names, line)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: empty ins list", ErrCorrupt)
	}

	arc := NewMem(name)
	for _, n := range names {
		var size uint32
		if err := binary.Read(br, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("%w: ins record header for %s", ErrCorrupt, n)
		}
		data := make([]byte, size)
		if _, err := io.ReadFull(br, data); err != nil {
			return nil, fmt.Errorf("%w: ins record body for %s", ErrCorrupt, n)
		}
		arc.Put(n, data)
	}
	return arc, nil
}
