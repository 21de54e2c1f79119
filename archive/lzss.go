package archive

import (
	"fmt"
	"io"

	"github.com/32bitkid/bitreader"
)

// decompressLZSS inflates the installer's LZSS variant: a bit stream of
// tokens, MSB first. A set flag bit is followed by an 8-bit literal; a
// clear flag bit by a 12-bit back-reference distance and a 4-bit length
// stored as length-3. Exactly rawSize bytes are produced.
func decompressLZSS(src io.Reader, rawSize int64) ([]byte, error) {
	br := bitreader.NewReader(src)
	out := make([]byte, 0, rawSize)

	for int64(len(out)) < rawSize {
		literal, err := br.Read1()
		if err != nil {
			return nil, fmt.Errorf("%w: lzss stream ends early", ErrCorrupt)
		}

		if literal {
			b, err := br.Read8(8)
			if err != nil {
				return nil, fmt.Errorf("%w: lzss literal truncated", ErrCorrupt)
			}
			out = append(out, b)
			continue
		}

		dist, err := br.Read16(12)
		if err != nil {
			return nil, fmt.Errorf("%w: lzss reference truncated", ErrCorrupt)
		}
		lenBits, err := br.Read8(4)
		if err != nil {
			return nil, fmt.Errorf("%w: lzss reference truncated", ErrCorrupt)
		}
		length := int(lenBits) + 3

		if dist == 0 || int(dist) > len(out) {
			return nil, fmt.Errorf("%w: lzss distance %d out of window", ErrCorrupt, dist)
		}

		// Byte-at-a-time copy: references may overlap their own output.
		pos := len(out) - int(dist)
		for i := 0; i < length && int64(len(out)) < rawSize; i++ {
			out = append(out, out[pos+i])
		}
	}

	return out, nil
}
