package mediacodec

import "errors"

const (
	runMarker    = 0xFF
	minRunLength = 4
	maxRunLength = 255
)

// ErrCorruptRunLength is returned when an encoded stream ends inside a run or carries a
// zero-length run.
var ErrCorruptRunLength = errors.New("mediacodec: corrupt run-length stream")

// RunLength encodes runs of four or more equal bytes as {0xFF, count, byte}. A literal 0xFF
// is always written as a run so the stream stays decodable. When the encoding saves less
// than 5% the input is returned unchanged and applied is false.
func RunLength(data []byte) (out []byte, applied bool) {
	enc := make([]byte, 0, len(data))
	for i := 0; i < len(data); {
		b := data[i]
		n := 1
		for i+n < len(data) && data[i+n] == b && n < maxRunLength {
			n++
		}
		if n >= minRunLength || b == runMarker {
			enc = append(enc, runMarker, byte(n), b)
			i += n
			continue
		}
		enc = append(enc, b)
		i++
	}

	if float64(len(enc)) >= float64(len(data))*0.95 {
		return data, false
	}
	return enc, true
}

// ExpandRunLength reverses RunLength.
func ExpandRunLength(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)*2)
	for i := 0; i < len(data); i++ {
		if data[i] != runMarker {
			out = append(out, data[i])
			continue
		}
		if i+2 >= len(data) {
			return nil, ErrCorruptRunLength
		}
		n, b := int(data[i+1]), data[i+2]
		if n == 0 {
			return nil, ErrCorruptRunLength
		}
		for j := 0; j < n; j++ {
			out = append(out, b)
		}
		i += 2
	}
	return out, nil
}
