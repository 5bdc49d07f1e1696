package dtformat

import (
	"bytes"
	"fmt"

	"github.com/dtkit-go/dtkit/internal/dtbuf"
)

// LookupString resolves a PROP name offset into the string block described
// by d, returning the bytes before the terminating NUL. It requires the
// offset to point at the first byte of a NUL-terminated string that fits
// entirely within the declared strings size.
func LookupString(b []byte, d Descriptor, nameOff uint32) (string, error) {
	base := d.StringsOff
	off, ok := dtbuf.AddOverflowSafe(base, int(nameOff))
	if !ok || off < base || off > d.StringsEnd {
		return "", fmt.Errorf("string offset %#x: %w", nameOff, ErrBadStringOffset)
	}
	region := b[off:d.StringsEnd]
	idx := bytes.IndexByte(region, 0)
	if idx < 0 {
		return "", fmt.Errorf("string offset %#x: unterminated: %w", nameOff, ErrBadStringOffset)
	}
	return string(region[:idx]), nil
}
