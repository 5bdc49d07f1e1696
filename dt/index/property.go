package index

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dtkit-go/dtkit/internal/dtbuf"
)

// Property is a (name, raw bytes) pair. Typed views are computed on demand
// from the raw bytes rather than cached, matching the raw layer's zero-copy
// posture: the indexed cache may borrow or copy property bytes, but the
// interpretation is always done at the call site.
type Property struct {
	Name  string
	Value []byte
}

// AsUint32 succeeds only if the raw length is exactly 4, decoding big-endian.
func (p Property) AsUint32() (uint32, error) {
	if len(p.Value) != 4 {
		return 0, fmt.Errorf("property %q: len %d: %w", p.Name, len(p.Value), ErrBadPropertyLength)
	}
	return dtbuf.U32(p.Value), nil
}

// AsUint64 succeeds only if the raw length is exactly 8, decoding big-endian.
func (p Property) AsUint64() (uint64, error) {
	if len(p.Value) != 8 {
		return 0, fmt.Errorf("property %q: len %d: %w", p.Name, len(p.Value), ErrBadPropertyLength)
	}
	return dtbuf.U64(p.Value), nil
}

// AsPhandle decodes a single 32-bit phandle reference; identical in shape to
// AsUint32 but named for call-site clarity.
func (p Property) AsPhandle() (uint32, error) {
	return p.AsUint32()
}

// AsString requires the raw bytes to end with exactly one NUL, contain no
// interior NUL, and be valid UTF-8; it returns the bytes before the NUL.
func (p Property) AsString() (string, error) {
	if len(p.Value) == 0 || p.Value[len(p.Value)-1] != 0 {
		return "", fmt.Errorf("property %q: %w", p.Name, ErrNotNulTerminated)
	}
	body := p.Value[:len(p.Value)-1]
	for _, b := range body {
		if b == 0 {
			return "", fmt.Errorf("property %q: interior nul: %w", p.Name, ErrNotNulTerminated)
		}
	}
	if !utf8.Valid(body) {
		return "", fmt.Errorf("property %q: %w", p.Name, ErrNotUTF8)
	}
	return string(body), nil
}

// AsStringList splits the raw bytes on NUL; the bytes must end with NUL and
// every resulting segment must be valid UTF-8.
func (p Property) AsStringList() ([]string, error) {
	if len(p.Value) == 0 || p.Value[len(p.Value)-1] != 0 {
		return nil, fmt.Errorf("property %q: %w", p.Name, ErrNotNulTerminated)
	}
	raw := strings.Split(string(p.Value[:len(p.Value)-1]), "\x00")
	for _, s := range raw {
		if !utf8.ValidString(s) {
			return nil, fmt.Errorf("property %q: %w", p.Name, ErrNotUTF8)
		}
	}
	return raw, nil
}

// AsCells requires the raw length to be a multiple of 4 and decodes it as a
// sequence of big-endian 32-bit cells.
func (p Property) AsCells() ([]uint32, error) {
	if len(p.Value)%4 != 0 {
		return nil, fmt.Errorf("property %q: len %d: %w", p.Name, len(p.Value), ErrBadPropertyLength)
	}
	out := make([]uint32, len(p.Value)/4)
	for i := range out {
		out[i] = dtbuf.U32(p.Value[i*4:])
	}
	return out, nil
}

// IsEmpty reports whether the property carries a zero-length value, which
// dt/dts renders as a bare boolean (`name;`) rather than `name = <...>;`.
func (p Property) IsEmpty() bool {
	return len(p.Value) == 0
}
