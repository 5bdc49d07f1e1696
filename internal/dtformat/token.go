package dtformat

import (
	"bytes"
	"fmt"

	"github.com/dtkit-go/dtkit/internal/dtbuf"
)

// Token is one structure-block token. Value and Name are slices/strings
// pointing into (or built from) the input blob; the scanner performs no
// allocation for tokens other than BEGIN_NODE/PROP name strings.
type Token struct {
	Kind    uint32
	Offset  int    // byte offset of the token code within the structure block
	Name    string // BEGIN_NODE node name, or PROP property name
	NameOff uint32 // PROP's raw name-table offset, for diagnostics
	Value   []byte // PROP payload, sliced from the blob, unpadded length
}

// Scanner is a stateless iterator over a structure block: all state lives in
// the Scanner value itself, and it performs no mutation of the underlying
// blob. Reject tokens that extend past the declared structure size, and
// resolve PROP name offsets eagerly so BadStringOffset surfaces at scan
// time rather than on first property access.
type Scanner struct {
	data []byte
	desc Descriptor
	pos  int
	end  int
	seen bool // true once TokenEnd token has been returned
}

// NewScanner returns a Scanner positioned at the start of the structure
// block described by desc.
func NewScanner(b []byte, desc Descriptor) *Scanner {
	return &Scanner{data: b, desc: desc, pos: desc.StructOff, end: desc.StructEnd}
}

// Pos returns the scanner's current byte offset, usable as a restart point
// for a property iterator (see internal/dtstream).
func (s *Scanner) Pos() int { return s.pos }

// Seek repositions the scanner to a previously observed offset. Callers must
// only seek to offsets returned by Pos, taken from the same blob.
func (s *Scanner) Seek(off int) { s.pos = off }

// Next returns the next token. ok is false once the structure block has been
// fully consumed (the END token has been returned and no bytes remain); a
// non-nil err always implies ok is false.
func (s *Scanner) Next() (tok Token, ok bool, err error) {
	if s.pos >= s.end {
		if !s.seen {
			return Token{}, false, fmt.Errorf("structure block: %w", ErrMissingEnd)
		}
		return Token{}, false, nil
	}
	if s.seen {
		return Token{}, false, fmt.Errorf("structure block at %#x: %w", s.pos, ErrTrailing)
	}
	if !dtbuf.Has(s.data, s.pos, 4) {
		return Token{}, false, fmt.Errorf("token code at %#x: %w", s.pos, ErrTruncated)
	}
	start := s.pos
	code := dtbuf.U32(s.data[s.pos:])
	s.pos += 4

	switch code {
	case TokenNop:
		return Token{Kind: TokenNop, Offset: start}, true, nil

	case TokenBeginNode:
		name, next, err := s.readNulName(s.pos)
		if err != nil {
			return Token{}, false, err
		}
		s.pos = next
		return Token{Kind: TokenBeginNode, Offset: start, Name: name}, true, nil

	case TokenEndNode:
		return Token{Kind: TokenEndNode, Offset: start}, true, nil

	case TokenProp:
		if !dtbuf.Has(s.data, s.pos, 8) {
			return Token{}, false, fmt.Errorf("prop header at %#x: %w", s.pos, ErrTruncated)
		}
		length := dtbuf.U32(s.data[s.pos:])
		nameOff := dtbuf.U32(s.data[s.pos+4:])
		s.pos += 8
		name, err := LookupString(s.data, s.desc, nameOff)
		if err != nil {
			return Token{}, false, err
		}
		value, ok := dtbuf.Slice(s.data, s.pos, int(length))
		if !ok {
			return Token{}, false, fmt.Errorf("prop value at %#x len %d: %w", s.pos, length, ErrTruncated)
		}
		padded := dtbuf.Align4(int(length))
		next := s.pos + padded
		if next > s.end {
			return Token{}, false, fmt.Errorf("prop padding at %#x: %w", s.pos, ErrTruncated)
		}
		s.pos = next
		return Token{Kind: TokenProp, Offset: start, Name: name, NameOff: nameOff, Value: value}, true, nil

	case TokenEnd:
		s.seen = true
		return Token{Kind: TokenEnd, Offset: start}, true, nil

	default:
		return Token{}, false, fmt.Errorf("code %#x at %#x: %w", code, start, ErrBadToken)
	}
}

// readNulName reads a NUL-terminated name starting at off, bounded by the
// structure block, and returns the name along with the next 4-byte-aligned
// cursor position (past the NUL).
func (s *Scanner) readNulName(off int) (string, int, error) {
	if off > s.end {
		return "", 0, fmt.Errorf("node name at %#x: %w", off, ErrTruncated)
	}
	region := s.data[off:s.end]
	idx := bytes.IndexByte(region, 0)
	if idx < 0 {
		return "", 0, fmt.Errorf("node name at %#x: unterminated: %w", off, ErrTruncated)
	}
	name := string(region[:idx])
	next := dtbuf.Align4(off + idx + 1)
	if next > s.end {
		return "", 0, fmt.Errorf("node name at %#x: %w", off, ErrTruncated)
	}
	return name, next, nil
}
