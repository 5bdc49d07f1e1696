package edit

import (
	"fmt"
	"math"

	"github.com/dtkit-go/dtkit/internal/dtbuf"
	"github.com/dtkit-go/dtkit/internal/dtformat"
)

// stringTable deduplicates property names into a single blob, byte-offset
// addressed, mirroring the string-interning step every FDT encoder needs
// before it can emit PROP tokens.
type stringTable struct {
	bytes []byte
	off   map[string]uint32
}

func newStringTable() *stringTable {
	return &stringTable{off: make(map[string]uint32)}
}

func (s *stringTable) intern(name string) (uint32, error) {
	if off, ok := s.off[name]; ok {
		return off, nil
	}
	off := uint64(len(s.bytes))
	if off > math.MaxUint32 {
		return 0, fmt.Errorf("interning %q at offset %d: %w", name, off, ErrStringTableOverflow)
	}
	s.off[name] = uint32(off)
	s.bytes = append(s.bytes, name...)
	s.bytes = append(s.bytes, 0)
	return uint32(off), nil
}

// Encode serializes t into a DTB blob following spec.md §4.11: a pre-walk
// interns every property name into a deduplicated string table, then a
// second walk emits the structure block (BEGIN_NODE/PROP/END_NODE/END, all
// tokens padded to 4 bytes), and finally header, reservation block,
// structure block and string block are concatenated. The output always
// uses version 17 / last-compatible-version 16 and carries no NOP tokens,
// regardless of what the tree was decoded from.
func Encode(t *Tree) ([]byte, error) {
	strs := newStringTable()
	var structBytes []byte
	if err := encodeNode(t.root, strs, &structBytes); err != nil {
		return nil, err
	}
	structBytes = appendU32(structBytes, dtformat.TokenEnd)

	rsvmapOff := dtformat.HeaderSize
	rsvmapSize := dtbuf.Align8((len(t.Reservations) + 1) * dtformat.ReservationEntrySize)
	structOff := rsvmapOff + rsvmapSize
	structSize := len(structBytes)
	stringsOff := structOff + structSize
	stringsSize := len(strs.bytes)
	total := stringsOff + stringsSize

	blob := make([]byte, total)
	dtbuf.PutU32(blob[dtformat.OffMagic:], dtformat.Magic)
	dtbuf.PutU32(blob[dtformat.OffTotalSize:], uint32(total))
	dtbuf.PutU32(blob[dtformat.OffOffDtStruct:], uint32(structOff))
	dtbuf.PutU32(blob[dtformat.OffOffDtStrings:], uint32(stringsOff))
	dtbuf.PutU32(blob[dtformat.OffOffMemRsvmap:], uint32(rsvmapOff))
	dtbuf.PutU32(blob[dtformat.OffVersion:], dtformat.EncodeVersion)
	dtbuf.PutU32(blob[dtformat.OffLastCompVersion:], dtformat.EncodeLastCompVersion)
	dtbuf.PutU32(blob[dtformat.OffBootCpuidPhys:], 0)
	dtbuf.PutU32(blob[dtformat.OffSizeDtStrings:], uint32(stringsSize))
	dtbuf.PutU32(blob[dtformat.OffSizeDtStruct:], uint32(structSize))

	pos := rsvmapOff
	for _, r := range t.Reservations {
		dtbuf.PutU64(blob[pos:], r.Address)
		dtbuf.PutU64(blob[pos+8:], r.Size)
		pos += dtformat.ReservationEntrySize
	}
	// Sentinel and any 8-byte padding introduced by Align8 are already
	// zero from make([]byte, ...).

	copy(blob[structOff:], structBytes)
	copy(blob[stringsOff:], strs.bytes)
	return blob, nil
}

func encodeNode(n *Node, strs *stringTable, out *[]byte) error {
	*out = appendU32(*out, dtformat.TokenBeginNode)
	*out = appendPaddedName(*out, n.Name)

	for _, p := range n.Properties {
		nameOff, err := strs.intern(p.Name)
		if err != nil {
			return err
		}
		*out = appendU32(*out, dtformat.TokenProp)
		*out = appendU32(*out, uint32(len(p.Value)))
		*out = appendU32(*out, nameOff)
		*out = append(*out, p.Value...)
		for len(*out)%4 != 0 {
			*out = append(*out, 0)
		}
	}

	for _, c := range n.Children {
		if err := encodeNode(c, strs, out); err != nil {
			return err
		}
	}

	*out = appendU32(*out, dtformat.TokenEndNode)
	return nil
}

func appendU32(b []byte, v uint32) []byte {
	tmp := make([]byte, 4)
	dtbuf.PutU32(tmp, v)
	return append(b, tmp...)
}

func appendPaddedName(b []byte, name string) []byte {
	b = append(b, name...)
	b = append(b, 0)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}
