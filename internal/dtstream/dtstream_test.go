package dtstream_test

import (
	"encoding/binary"
	"testing"

	"github.com/dtkit-go/dtkit/internal/dtformat"
	"github.com/dtkit-go/dtkit/internal/dtstream"
	"github.com/stretchr/testify/require"
)

// buildBlob is a trimmed copy of the fixture builder in internal/dtformat,
// kept local so this package's tests do not depend on dtformat's test files.
func buildBlob(structBody, strings []byte) []byte {
	rsvmapOff := dtformat.HeaderSize
	rsvmapSize := dtformat.ReservationEntrySize
	structOff := rsvmapOff + rsvmapSize
	stringsOff := structOff + len(structBody)
	total := stringsOff + len(strings)

	blob := make([]byte, total)
	binary.BigEndian.PutUint32(blob[dtformat.OffMagic:], dtformat.Magic)
	binary.BigEndian.PutUint32(blob[dtformat.OffTotalSize:], uint32(total))
	binary.BigEndian.PutUint32(blob[dtformat.OffOffDtStruct:], uint32(structOff))
	binary.BigEndian.PutUint32(blob[dtformat.OffOffDtStrings:], uint32(stringsOff))
	binary.BigEndian.PutUint32(blob[dtformat.OffOffMemRsvmap:], uint32(rsvmapOff))
	binary.BigEndian.PutUint32(blob[dtformat.OffVersion:], dtformat.EncodeVersion)
	binary.BigEndian.PutUint32(blob[dtformat.OffLastCompVersion:], dtformat.EncodeLastCompVersion)
	binary.BigEndian.PutUint32(blob[dtformat.OffSizeDtStrings:], uint32(len(strings)))
	binary.BigEndian.PutUint32(blob[dtformat.OffSizeDtStruct:], uint32(len(structBody)))
	copy(blob[structOff:], structBody)
	copy(blob[stringsOff:], strings)
	return blob
}

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func paddedName(name string) []byte {
	b := append([]byte(name), 0)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

// buildAddrCellsTree constructs:
//
//	/ (#address-cells=2 default, no explicit prop)
//	  bus@0 (#address-cells=1, #size-cells=1)
//	    uart@1000 (reg = <0x1000 0x100>)
func buildAddrCellsTree(t *testing.T) []byte {
	t.Helper()
	strTab := []byte("#address-cells\x00#size-cells\x00reg\x00")
	addrOff := uint32(0)
	sizeOff := uint32(len("#address-cells\x00"))
	regOff := sizeOff + uint32(len("#size-cells\x00"))

	var s []byte
	s = append(s, u32(dtformat.TokenBeginNode)...)
	s = append(s, paddedName("")...)

	s = append(s, u32(dtformat.TokenBeginNode)...)
	s = append(s, paddedName("bus@0")...)
	s = append(s, u32(dtformat.TokenProp)...)
	s = append(s, u32(4)...)
	s = append(s, u32(addrOff)...)
	s = append(s, u32(1)...)
	s = append(s, u32(dtformat.TokenProp)...)
	s = append(s, u32(4)...)
	s = append(s, u32(sizeOff)...)
	s = append(s, u32(1)...)

	s = append(s, u32(dtformat.TokenBeginNode)...)
	s = append(s, paddedName("uart@1000")...)
	s = append(s, u32(dtformat.TokenProp)...)
	s = append(s, u32(8)...)
	s = append(s, u32(regOff)...)
	s = append(s, u32(0x1000)...)
	s = append(s, u32(0x100)...)
	s = append(s, u32(dtformat.TokenEndNode)...) // end uart@1000

	s = append(s, u32(dtformat.TokenEndNode)...) // end bus@0
	s = append(s, u32(dtformat.TokenEndNode)...) // end root
	s = append(s, u32(dtformat.TokenEnd)...)

	return buildBlob(s, strTab)
}

type captured struct {
	path         string
	depth        int
	addressCells uint32
	sizeCells    uint32
}

type recorder struct {
	data    []byte
	desc    dtformat.Descriptor
	entered []captured
}

func (r *recorder) Enter(ev dtstream.NodeEvent) error {
	r.entered = append(r.entered, captured{ev.Path, ev.Depth, ev.AddressCells, ev.SizeCells})
	return nil
}

func (r *recorder) Leave(dtstream.NodeEvent) error { return nil }

func TestWalkInheritsCellsFromParentNotGrandparent(t *testing.T) {
	blob := buildAddrCellsTree(t)
	desc, err := dtformat.ParseHeader(blob)
	require.NoError(t, err)

	rec := &recorder{data: blob, desc: desc}
	require.NoError(t, dtstream.Walk(blob, desc, rec))

	require.Equal(t, []captured{
		{"/", 0, 2, 1},
		{"/bus@0", 1, 2, 1},          // root never declared its own cells: default 2/1
		{"/bus@0/uart@1000", 2, 1, 1}, // bus@0 declared #address-cells=1 #size-cells=1
	}, rec.entered)
}

func TestPropertyCursorRestarts(t *testing.T) {
	blob := buildAddrCellsTree(t)
	desc, err := dtformat.ParseHeader(blob)
	require.NoError(t, err)

	var busEvent dtstream.NodeEvent
	rec := &captureVisitor{onEnter: func(ev dtstream.NodeEvent) {
		if ev.Path == "/bus@0" {
			busEvent = ev
		}
	}}
	require.NoError(t, dtstream.Walk(blob, desc, rec))

	cursor := busEvent.Properties(blob, desc)
	var names []string
	for {
		name, _, ok, err := cursor.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		names = append(names, name)
	}
	require.Equal(t, []string{"#address-cells", "#size-cells"}, names)

	// Restarting from the same saved offset yields the same sequence.
	cursor2 := busEvent.Properties(blob, desc)
	name, _, ok, err := cursor2.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "#address-cells", name)
}

type captureVisitor struct {
	onEnter func(dtstream.NodeEvent)
}

func (c *captureVisitor) Enter(ev dtstream.NodeEvent) error {
	c.onEnter(ev)
	return nil
}
func (c *captureVisitor) Leave(dtstream.NodeEvent) error { return nil }
