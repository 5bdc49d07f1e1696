package dtformat_test

import (
	"encoding/binary"
	"testing"

	"github.com/dtkit-go/dtkit/internal/dtformat"
	"github.com/stretchr/testify/require"
)

// buildBlob assembles a minimal well-formed DTB from a raw structure-block
// body and a string table, for use as fixtures in this package's tests. It
// does not use dt/edit (which depends on this package) — it pokes bytes
// directly, mirroring the bit layout in spec.md §6.
func buildBlob(t *testing.T, structBody []byte, strings []byte, reservations [][2]uint64) []byte {
	t.Helper()

	rsvmapOff := dtformat.HeaderSize
	rsvmapSize := (len(reservations) + 1) * dtformat.ReservationEntrySize
	structOff := rsvmapOff + rsvmapSize
	structSize := len(structBody)
	stringsOff := structOff + structSize
	stringsSize := len(strings)
	total := stringsOff + stringsSize

	blob := make([]byte, total)
	binary.BigEndian.PutUint32(blob[dtformat.OffMagic:], dtformat.Magic)
	binary.BigEndian.PutUint32(blob[dtformat.OffTotalSize:], uint32(total))
	binary.BigEndian.PutUint32(blob[dtformat.OffOffDtStruct:], uint32(structOff))
	binary.BigEndian.PutUint32(blob[dtformat.OffOffDtStrings:], uint32(stringsOff))
	binary.BigEndian.PutUint32(blob[dtformat.OffOffMemRsvmap:], uint32(rsvmapOff))
	binary.BigEndian.PutUint32(blob[dtformat.OffVersion:], dtformat.EncodeVersion)
	binary.BigEndian.PutUint32(blob[dtformat.OffLastCompVersion:], dtformat.EncodeLastCompVersion)
	binary.BigEndian.PutUint32(blob[dtformat.OffBootCpuidPhys:], 0)
	binary.BigEndian.PutUint32(blob[dtformat.OffSizeDtStrings:], uint32(stringsSize))
	binary.BigEndian.PutUint32(blob[dtformat.OffSizeDtStruct:], uint32(structSize))

	pos := rsvmapOff
	for _, r := range reservations {
		binary.BigEndian.PutUint64(blob[pos:], r[0])
		binary.BigEndian.PutUint64(blob[pos+8:], r[1])
		pos += 16
	}
	// sentinel
	binary.BigEndian.PutUint64(blob[pos:], 0)
	binary.BigEndian.PutUint64(blob[pos+8:], 0)

	copy(blob[structOff:], structBody)
	copy(blob[stringsOff:], strings)
	return blob
}

func appendU32(b []byte, v uint32) []byte {
	tmp := make([]byte, 4)
	binary.BigEndian.PutUint32(tmp, v)
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

// minimalStruct builds: root { compatible = "vendor,board";
// #address-cells = <2>; child@0 { }; }; end
func minimalStruct() (structBody, strTab []byte) {
	// string table: "compatible\0#address-cells\0"
	strTab = append(strTab, "compatible\x00"...)
	compatOff := uint32(0)
	strTab = append(strTab, "#address-cells\x00"...)
	addrCellsOff := uint32(len("compatible\x00"))

	var s []byte
	s = appendU32(s, dtformat.TokenBeginNode)
	s = appendPaddedName(s, "")
	// compatible = "vendor,board\0" (13 bytes)
	val := append([]byte("vendor,board"), 0)
	s = appendU32(s, dtformat.TokenProp)
	s = appendU32(s, uint32(len(val)))
	s = appendU32(s, compatOff)
	s = append(s, val...)
	for len(s)%4 != 0 {
		s = append(s, 0)
	}
	// #address-cells = <2>
	s = appendU32(s, dtformat.TokenProp)
	s = appendU32(s, 4)
	s = appendU32(s, addrCellsOff)
	s = appendU32(s, 2)
	// child node
	s = appendU32(s, dtformat.TokenBeginNode)
	s = appendPaddedName(s, "child@0")
	s = appendU32(s, dtformat.TokenEndNode)
	// end root
	s = appendU32(s, dtformat.TokenEndNode)
	s = appendU32(s, dtformat.TokenEnd)
	return s, strTab
}

func TestParseHeaderValid(t *testing.T) {
	structBody, strTab := minimalStruct()
	blob := buildBlob(t, structBody, strTab, nil)

	desc, err := dtformat.ParseHeader(blob)
	require.NoError(t, err)
	require.Equal(t, dtformat.Magic, desc.Header.Magic)
	require.Equal(t, uint32(dtformat.EncodeVersion), desc.Header.Version)
}

func TestParseHeaderBadMagic(t *testing.T) {
	structBody, strTab := minimalStruct()
	blob := buildBlob(t, structBody, strTab, nil)
	binary.BigEndian.PutUint32(blob[dtformat.OffMagic:], 0)

	_, err := dtformat.ParseHeader(blob)
	require.ErrorIs(t, err, dtformat.ErrBadMagic)
}

func TestParseHeaderTruncatedTotalSize(t *testing.T) {
	structBody, strTab := minimalStruct()
	blob := buildBlob(t, structBody, strTab, nil)
	binary.BigEndian.PutUint32(blob[dtformat.OffTotalSize:], uint32(len(blob)+1000))

	_, err := dtformat.ParseHeader(blob)
	require.ErrorIs(t, err, dtformat.ErrTruncated)
}

func TestParseHeaderUnalignedOffset(t *testing.T) {
	structBody, strTab := minimalStruct()
	blob := buildBlob(t, structBody, strTab, nil)
	binary.BigEndian.PutUint32(blob[dtformat.OffOffMemRsvmap:], 41)

	_, err := dtformat.ParseHeader(blob)
	require.ErrorIs(t, err, dtformat.ErrUnalignedOffset)
}

func TestReservationsSentinelOnly(t *testing.T) {
	structBody, strTab := minimalStruct()
	blob := buildBlob(t, structBody, strTab, nil)
	desc, err := dtformat.ParseHeader(blob)
	require.NoError(t, err)

	entries, err := dtformat.Reservations(blob, desc).All()
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestReservationsWithEntries(t *testing.T) {
	structBody, strTab := minimalStruct()
	blob := buildBlob(t, structBody, strTab, [][2]uint64{{0x1000, 0x2000}, {0x9000, 0x100}})
	desc, err := dtformat.ParseHeader(blob)
	require.NoError(t, err)

	entries, err := dtformat.Reservations(blob, desc).All()
	require.NoError(t, err)
	require.Equal(t, []dtformat.Reservation{
		{Address: 0x1000, Size: 0x2000},
		{Address: 0x9000, Size: 0x100},
	}, entries)
}

func TestScannerWalksTokens(t *testing.T) {
	structBody, strTab := minimalStruct()
	blob := buildBlob(t, structBody, strTab, nil)
	desc, err := dtformat.ParseHeader(blob)
	require.NoError(t, err)

	sc := dtformat.NewScanner(blob, desc)
	var kinds []uint32
	var names []string
	for {
		tok, ok, err := sc.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		kinds = append(kinds, tok.Kind)
		if tok.Kind == dtformat.TokenBeginNode || tok.Kind == dtformat.TokenProp {
			names = append(names, tok.Name)
		}
	}
	require.Equal(t, []uint32{
		dtformat.TokenBeginNode,
		dtformat.TokenProp,
		dtformat.TokenProp,
		dtformat.TokenBeginNode,
		dtformat.TokenEndNode,
		dtformat.TokenEndNode,
		dtformat.TokenEnd,
	}, kinds)
	require.Equal(t, []string{"", "compatible", "#address-cells", "child@0"}, names)
}

func TestScannerBadStringOffset(t *testing.T) {
	structBody, strTab := minimalStruct()
	// Corrupt the compatible property's name offset to point past the table.
	// BEGIN_NODE(4) + name pad(4) + PROP header(12) -> nameOff word at +8.
	binary.BigEndian.PutUint32(structBody[8+8:], uint32(len(strTab)+50))
	blob := buildBlob(t, structBody, strTab, nil)
	desc, err := dtformat.ParseHeader(blob)
	require.NoError(t, err)

	sc := dtformat.NewScanner(blob, desc)
	_, _, err = sc.Next() // BEGIN_NODE
	require.NoError(t, err)
	_, _, err = sc.Next() // PROP with bad name offset
	require.ErrorIs(t, err, dtformat.ErrBadStringOffset)
}

func TestScannerTrailingAfterEnd(t *testing.T) {
	structBody, strTab := minimalStruct()
	structBody = appendU32(structBody, dtformat.TokenNop)
	blob := buildBlob(t, structBody, strTab, nil)
	desc, err := dtformat.ParseHeader(blob)
	require.NoError(t, err)

	sc := dtformat.NewScanner(blob, desc)
	var lastErr error
	for {
		_, ok, err := sc.Next()
		if err != nil {
			lastErr = err
			break
		}
		if !ok {
			break
		}
	}
	require.ErrorIs(t, lastErr, dtformat.ErrTrailing)
}
