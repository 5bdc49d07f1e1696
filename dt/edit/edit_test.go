package edit_test

import (
	"testing"

	"github.com/dtkit-go/dtkit/dt/edit"
	"github.com/dtkit-go/dtkit/dt/index"
	"github.com/dtkit-go/dtkit/internal/dtformat"
	"github.com/stretchr/testify/require"
)

func TestAddChildDuplicateName(t *testing.T) {
	tr := edit.NewTree()
	_, err := tr.Root().AddChild("bus@0")
	require.NoError(t, err)
	_, err = tr.Root().AddChild("bus@0")
	require.ErrorIs(t, err, edit.ErrDuplicateChildName)
}

func TestSetAndDeleteProperty(t *testing.T) {
	tr := edit.NewTree()
	tr.Root().SetProperty("compatible", []byte("vendor,board\x00"))
	p, ok := tr.Root().FindProperty("compatible")
	require.True(t, ok)
	require.Equal(t, "vendor,board\x00", string(p.Value))

	tr.Root().SetProperty("compatible", []byte("vendor,board2\x00"))
	p, ok = tr.Root().FindProperty("compatible")
	require.True(t, ok)
	require.Equal(t, "vendor,board2\x00", string(p.Value))

	require.True(t, tr.Root().DeleteProperty("compatible"))
	_, ok = tr.Root().FindProperty("compatible")
	require.False(t, ok)
	require.False(t, tr.Root().DeleteProperty("compatible"))
}

func TestRemoveByPath(t *testing.T) {
	tr := edit.NewTree()
	bus, err := tr.Root().AddChild("bus@0")
	require.NoError(t, err)
	_, err = bus.AddChild("uart@1000")
	require.NoError(t, err)

	removed, err := tr.RemoveByPath("/bus@0/uart@1000")
	require.NoError(t, err)
	require.Equal(t, "uart@1000", removed.Name)

	_, err = tr.GetByPath("/bus@0/uart@1000")
	require.ErrorIs(t, err, edit.ErrPathNotFound)

	_, err = tr.RemoveByPath("/")
	require.ErrorIs(t, err, edit.ErrPathNotFound)
}

func TestEncodeRoundTripsThroughIndex(t *testing.T) {
	tr := edit.NewTree()
	tr.Root().SetProperty("#address-cells", u32Bytes(2))
	tr.Root().SetProperty("#size-cells", u32Bytes(1))
	tr.Reservations = []dtformat.Reservation{{Address: 0x1000, Size: 0x100}}

	bus, err := tr.Root().AddChild("bus@0")
	require.NoError(t, err)
	bus.SetProperty("#address-cells", u32Bytes(1))
	bus.SetProperty("#size-cells", u32Bytes(1))
	bus.SetProperty("ranges", []byte{})

	uart, err := bus.AddChild("uart@1000")
	require.NoError(t, err)
	uart.SetProperty("compatible", []byte("vendor,uart\x00"))
	uart.SetProperty("reg", append(u32Bytes(0x1000), u32Bytes(0x100)...))
	uart.SetProperty("empty-flag", nil)

	blob, err := edit.Encode(tr)
	require.NoError(t, err)

	idx, err := index.Build(blob, index.Options{})
	require.NoError(t, err)

	require.Len(t, idx.Reservations, 1)
	require.Equal(t, uint64(0x1000), idx.Reservations[0].Address)

	uartIdx, err := idx.GetByPath("/bus@0/uart@1000")
	require.NoError(t, err)
	uartNode := idx.Nodes[uartIdx]
	compat, ok := uartNode.FindProperty("compatible")
	require.True(t, ok)
	s, err := compat.AsString()
	require.NoError(t, err)
	require.Equal(t, "vendor,uart", s)

	flag, ok := uartNode.FindProperty("empty-flag")
	require.True(t, ok)
	require.True(t, flag.IsEmpty())
}

func u32Bytes(v uint32) []byte {
	b := make([]byte, 4)
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
	return b
}
