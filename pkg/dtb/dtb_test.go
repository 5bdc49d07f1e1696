package dtb_test

import (
	"strings"
	"testing"

	"github.com/dtkit-go/dtkit/dt/edit"
	"github.com/dtkit-go/dtkit/internal/dtbuf"
	"github.com/dtkit-go/dtkit/pkg/dtb"
	"github.com/stretchr/testify/require"
)

func u32(v uint32) []byte {
	b := make([]byte, 4)
	dtbuf.PutU32(b, v)
	return b
}

func cells(vs ...uint32) []byte {
	var out []byte
	for _, v := range vs {
		out = append(out, u32(v)...)
	}
	return out
}

func cstr(s string) []byte { return append([]byte(s), 0) }

// Scenario A, through the public facade.
func TestFdtRegTranslation(t *testing.T) {
	tr := edit.NewTree()
	tr.Root().SetProperty("#address-cells", u32(2))
	tr.Root().SetProperty("#size-cells", u32(2))

	bus, err := tr.Root().AddChild("bus@0")
	require.NoError(t, err)
	bus.SetProperty("#address-cells", u32(1))
	bus.SetProperty("#size-cells", u32(1))
	bus.SetProperty("ranges", cells(0x0, 0x0, 0x80000000, 0x10000000))

	uart, err := bus.AddChild("uart@1000")
	require.NoError(t, err)
	uart.SetProperty("reg", cells(0x1000, 0x100))

	blob, err := edit.Encode(tr)
	require.NoError(t, err)
	f, err := dtb.FromBytes(blob)
	require.NoError(t, err)

	n, err := f.GetByPath("/bus@0/uart@1000")
	require.NoError(t, err)
	regs, err := n.Reg()
	require.NoError(t, err)
	require.Len(t, regs, 1)
	require.Equal(t, uint64(0x80001000), regs[0].CPUAddress)
	require.Equal(t, uint64(0x100), regs[0].Size)
}

// Scenario D — alias.
func TestFdtAliasResolution(t *testing.T) {
	tr := edit.NewTree()
	soc, err := tr.Root().AddChild("soc")
	require.NoError(t, err)
	_, err = soc.AddChild("uart@3000000")
	require.NoError(t, err)

	aliases, err := tr.Root().AddChild("aliases")
	require.NoError(t, err)
	aliases.SetProperty("serial0", cstr("/soc/uart@3000000"))

	blob, err := edit.Encode(tr)
	require.NoError(t, err)
	f, err := dtb.FromBytes(blob)
	require.NoError(t, err)

	byAlias, err := f.GetByPath("serial0")
	require.NoError(t, err)
	byPath, err := f.GetByPath("/soc/uart@3000000")
	require.NoError(t, err)
	require.Equal(t, byPath.FullPath(), byAlias.FullPath())
}

// Scenario E — round-trip.
func TestFdtRoundTripDtsIsStable(t *testing.T) {
	tr := edit.NewTree()
	tr.Root().SetProperty("compatible", cstr("vendor,board"))
	child, err := tr.Root().AddChild("uart@1000")
	require.NoError(t, err)
	child.SetProperty("reg", cells(0x1000, 0x100))
	child.SetProperty("status", cstr("okay"))

	blob, err := edit.Encode(tr)
	require.NoError(t, err)

	f1, err := dtb.FromBytes(blob)
	require.NoError(t, err)
	var first strings.Builder
	require.NoError(t, dtb.WriteDTS(&first, f1))

	reencoded, err := dtb.Encode(f1.Edit())
	require.NoError(t, err)
	f2, err := dtb.FromBytes(reencoded)
	require.NoError(t, err)
	var second strings.Builder
	require.NoError(t, dtb.WriteDTS(&second, f2))

	require.Equal(t, first.String(), second.String())
}

// Scenario F — malformed.
func TestFdtMalformedBlobs(t *testing.T) {
	tr := edit.NewTree()
	blob, err := edit.Encode(tr)
	require.NoError(t, err)

	badMagic := append([]byte(nil), blob...)
	for i := 0; i < 4; i++ {
		badMagic[i] = 0
	}
	_, err = dtb.FromBytes(badMagic)
	require.Error(t, err)
	var derr *dtb.Error
	require.ErrorAs(t, err, &derr)
	require.Equal(t, dtb.ErrKindBadMagic, derr.Kind)

	truncated := append([]byte(nil), blob...)
	dtbuf.PutU32(truncated[8:], uint32(len(truncated)+100)) // off_dt_struct
	_, err = dtb.FromBytes(truncated)
	require.Error(t, err)
	require.ErrorAs(t, err, &derr)
	require.Equal(t, dtb.ErrKindTruncated, derr.Kind)
}

func TestFdtChosenAndMemoryRegions(t *testing.T) {
	tr := edit.NewTree()
	tr.Root().SetProperty("#address-cells", u32(1))
	tr.Root().SetProperty("#size-cells", u32(1))

	chosen, err := tr.Root().AddChild("chosen")
	require.NoError(t, err)
	chosen.SetProperty("bootargs", cstr("console=ttyS0"))

	mem, err := tr.Root().AddChild("memory@0")
	require.NoError(t, err)
	mem.SetProperty("device_type", cstr("memory"))
	mem.SetProperty("reg", cells(0x0, 0x40000000))

	blob, err := edit.Encode(tr)
	require.NoError(t, err)
	f, err := dtb.FromBytes(blob)
	require.NoError(t, err)

	info, err := f.Chosen()
	require.NoError(t, err)
	require.Equal(t, "console=ttyS0", info.Bootargs)

	regions, err := f.MemoryRegions()
	require.NoError(t, err)
	require.Len(t, regions, 1)
	require.Equal(t, "/memory@0", regions[0].Path)
}
