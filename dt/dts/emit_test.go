package dts_test

import (
	"strings"
	"testing"

	"github.com/dtkit-go/dtkit/dt/dts"
	"github.com/dtkit-go/dtkit/dt/edit"
	"github.com/dtkit-go/dtkit/dt/index"
	"github.com/stretchr/testify/require"
)

func u32Bytes(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func buildTestIndex(t *testing.T) *index.Index {
	t.Helper()
	tr := edit.NewTree()
	tr.Root().SetProperty("#address-cells", u32Bytes(1))
	tr.Root().SetProperty("compatible", append([]byte("vendor,a\x00"), []byte("vendor,b\x00")...))

	uart, err := tr.Root().AddChild("uart@1000")
	require.NoError(t, err)
	uart.SetProperty("reg", append(u32Bytes(0x1000), u32Bytes(0x100)...))
	uart.SetProperty("status", []byte("okay\x00"))
	uart.SetProperty("empty-flag", nil)

	blob, err := edit.Encode(tr)
	require.NoError(t, err)
	idx, err := index.Build(blob, index.Options{})
	require.NoError(t, err)
	return idx
}

func TestEmitProducesExpectedShape(t *testing.T) {
	idx := buildTestIndex(t)
	var buf strings.Builder
	require.NoError(t, dts.Emit(&buf, idx))
	out := buf.String()

	require.True(t, strings.HasPrefix(out, "/dts-v1/;\n"))
	require.Contains(t, out, "/ {\n")
	require.Contains(t, out, "  compatible = \"vendor,a\", \"vendor,b\";\n")
	require.Contains(t, out, "  uart@1000 {\n")
	require.Contains(t, out, "    reg = <0x1000 0x100>;\n")
	require.Contains(t, out, "    status = \"okay\";\n")
	require.Contains(t, out, "    empty-flag;\n")
	require.Contains(t, out, "  };\n")
	require.True(t, strings.HasSuffix(out, "};\n"))
}

func TestEmitRegWithTrailingZeroByteStaysCells(t *testing.T) {
	tr := edit.NewTree()
	tr.Root().SetProperty("#address-cells", u32Bytes(1))
	tr.Root().SetProperty("#size-cells", u32Bytes(1))
	dev, err := tr.Root().AddChild("dev@0")
	require.NoError(t, err)
	// 0x1000 and 0x100 both end in a zero byte, so the raw value ends in
	// NUL and splits into short byte runs that are trivially valid UTF-8 —
	// exactly the shape that could be mistaken for a two-entry string list.
	dev.SetProperty("reg", append(u32Bytes(0x1000), u32Bytes(0x100)...))

	blob, err := edit.Encode(tr)
	require.NoError(t, err)
	idx, err := index.Build(blob, index.Options{})
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, dts.Emit(&buf, idx))
	require.Contains(t, buf.String(), "reg = <0x1000 0x100>;\n")
}

func TestEmitByteArrayFallback(t *testing.T) {
	tr := edit.NewTree()
	tr.Root().SetProperty("odd-bytes", []byte{0x01, 0x02, 0x03})

	blob, err := edit.Encode(tr)
	require.NoError(t, err)
	idx, err := index.Build(blob, index.Options{})
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, dts.Emit(&buf, idx))
	require.Contains(t, buf.String(), "odd-bytes = [01 02 03];\n")
}

func TestEmitIsDeterministicAcrossReencode(t *testing.T) {
	idx1 := buildTestIndex(t)
	var first strings.Builder
	require.NoError(t, dts.Emit(&first, idx1))

	tr2 := edit.FromIndex(idx1)
	blob2, err := edit.Encode(tr2)
	require.NoError(t, err)
	idx2, err := index.Build(blob2, index.Options{})
	require.NoError(t, err)

	var second strings.Builder
	require.NoError(t, dts.Emit(&second, idx2))

	require.Equal(t, first.String(), second.String())
}
