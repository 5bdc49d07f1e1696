package binding

import "github.com/dtkit-go/dtkit/dt/index"

const (
	defaultAddressCells = 2
	defaultSizeCells    = 1
	maxCellWords        = 2 // a #address-cells/#size-cells value above this cannot fit uint64
)

// ownAddressCells returns the #address-cells a node declares for its own
// children, defaulting to 2 when the property is absent, exactly as
// dtstream's walker does when computing inherited cell widths.
func ownAddressCells(n *index.Node) uint32 {
	if p, ok := n.FindProperty("#address-cells"); ok {
		if v, err := p.AsUint32(); err == nil {
			return v
		}
	}
	return defaultAddressCells
}

// ownSizeCells returns the #size-cells a node declares for its own children,
// defaulting to 1 when the property is absent.
func ownSizeCells(n *index.Node) uint32 {
	if p, ok := n.FindProperty("#size-cells"); ok {
		if v, err := p.AsUint32(); err == nil {
			return v
		}
	}
	return defaultSizeCells
}

// cellsToU64 packs up to two big-endian 32-bit cells into a uint64, the
// widest address or size this library represents.
func cellsToU64(cells []uint32) (uint64, error) {
	if len(cells) > maxCellWords {
		return 0, ErrOversizedCell
	}
	var v uint64
	for _, c := range cells {
		v = (v << 32) | uint64(c)
	}
	return v, nil
}
