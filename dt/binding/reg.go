package binding

import (
	"fmt"

	"github.com/dtkit-go/dtkit/dt/index"
)

// RegEntry is one decoded, address-translated entry of a node's `reg`
// property.
type RegEntry struct {
	CPUAddress uint64
	Size       uint64
}

// Reg decodes node nodeIdx's `reg` property using its parent's declared
// #address-cells/#size-cells (the inherited AddressCells/SizeCells already
// resolved onto the node by dt/index), then translates each address through
// TranslateAddress. A node with no `reg` property returns a nil slice, not
// an error.
func Reg(idx *index.Index, nodeIdx int) ([]RegEntry, error) {
	n := &idx.Nodes[nodeIdx]
	prop, ok := n.FindProperty("reg")
	if !ok {
		return nil, nil
	}

	aCells, sCells := int(n.AddressCells), int(n.SizeCells)
	width := aCells + sCells
	if width == 0 {
		return nil, fmt.Errorf("reg on %q: zero-width entry: %w", n.Path, ErrBadPropertyLength)
	}

	cells, err := prop.AsCells()
	if err != nil {
		return nil, fmt.Errorf("reg on %q: %w", n.Path, err)
	}
	if len(cells)%width != 0 {
		return nil, fmt.Errorf("reg on %q: %d cells not a multiple of %d: %w", n.Path, len(cells), width, ErrBadPropertyLength)
	}

	out := make([]RegEntry, 0, len(cells)/width)
	for i := 0; i+width <= len(cells); i += width {
		addr, err := cellsToU64(cells[i : i+aCells])
		if err != nil {
			return nil, fmt.Errorf("reg on %q: address: %w", n.Path, err)
		}
		size, err := cellsToU64(cells[i+aCells : i+width])
		if err != nil {
			return nil, fmt.Errorf("reg on %q: size: %w", n.Path, err)
		}
		translated, err := TranslateAddress(idx, nodeIdx, addr)
		if err != nil {
			return nil, fmt.Errorf("reg on %q: %w", n.Path, err)
		}
		out = append(out, RegEntry{CPUAddress: translated, Size: size})
	}
	return out, nil
}
