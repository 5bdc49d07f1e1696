package binding

import (
	"fmt"

	"github.com/dtkit-go/dtkit/dt/index"
)

// MemoryRegion is one decoded (address, size) entry of a memory node's
// `reg` property.
type MemoryRegion struct {
	Address uint64
	Size    uint64
}

// MemoryNode pairs a memory node's path with its decoded regions.
type MemoryNode struct {
	Path    string
	Regions []MemoryRegion
}

// MemoryRegions returns every node whose `device_type` is exactly "memory",
// per spec.md §4.10; nodes failing that check are not classified as memory
// nodes even if their name matches `memory@*`. Regions use the node's
// inherited AddressCells/SizeCells, same as Reg, but are not translated
// through ranges: a memory node's reg is already expressed in the root's
// address space by convention.
func MemoryRegions(idx *index.Index) ([]MemoryNode, error) {
	var out []MemoryNode
	for i := range idx.Nodes {
		n := &idx.Nodes[i]
		dt, ok := n.FindProperty("device_type")
		if !ok {
			continue
		}
		s, err := dt.AsString()
		if err != nil || s != "memory" {
			continue
		}
		regProp, ok := n.FindProperty("reg")
		if !ok {
			out = append(out, MemoryNode{Path: n.Path})
			continue
		}
		aCells, sCells := int(n.AddressCells), int(n.SizeCells)
		width := aCells + sCells
		if width == 0 {
			return nil, fmt.Errorf("memory node %q: zero-width reg: %w", n.Path, ErrBadPropertyLength)
		}
		cells, err := regProp.AsCells()
		if err != nil {
			return nil, fmt.Errorf("memory node %q: %w", n.Path, err)
		}
		if len(cells)%width != 0 {
			return nil, fmt.Errorf("memory node %q: %d cells not a multiple of %d: %w", n.Path, len(cells), width, ErrBadPropertyLength)
		}
		mn := MemoryNode{Path: n.Path}
		for pos := 0; pos+width <= len(cells); pos += width {
			addr, err := cellsToU64(cells[pos : pos+aCells])
			if err != nil {
				return nil, fmt.Errorf("memory node %q: address: %w", n.Path, err)
			}
			size, err := cellsToU64(cells[pos+aCells : pos+width])
			if err != nil {
				return nil, fmt.Errorf("memory node %q: size: %w", n.Path, err)
			}
			mn.Regions = append(mn.Regions, MemoryRegion{Address: addr, Size: size})
		}
		out = append(out, mn)
	}
	return out, nil
}
