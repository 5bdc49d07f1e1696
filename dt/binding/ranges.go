package binding

import (
	"fmt"

	"github.com/dtkit-go/dtkit/dt/index"
)

// RangeEntry is one decoded entry of a node's `ranges` property: a child-bus
// interval and the parent-bus address it maps onto.
type RangeEntry struct {
	ChildBase  uint64
	ParentBase uint64
	Size       uint64
}

// Ranges decodes node nodeIdx's own `ranges` property per spec.md §4.6: the
// child-bus address portion is sized by the node's own #address-cells (the
// bus it declares for its children), the parent-bus address portion by the
// node's inherited AddressCells (its parent's own #address-cells), and the
// length by the node's own #size-cells. present reports whether the
// property exists at all, distinguishing "absent" (no translation possible)
// from "present but empty" (identity translation) for TranslateAddress.
func Ranges(idx *index.Index, nodeIdx int) (entries []RangeEntry, present bool, err error) {
	n := &idx.Nodes[nodeIdx]
	prop, ok := n.FindProperty("ranges")
	if !ok {
		return nil, false, nil
	}
	if prop.IsEmpty() {
		return nil, true, nil
	}

	childCells := int(ownAddressCells(n))
	parentCells := int(n.AddressCells)
	sizeCells := int(ownSizeCells(n))
	width := childCells + parentCells + sizeCells
	if width == 0 {
		return nil, false, fmt.Errorf("ranges on %q: zero-width entry: %w", n.Path, ErrBadPropertyLength)
	}

	cells, err := prop.AsCells()
	if err != nil {
		return nil, false, fmt.Errorf("ranges on %q: %w", n.Path, err)
	}
	if len(cells)%width != 0 {
		return nil, false, fmt.Errorf("ranges on %q: %d cells not a multiple of %d: %w", n.Path, len(cells), width, ErrBadPropertyLength)
	}

	for i := 0; i+width <= len(cells); i += width {
		childBase, err := cellsToU64(cells[i : i+childCells])
		if err != nil {
			return nil, false, fmt.Errorf("ranges on %q: child address: %w", n.Path, err)
		}
		parentBase, err := cellsToU64(cells[i+childCells : i+childCells+parentCells])
		if err != nil {
			return nil, false, fmt.Errorf("ranges on %q: parent address: %w", n.Path, err)
		}
		size, err := cellsToU64(cells[i+childCells+parentCells : i+width])
		if err != nil {
			return nil, false, fmt.Errorf("ranges on %q: size: %w", n.Path, err)
		}
		entries = append(entries, RangeEntry{ChildBase: childBase, ParentBase: parentBase, Size: size})
	}
	return entries, true, nil
}

// TranslateAddress walks the ancestor chain from nodeIdx's parent up toward
// the root, applying each ancestor's own `ranges` property in turn, per
// spec.md §4.6. Absence of a `ranges` property on an ancestor stops the walk
// immediately, leaving addr as computed so far (pass-through). An empty
// `ranges` property is an identity mapping at that level. An address that
// matches no entry in a present, non-empty `ranges` is also passed through
// unchanged, and the walk continues to the next ancestor. The walk never
// applies the root's own `ranges`, matching "translation stops at the root".
func TranslateAddress(idx *index.Index, nodeIdx int, addr uint64) (uint64, error) {
	cur := idx.Nodes[nodeIdx].ParentIdx
	for cur > 0 {
		entries, present, err := Ranges(idx, cur)
		if err != nil {
			return 0, err
		}
		if !present {
			break
		}
		if len(entries) > 0 {
			for _, e := range entries {
				if addr >= e.ChildBase && addr < e.ChildBase+e.Size {
					addr = e.ParentBase + (addr - e.ChildBase)
					break
				}
			}
		}
		cur = idx.Nodes[cur].ParentIdx
	}
	return addr, nil
}
