package binding

import (
	"fmt"

	"github.com/dtkit-go/dtkit/dt/index"
)

// InterruptEntry is one resolved interrupt: the controller that owns it and
// its specifier cells, sized by that controller's own #interrupt-cells.
type InterruptEntry struct {
	ControllerIdx int
	Cells         []uint32
}

// InterruptParent resolves nodeIdx's interrupt parent per spec.md §4.7: the
// nearest node, walking self then ancestors, whose own or inherited
// `interrupt-parent` property resolves to a controller (a node exposing
// `#interrupt-cells`), stopping at the first ancestor that is itself a
// controller if none declares `interrupt-parent`.
func InterruptParent(idx *index.Index, nodeIdx int) (int, error) {
	for cur := nodeIdx; cur >= 0; cur = idx.Nodes[cur].ParentIdx {
		n := &idx.Nodes[cur]
		p, ok := n.FindProperty("interrupt-parent")
		if !ok {
			if cur != nodeIdx && isInterruptController(n) {
				return cur, nil
			}
			continue
		}
		phandle, err := p.AsPhandle()
		if err != nil {
			return -1, fmt.Errorf("interrupt-parent on %q: %w", n.Path, err)
		}
		ctrl, err := idx.PhandleLookup(phandle)
		if err != nil {
			return -1, fmt.Errorf("interrupt-parent on %q: %w", n.Path, err)
		}
		if !isInterruptController(&idx.Nodes[ctrl]) {
			return -1, fmt.Errorf("interrupt-parent on %q: %w", n.Path, ErrNoInterruptParent)
		}
		return ctrl, nil
	}
	return -1, fmt.Errorf("node %q: %w", idx.Nodes[nodeIdx].Path, ErrNoInterruptParent)
}

func isInterruptController(n *index.Node) bool {
	_, ok := n.FindProperty("#interrupt-cells")
	return ok
}

func interruptCells(n *index.Node) (int, error) {
	p, ok := n.FindProperty("#interrupt-cells")
	if !ok {
		return 0, fmt.Errorf("node %q: %w", n.Path, ErrMissingCellsProperty)
	}
	v, err := p.AsUint32()
	if err != nil {
		return 0, fmt.Errorf("#interrupt-cells on %q: %w", n.Path, err)
	}
	return int(v), nil
}

// Interrupts decodes nodeIdx's interrupt entries. If `interrupts-extended`
// is present it is used exclusively, per spec.md §4.7: each entry is
// (phandle, cells...) with the cell count dictated by the referenced
// controller's own `#interrupt-cells`. Otherwise `interrupts` is decoded by
// chunking on the resolved interrupt parent's `#interrupt-cells`. A node
// with neither property returns a nil slice, not an error.
func Interrupts(idx *index.Index, nodeIdx int) ([]InterruptEntry, error) {
	n := &idx.Nodes[nodeIdx]

	if p, ok := n.FindProperty("interrupts-extended"); ok {
		cells, err := p.AsCells()
		if err != nil {
			return nil, fmt.Errorf("interrupts-extended on %q: %w", n.Path, err)
		}
		var out []InterruptEntry
		for pos := 0; pos < len(cells); {
			if pos >= len(cells) {
				return nil, fmt.Errorf("interrupts-extended on %q: truncated entry: %w", n.Path, ErrBadPropertyLength)
			}
			phandle := cells[pos]
			pos++
			ctrl, err := idx.PhandleLookup(phandle)
			if err != nil {
				return nil, fmt.Errorf("interrupts-extended on %q: %w", n.Path, err)
			}
			width, err := interruptCells(&idx.Nodes[ctrl])
			if err != nil {
				return nil, fmt.Errorf("interrupts-extended on %q: %w", n.Path, err)
			}
			if pos+width > len(cells) {
				return nil, fmt.Errorf("interrupts-extended on %q: truncated specifier: %w", n.Path, ErrBadPropertyLength)
			}
			out = append(out, InterruptEntry{ControllerIdx: ctrl, Cells: append([]uint32(nil), cells[pos:pos+width]...)})
			pos += width
		}
		return out, nil
	}

	p, ok := n.FindProperty("interrupts")
	if !ok {
		return nil, nil
	}
	cells, err := p.AsCells()
	if err != nil {
		return nil, fmt.Errorf("interrupts on %q: %w", n.Path, err)
	}
	ctrl, err := InterruptParent(idx, nodeIdx)
	if err != nil {
		return nil, fmt.Errorf("interrupts on %q: %w", n.Path, err)
	}
	width, err := interruptCells(&idx.Nodes[ctrl])
	if err != nil {
		return nil, fmt.Errorf("interrupts on %q: %w", n.Path, err)
	}
	if width == 0 || len(cells)%width != 0 {
		return nil, fmt.Errorf("interrupts on %q: %d cells not a multiple of %d: %w", n.Path, len(cells), width, ErrBadPropertyLength)
	}
	var out []InterruptEntry
	for i := 0; i+width <= len(cells); i += width {
		out = append(out, InterruptEntry{ControllerIdx: ctrl, Cells: append([]uint32(nil), cells[i:i+width]...)})
	}
	return out, nil
}
