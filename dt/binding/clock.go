package binding

import (
	"fmt"

	"github.com/dtkit-go/dtkit/dt/index"
)

// ClockRef is one resolved entry of a consumer's `clocks` property: the
// providing node, its specifier cells, and the name attached by the
// corresponding `clock-names` entry, if any.
type ClockRef struct {
	ProviderIdx int
	Specifier   []uint32
	Name        string
}

func clockCells(n *index.Node) (int, error) {
	p, ok := n.FindProperty("#clock-cells")
	if !ok {
		return 0, fmt.Errorf("node %q: %w", n.Path, ErrMissingCellsProperty)
	}
	v, err := p.AsUint32()
	if err != nil {
		return 0, fmt.Errorf("#clock-cells on %q: %w", n.Path, err)
	}
	return int(v), nil
}

// Clocks decodes nodeIdx's `clocks` property per spec.md §4.9: cells are
// chunked as (provider_phandle, specifier...) with the specifier width
// dictated by the provider's own `#clock-cells`, and any `clock-names`
// string list is zipped in by position. A node with no `clocks` property
// returns a nil slice, not an error.
func Clocks(idx *index.Index, nodeIdx int) ([]ClockRef, error) {
	n := &idx.Nodes[nodeIdx]
	p, ok := n.FindProperty("clocks")
	if !ok {
		return nil, nil
	}
	cells, err := p.AsCells()
	if err != nil {
		return nil, fmt.Errorf("clocks on %q: %w", n.Path, err)
	}

	var names []string
	if np, ok := n.FindProperty("clock-names"); ok {
		names, err = np.AsStringList()
		if err != nil {
			return nil, fmt.Errorf("clock-names on %q: %w", n.Path, err)
		}
	}

	var out []ClockRef
	for pos := 0; pos < len(cells); {
		phandle := cells[pos]
		pos++
		provider, err := idx.PhandleLookup(phandle)
		if err != nil {
			return nil, fmt.Errorf("clocks on %q: %w", n.Path, err)
		}
		width, err := clockCells(&idx.Nodes[provider])
		if err != nil {
			return nil, fmt.Errorf("clocks on %q: %w", n.Path, err)
		}
		if pos+width > len(cells) {
			return nil, fmt.Errorf("clocks on %q: truncated specifier: %w", n.Path, ErrBadPropertyLength)
		}
		ref := ClockRef{ProviderIdx: provider, Specifier: append([]uint32(nil), cells[pos:pos+width]...)}
		if len(out) < len(names) {
			ref.Name = names[len(out)]
		}
		out = append(out, ref)
		pos += width
	}
	return out, nil
}
