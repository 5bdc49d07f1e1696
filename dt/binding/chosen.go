package binding

import "github.com/dtkit-go/dtkit/dt/index"

const pathChosen = "/chosen"

// ChosenInfo is the typed view over `/chosen`, per spec.md §4.10. Fields are
// zero-valued when the underlying property is absent.
type ChosenInfo struct {
	Bootargs    string
	StdoutPath  string
	InitrdStart uint64
	InitrdEnd   uint64
}

// Chosen returns the typed view of `/chosen`, or nil if the tree has no such
// node.
func Chosen(idx *index.Index) (*ChosenInfo, error) {
	nodeIdx, ok := idx.PathIndex[pathChosen]
	if !ok {
		return nil, nil
	}
	n := &idx.Nodes[nodeIdx]
	out := &ChosenInfo{}

	if p, ok := n.FindProperty("bootargs"); ok {
		s, err := p.AsString()
		if err != nil {
			return nil, err
		}
		out.Bootargs = s
	}
	if p, ok := n.FindProperty("stdout-path"); ok {
		s, err := p.AsString()
		if err != nil {
			return nil, err
		}
		out.StdoutPath = s
	}
	if v, err := chosenInt(n, "initrd-start", "linux,initrd-start"); err != nil {
		return nil, err
	} else {
		out.InitrdStart = v
	}
	if v, err := chosenInt(n, "initrd-end", "linux,initrd-end"); err != nil {
		return nil, err
	} else {
		out.InitrdEnd = v
	}
	return out, nil
}

// chosenInt decodes a cell that may be encoded as either a u32 or a u64,
// per spec.md §4.10's "u32 or u64 per length". It tries each name in order
// and decodes the first one present, since boot loaders write either the
// spec name or Linux's historical `linux,`-prefixed name.
func chosenInt(n *index.Node, names ...string) (uint64, error) {
	for _, name := range names {
		p, ok := n.FindProperty(name)
		if !ok {
			continue
		}
		if len(p.Value) == 4 {
			v, err := p.AsUint32()
			return uint64(v), err
		}
		return p.AsUint64()
	}
	return 0, nil
}
