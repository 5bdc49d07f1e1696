package dtb

import (
	"github.com/dtkit-go/dtkit/dt/binding"
	"github.com/dtkit-go/dtkit/dt/index"
)

// Property is a (name, raw bytes) pair with typed decoding views.
type Property struct {
	index.Property
}

// Node is a view over one node of an Fdt's indexed tree.
type Node struct {
	f   *Fdt
	idx int
}

func (n *Node) raw() *index.Node { return &n.f.idx.Nodes[n.idx] }

// Name returns the node's own name (without unit address separators
// stripped).
func (n *Node) Name() string { return n.raw().Name }

// FullPath returns the node's absolute path from the root.
func (n *Node) FullPath() string { return n.raw().Path }

// Level returns the node's depth, with the root at 0.
func (n *Node) Level() int { return n.raw().Level }

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node {
	p := n.raw().ParentIdx
	if p < 0 {
		return nil
	}
	return n.f.nodeAt(p)
}

// Children returns the node's direct children in document order.
func (n *Node) Children() []*Node {
	childIdx := n.raw().ChildIdx
	out := make([]*Node, len(childIdx))
	for i, ci := range childIdx {
		out[i] = n.f.nodeAt(ci)
	}
	return out
}

// Properties returns the node's properties in document order.
func (n *Node) Properties() []*Property {
	props := n.raw().Properties
	out := make([]*Property, len(props))
	for i, p := range props {
		out[i] = &Property{p}
	}
	return out
}

// FindProperty returns the named property, if present.
func (n *Node) FindProperty(name string) (*Property, bool) {
	p, ok := n.raw().FindProperty(name)
	if !ok {
		return nil, false
	}
	return &Property{p}, true
}

// Compatibles returns the node's `compatible` string list, or nil if the
// property is absent or unparseable.
func (n *Node) Compatibles() []string {
	p, ok := n.raw().FindProperty("compatible")
	if !ok {
		return nil
	}
	list, err := p.AsStringList()
	if err != nil {
		return nil
	}
	return list
}

// Reg decodes and address-translates the node's `reg` property.
func (n *Node) Reg() ([]binding.RegEntry, error) {
	regs, err := binding.Reg(n.f.idx, n.idx)
	if err != nil {
		return nil, wrapErr("reg", n.FullPath(), err)
	}
	return regs, nil
}

// Interrupts resolves the node's interrupt entries.
func (n *Node) Interrupts() ([]binding.InterruptEntry, error) {
	entries, err := binding.Interrupts(n.f.idx, n.idx)
	if err != nil {
		return nil, wrapErr("interrupts", n.FullPath(), err)
	}
	return entries, nil
}

// Clocks resolves the node's `clocks` references.
func (n *Node) Clocks() ([]binding.ClockRef, error) {
	refs, err := binding.Clocks(n.f.idx, n.idx)
	if err != nil {
		return nil, wrapErr("clocks", n.FullPath(), err)
	}
	return refs, nil
}

// AsPci views the node as a PCI host bridge.
func (n *Node) AsPci() (*Pci, error) {
	p, err := binding.AsPci(n.f.idx, n.idx)
	if err != nil {
		return nil, wrapErr("as pci", n.FullPath(), err)
	}
	return &Pci{n: n, p: p}, nil
}
