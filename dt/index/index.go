package index

import (
	"github.com/dtkit-go/dtkit/internal/dtformat"
	"github.com/dtkit-go/dtkit/internal/dtstream"
)

const (
	phandleReserved0        = 0
	phandleReservedAllOnes  = 0xFFFFFFFF
	propPhandle             = "phandle"
	propLinuxPhandle        = "linux,phandle"
	propCompatible          = "compatible"
	pathAliases             = "/aliases"
)

// Node is one node's indexed record: a flat position in a pre-order array,
// parent/child linkage by index, and a copy of its properties in document
// order. Once an Index is built, a Node's fields never change.
type Node struct {
	Name         string
	Path         string
	Level        int
	ParentIdx    int // -1 for the root
	ChildIdx     []int
	AddressCells uint32
	SizeCells    uint32
	Phandle      uint32 // 0 when the node defines no phandle
	Properties   []Property
}

// FindProperty returns the named property, if present, in document order.
func (n *Node) FindProperty(name string) (Property, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Options controls Build's behavior for conditions the specification leaves
// to the implementer.
type Options struct {
	// OnDuplicatePhandle is invoked, if non-nil, every time a phandle value
	// is declared more than once. The indexed view keeps the first
	// definition (see DESIGN.md's Open Question decisions); this callback
	// is the only way to observe the rest.
	OnDuplicatePhandle func(nodeIdx int, phandle uint32)
}

// Index is the immutable indexed cache built from one full pass over the
// streaming view. It is safe for concurrent read-only use once Build
// returns.
type Index struct {
	Header          dtformat.Header
	Reservations    []dtformat.Reservation
	Nodes           []Node
	PhandleMap      map[uint32]int
	AliasMap        map[string]int // alias name -> resolved node index
	CompatibleIndex map[string][]int
	PathIndex       map[string]int
}

// Build performs the one-pass indexed build described by spec §4.4.
func Build(data []byte, opts Options) (*Index, error) {
	desc, err := dtformat.ParseHeader(data)
	if err != nil {
		return nil, err
	}
	reservations, err := dtformat.Reservations(data, desc).All()
	if err != nil {
		return nil, err
	}

	b := &builder{
		data:        data,
		desc:        desc,
		opts:        opts,
		stack:       []int{-1},
		phandleMap:  make(map[uint32]int),
		compatIndex: make(map[string][]int),
		pathIndex:   make(map[string]int),
	}
	if err := dtstream.Walk(data, desc, b); err != nil {
		return nil, err
	}

	idx := &Index{
		Header:          desc.Header,
		Reservations:    reservations,
		Nodes:           b.nodes,
		PhandleMap:      b.phandleMap,
		CompatibleIndex: b.compatIndex,
		PathIndex:       b.pathIndex,
	}
	idx.AliasMap = resolveAliases(idx)
	return idx, nil
}

// builder implements dtstream.Visitor, accumulating the flat node array and
// its side indices during a single depth-first pass.
type builder struct {
	data  []byte
	desc  dtformat.Descriptor
	opts  Options
	stack []int // open node indices; stack[0] == -1 sentinel for "no parent"

	nodes       []Node
	phandleMap  map[uint32]int
	compatIndex map[string][]int
	pathIndex   map[string]int
}

func (b *builder) Enter(ev dtstream.NodeEvent) error {
	idx := len(b.nodes)
	n := Node{
		Name:         ev.Name,
		Path:         ev.Path,
		Level:        ev.Depth,
		ParentIdx:    b.stack[len(b.stack)-1],
		AddressCells: ev.AddressCells,
		SizeCells:    ev.SizeCells,
	}

	cursor := ev.Properties(b.data, b.desc)
	for {
		name, value, ok, err := cursor.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		n.Properties = append(n.Properties, Property{Name: name, Value: append([]byte(nil), value...)})
	}

	if phandle, ok := findPhandle(n.Properties); ok && phandle != phandleReserved0 && phandle != phandleReservedAllOnes {
		n.Phandle = phandle
		if _, dup := b.phandleMap[phandle]; dup {
			if b.opts.OnDuplicatePhandle != nil {
				b.opts.OnDuplicatePhandle(idx, phandle)
			}
			// First-definition-wins: leave the existing mapping in place.
		} else {
			b.phandleMap[phandle] = idx
		}
	}

	if compat, ok := n.FindProperty(propCompatible); ok {
		if list, err := compat.AsStringList(); err == nil {
			for _, c := range list {
				b.compatIndex[c] = append(b.compatIndex[c], idx)
			}
		}
	}

	b.pathIndex[n.Path] = idx
	if n.ParentIdx >= 0 {
		b.nodes[n.ParentIdx].ChildIdx = append(b.nodes[n.ParentIdx].ChildIdx, idx)
	}

	b.nodes = append(b.nodes, n)
	b.stack = append(b.stack, idx)
	return nil
}

func (b *builder) Leave(dtstream.NodeEvent) error {
	b.stack = b.stack[:len(b.stack)-1]
	return nil
}

func findPhandle(props []Property) (uint32, bool) {
	for _, p := range props {
		if p.Name == propPhandle || p.Name == propLinuxPhandle {
			if v, err := p.AsUint32(); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

func resolveAliases(idx *Index) map[string]int {
	out := make(map[string]int)
	aliasNodeIdx, ok := idx.PathIndex[pathAliases]
	if !ok {
		return out
	}
	for _, p := range idx.Nodes[aliasNodeIdx].Properties {
		target, err := p.AsString()
		if err != nil {
			continue
		}
		if nodeIdx, ok := idx.PathIndex[target]; ok {
			out[p.Name] = nodeIdx
		}
	}
	return out
}
