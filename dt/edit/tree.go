package edit

import (
	"fmt"
	"strings"

	"github.com/dtkit-go/dtkit/dt/index"
	"github.com/dtkit-go/dtkit/internal/dtformat"
)

// Property is a mutable (name, raw bytes) pair, owned by its Node.
type Property struct {
	Name  string
	Value []byte
}

// Node is a mutable device-tree node. It owns its name, its properties and
// its children, in insertion order, matching spec.md §4.11's ownership
// contract.
type Node struct {
	Name       string
	Properties []Property
	Children   []*Node
	parent     *Node
}

// AddChild appends a new empty child named name and returns it. It fails if
// a child with that name already exists.
func (n *Node) AddChild(name string) (*Node, error) {
	for _, c := range n.Children {
		if c.Name == name {
			return nil, fmt.Errorf("add child %q under %q: %w", name, n.Name, ErrDuplicateChildName)
		}
	}
	child := &Node{Name: name, parent: n}
	n.Children = append(n.Children, child)
	return child, nil
}

// RemoveChild removes and returns the direct child named name, or reports
// false if there is none.
func (n *Node) RemoveChild(name string) (*Node, bool) {
	for i, c := range n.Children {
		if c.Name == name {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.parent = nil
			return c, true
		}
	}
	return nil, false
}

// SetProperty sets or replaces a property's raw value, preserving its
// position if it already existed, or appending it otherwise.
func (n *Node) SetProperty(name string, value []byte) {
	for i, p := range n.Properties {
		if p.Name == name {
			n.Properties[i].Value = value
			return
		}
	}
	n.Properties = append(n.Properties, Property{Name: name, Value: value})
}

// DeleteProperty removes a property by name, reporting whether it existed.
func (n *Node) DeleteProperty(name string) bool {
	for i, p := range n.Properties {
		if p.Name == name {
			n.Properties = append(n.Properties[:i], n.Properties[i+1:]...)
			return true
		}
	}
	return false
}

// FindProperty returns the named property, if present.
func (n *Node) FindProperty(name string) (Property, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Tree is a mutable device-tree rooted at an anonymous ("") node, single
// owner and not safe for concurrent mutation, matching spec.md §5.
type Tree struct {
	root         *Node
	Reservations []dtformat.Reservation
}

// NewTree returns an empty tree with just a root node and no reservations.
func NewTree() *Tree {
	return &Tree{root: &Node{Name: ""}}
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node { return t.root }

// GetByPath resolves an absolute, '/'-separated path to a node.
func (t *Tree) GetByPath(path string) (*Node, error) {
	if path == "" || path == "/" {
		return t.root, nil
	}
	cur := t.root
	for _, part := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		found := false
		for _, c := range cur.Children {
			if c.Name == part {
				cur = c
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("path %q: %w", path, ErrPathNotFound)
		}
	}
	return cur, nil
}

// RemoveByPath detaches and returns the node at path.
func (t *Tree) RemoveByPath(path string) (*Node, error) {
	n, err := t.GetByPath(path)
	if err != nil {
		return nil, err
	}
	if n == t.root {
		return nil, fmt.Errorf("path %q: cannot remove root: %w", path, ErrPathNotFound)
	}
	removed, _ := n.parent.RemoveChild(n.Name)
	return removed, nil
}

// FromIndex builds a mutable Tree that is a structural snapshot of an
// already-decoded indexed view, giving callers a starting point for
// Fdt.Edit(): "decode, then mutate" rather than building a tree from
// scratch.
func FromIndex(idx *index.Index) *Tree {
	t := NewTree()
	if len(idx.Nodes) == 0 {
		return t
	}
	nodes := make([]*Node, len(idx.Nodes))
	nodes[0] = t.root
	nodes[0].Name = idx.Nodes[0].Name
	copyProps(nodes[0], idx.Nodes[0].Properties)
	buildChildren(idx, 0, nodes)
	t.Reservations = append([]dtformat.Reservation(nil), idx.Reservations...)
	return t
}

func buildChildren(idx *index.Index, parentIdx int, nodes []*Node) {
	parent := nodes[parentIdx]
	for _, childIdx := range idx.Nodes[parentIdx].ChildIdx {
		src := idx.Nodes[childIdx]
		child := &Node{Name: src.Name, parent: parent}
		copyProps(child, src.Properties)
		parent.Children = append(parent.Children, child)
		nodes[childIdx] = child
		buildChildren(idx, childIdx, nodes)
	}
}

func copyProps(n *Node, props []index.Property) {
	for _, p := range props {
		n.Properties = append(n.Properties, Property{Name: p.Name, Value: append([]byte(nil), p.Value...)})
	}
}
