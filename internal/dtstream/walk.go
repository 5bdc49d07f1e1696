// Package dtstream implements the streaming node view over internal/dtformat:
// a depth-tracking visitor over the structure-block token scanner. It
// maintains a stack of inherited #address-cells/#size-cells so any node
// observation can compute its own reg/ranges cell widths, and it allocates
// nothing beyond transient iterator state — the flat array, phandle map and
// alias map that make up the indexed cache live one layer up, in dt/index.
package dtstream

import (
	"fmt"

	"github.com/dtkit-go/dtkit/internal/dtbuf"
	"github.com/dtkit-go/dtkit/internal/dtformat"
)

// NodeEvent describes one node observed during a walk. AddressCells and
// SizeCells are the #address-cells/#size-cells declared by the node's
// parent, or the specification default of 2/1 for the root and for any
// node whose parent does not declare them; values are not carried down
// from further ancestors. They are the widths this node's own reg and
// ranges properties must be parsed with — not the widths it declares for
// its children.
type NodeEvent struct {
	Name         string
	Path         string
	Depth        int
	AddressCells uint32
	SizeCells    uint32
	propStart    int
}

// Properties returns a restartable cursor over this node's own properties,
// seeked to the position saved when the node was entered. Building a new
// cursor is cheap: it holds no state beyond a byte offset.
func (e NodeEvent) Properties(data []byte, desc dtformat.Descriptor) *PropertyCursor {
	return &PropertyCursor{data: data, desc: desc, pos: e.propStart}
}

// Visitor receives node-enter and node-leave events in a single depth-first
// pass. Enter is called with the node's own properties not yet consumed by
// the visitor; Leave is called once every child has been visited.
type Visitor interface {
	Enter(ev NodeEvent) error
	Leave(ev NodeEvent) error
}

type cellPair struct {
	addr uint32
	size uint32
}

const (
	defaultAddressCells = 2
	defaultSizeCells    = 1
)

// Walk performs one depth-first pass over the structure block described by
// desc, invoking v for every node. It returns the first structural error
// encountered (a bad token, an unresolved string offset, unbalanced
// BEGIN_NODE/END_NODE nesting, or trailing tokens after END) — such errors
// are fatal to the walk, matching the raw layer's "fatal to the current
// view" propagation policy.
func Walk(data []byte, desc dtformat.Descriptor, v Visitor) error {
	sc := dtformat.NewScanner(data, desc)
	tok, ok, err := sc.Next()
	if err != nil {
		return err
	}
	if !ok || tok.Kind != dtformat.TokenBeginNode {
		return fmt.Errorf("structure block: expected root node: %w", dtformat.ErrBadToken)
	}
	root := cellPair{defaultAddressCells, defaultSizeCells}
	if err := walkNode(sc, v, 0, "", root, tok); err != nil {
		return err
	}
	end, ok, err := sc.Next()
	if err != nil {
		return err
	}
	if !ok || end.Kind != dtformat.TokenEnd {
		return fmt.Errorf("structure block: expected end token: %w", dtformat.ErrBadToken)
	}
	if _, ok, err := sc.Next(); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("structure block: unexpected token after end: %w", dtformat.ErrTrailing)
	}
	return nil
}

func walkNode(sc *dtformat.Scanner, v Visitor, depth int, parentPath string, inherited cellPair, begin dtformat.Token) error {
	path := childPath(parentPath, begin.Name, depth)
	ev := NodeEvent{
		Name:         begin.Name,
		Path:         path,
		Depth:        depth,
		AddressCells: inherited.addr,
		SizeCells:    inherited.size,
		propStart:    sc.Pos(),
	}
	if err := v.Enter(ev); err != nil {
		return err
	}

	own := cellPair{defaultAddressCells, defaultSizeCells}
	for {
		tok, ok, err := sc.Next()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("node %q: %w", path, dtformat.ErrMissingEnd)
		}
		switch tok.Kind {
		case dtformat.TokenNop:
			continue
		case dtformat.TokenProp:
			switch tok.Name {
			case "#address-cells":
				if val, ok := decodeU32(tok.Value); ok {
					own.addr = val
				}
			case "#size-cells":
				if val, ok := decodeU32(tok.Value); ok {
					own.size = val
				}
			}
			continue
		case dtformat.TokenBeginNode:
			if err := walkNode(sc, v, depth+1, path, own, tok); err != nil {
				return err
			}
			continue
		case dtformat.TokenEndNode:
			return v.Leave(ev)
		default:
			return fmt.Errorf("node %q body: %w", path, dtformat.ErrBadToken)
		}
	}
}

func childPath(parentPath, name string, depth int) string {
	if depth == 0 {
		return "/"
	}
	if parentPath == "/" {
		return "/" + name
	}
	return parentPath + "/" + name
}

func decodeU32(b []byte) (uint32, bool) {
	if len(b) != 4 {
		return 0, false
	}
	return dtbuf.U32(b), true
}
