// Package dtb is the public facade over the Flattened Device Tree stack:
// decode a blob, walk and query its indexed view, interpret its semantic
// bindings, and re-encode an edited tree. Every exported function returns
// a *dtb.Error rather than a raw internal sentinel.
package dtb

import (
	"fmt"
	"io"

	"github.com/dtkit-go/dtkit/dt/binding"
	"github.com/dtkit-go/dtkit/dt/dts"
	"github.com/dtkit-go/dtkit/dt/edit"
	"github.com/dtkit-go/dtkit/dt/index"
	"github.com/dtkit-go/dtkit/internal/blobio"
	"github.com/dtkit-go/dtkit/internal/dtformat"
)

// Header re-exports the raw layer's decoded header.
type Header = dtformat.Header

// Reservation re-exports one header-level memory reservation entry.
type Reservation = dtformat.Reservation

// ChosenInfo re-exports the /chosen typed view.
type ChosenInfo = binding.ChosenInfo

// MemoryNodeInfo re-exports one classified memory node and its regions.
type MemoryNodeInfo = binding.MemoryNode

// Fdt is a decoded, indexed device tree.
type Fdt struct {
	idx *index.Index
	raw []byte
}

// FromBytes decodes data into an Fdt. data is retained, not copied; callers
// must not mutate it while the Fdt is in use.
func FromBytes(data []byte) (*Fdt, error) {
	idx, err := index.Build(data, index.Options{})
	if err != nil {
		return nil, wrapErr("decode", "", err)
	}
	return &Fdt{idx: idx, raw: data}, nil
}

// FromFile memory-maps path (falling back to a full read where mmap is
// unavailable) and decodes it. The returned close function releases the
// backing mapping and must be called once the Fdt is no longer needed.
func FromFile(path string) (*Fdt, func() error, error) {
	data, closer, err := blobio.Load(path)
	if err != nil {
		return nil, nil, wrapErr(fmt.Sprintf("open %s", path), "", err)
	}
	f, err := FromBytes(data)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	return f, closer, nil
}

// Version returns the structure-block version the blob declared.
func (f *Fdt) Version() uint32 { return f.idx.Header.Version }

// Header returns the decoded 40-byte header.
func (f *Fdt) Header() Header { return f.idx.Header }

// RawBytes returns the backing bytes given to FromBytes/FromFile.
func (f *Fdt) RawBytes() []byte { return f.raw }

// MemoryReservations returns the header-level reservation block entries.
// It never includes `/reserved-memory` subnodes; see DESIGN.md.
func (f *Fdt) MemoryReservations() []Reservation { return f.idx.Reservations }

// Root returns the tree's root node.
func (f *Fdt) Root() *Node { return f.nodeAt(0) }

// AllNodes returns every node in pre-order.
func (f *Fdt) AllNodes() []*Node {
	out := make([]*Node, len(f.idx.Nodes))
	for i := range out {
		out[i] = f.nodeAt(i)
	}
	return out
}

// GetByPath resolves an absolute or alias-form path to a node.
func (f *Fdt) GetByPath(path string) (*Node, error) {
	i, err := f.idx.GetByPath(path)
	if err != nil {
		return nil, wrapErr("get by path", path, err)
	}
	return f.nodeAt(i), nil
}

// FindCompatible returns every node whose `compatible` list intersects
// any of the given strings, in document order.
func (f *Fdt) FindCompatible(compat ...string) []*Node {
	indices := f.idx.FindCompatible(compat...)
	out := make([]*Node, len(indices))
	for i, ni := range indices {
		out[i] = f.nodeAt(ni)
	}
	return out
}

// Chosen returns the typed `/chosen` view, or nil if the tree has none.
func (f *Fdt) Chosen() (*ChosenInfo, error) {
	info, err := binding.Chosen(f.idx)
	if err != nil {
		return nil, wrapErr("chosen", "/chosen", err)
	}
	return info, nil
}

// MemoryRegions returns every node classified as a memory node and its
// decoded `reg` regions.
func (f *Fdt) MemoryRegions() ([]MemoryNodeInfo, error) {
	regions, err := binding.MemoryRegions(f.idx)
	if err != nil {
		return nil, wrapErr("memory regions", "", err)
	}
	return regions, nil
}

// Edit returns a mutable snapshot of the tree, ready for Encode.
func (f *Fdt) Edit() *edit.Tree { return edit.FromIndex(f.idx) }

// Encode re-serializes an edited tree into a DTB blob.
func Encode(t *edit.Tree) ([]byte, error) {
	blob, err := edit.Encode(t)
	if err != nil {
		return nil, wrapErr("encode", "", err)
	}
	return blob, nil
}

// WriteDTS writes f as DTS source to w, per spec.md §4.12.
func WriteDTS(w io.Writer, f *Fdt) error {
	if err := dts.Emit(w, f.idx); err != nil {
		return wrapErr("write dts", "", err)
	}
	return nil
}

func (f *Fdt) nodeAt(i int) *Node {
	if i < 0 {
		return nil
	}
	return &Node{f: f, idx: i}
}
