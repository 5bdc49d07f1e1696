package binding

import (
	"fmt"

	"github.com/dtkit-go/dtkit/dt/index"
)

// PciSpace is the address-space code carried in the high cell of a PCI
// child address, per spec.md §4.8.
type PciSpace int

const (
	PciSpaceConfig PciSpace = iota
	PciSpaceIO
	PciSpaceMemory32
	PciSpaceMemory64
)

func (s PciSpace) String() string {
	switch s {
	case PciSpaceConfig:
		return "config"
	case PciSpaceIO:
		return "io"
	case PciSpaceMemory32:
		return "memory32"
	case PciSpaceMemory64:
		return "memory64"
	default:
		return "unknown"
	}
}

// BusRange is a PCI host bridge's `bus-range` property.
type BusRange struct {
	First uint32
	Last  uint32
}

// PciRange is one decoded entry of a PCI host bridge's `ranges` property.
type PciRange struct {
	Space         PciSpace
	Prefetchable  bool
	ChildAddress  uint64
	ParentAddress uint64
	Size          uint64
}

// InterruptMapMask is a PCI `interrupt-map-mask`: independent masks over the
// three child unit-address cells and the pin cell.
type InterruptMapMask struct {
	AddrMask [3]uint32
	PinMask  uint32
}

// InterruptMapEntry is one decoded record of a PCI `interrupt-map`.
type InterruptMapEntry struct {
	ChildAddr     [3]uint32
	ChildPin      uint32
	ParentIdx     int
	ParentSpecCells []uint32
}

// InterruptResolution is the result of resolving a PCI child device's
// interrupt through `interrupt-map`, or its fallback.
type InterruptResolution struct {
	ControllerIdx int
	Specifier     []uint32
}

// Pci is a view over a node identified as a PCI host bridge.
type Pci struct {
	idx     *index.Index
	nodeIdx int
}

// pciHostMarkers are compatible strings that, on their own, identify a node
// as a PCI host bridge per spec.md §4.8's "compatible contains
// pci-host-ecam-generic or equivalent, or explicit marker".
var pciHostMarkers = []string{"pci-host-ecam-generic", "pci-host-cam-generic"}

// looksLikePciHost reports whether n carries enough evidence — a
// `device_type` of "pci"/"pciex", a recognized host-bridge compatible, or a
// `bus-range` on a node declaring the 3-cell PCI address width
// (`#address-cells` = 3) — to be treated as a PCI host.
func looksLikePciHost(n *index.Node) bool {
	if p, ok := n.FindProperty("device_type"); ok {
		if s, err := p.AsString(); err == nil && (s == "pci" || s == "pciex") {
			return true
		}
	}
	if p, ok := n.FindProperty("compatible"); ok {
		if list, err := p.AsStringList(); err == nil {
			for _, c := range list {
				for _, marker := range pciHostMarkers {
					if c == marker {
						return true
					}
				}
			}
		}
	}
	_, hasBusRange := n.FindProperty("bus-range")
	return hasBusRange && ownAddressCells(n) == 3
}

// AsPci returns a Pci view over nodeIdx, or ErrNotPciHost if the node does
// not look like a PCI host bridge.
func AsPci(idx *index.Index, nodeIdx int) (*Pci, error) {
	n := &idx.Nodes[nodeIdx]
	if !looksLikePciHost(n) {
		return nil, fmt.Errorf("node %q: %w", n.Path, ErrNotPciHost)
	}
	return &Pci{idx: idx, nodeIdx: nodeIdx}, nil
}

func (p *Pci) node() *index.Node { return &p.idx.Nodes[p.nodeIdx] }

// BusRange decodes the host bridge's `bus-range` property.
func (p *Pci) BusRange() (BusRange, error) {
	n := p.node()
	prop, ok := n.FindProperty("bus-range")
	if !ok {
		return BusRange{}, fmt.Errorf("bus-range on %q: %w", n.Path, ErrMissingCellsProperty)
	}
	cells, err := prop.AsCells()
	if err != nil {
		return BusRange{}, fmt.Errorf("bus-range on %q: %w", n.Path, err)
	}
	if len(cells) != 2 {
		return BusRange{}, fmt.Errorf("bus-range on %q: want 2 cells, got %d: %w", n.Path, len(cells), ErrBadPropertyLength)
	}
	return BusRange{First: cells[0], Last: cells[1]}, nil
}

// pciParentAddressCells returns the host bridge's inherited AddressCells,
// the width of the parent-bus-address portion of each `ranges` entry.
func pciParentAddressCells(n *index.Node) int {
	if n.AddressCells > 0 {
		return int(n.AddressCells)
	}
	return defaultAddressCells
}

// Ranges decodes the host bridge's PCI-form `ranges` property per
// spec.md §4.8: each entry is 3 child cells (phys.hi/phys.mid/phys.lo), the
// parent-bus address sized by the host bridge's own inherited
// #address-cells, and 2 size cells.
func (p *Pci) Ranges() ([]PciRange, error) {
	n := p.node()
	prop, ok := n.FindProperty("ranges")
	if !ok {
		return nil, nil
	}
	parentCells := pciParentAddressCells(n)
	const childCells, sizeCells = 3, 2
	width := childCells + parentCells + sizeCells

	cells, err := prop.AsCells()
	if err != nil {
		return nil, fmt.Errorf("ranges on %q: %w", n.Path, err)
	}
	if len(cells)%width != 0 {
		return nil, fmt.Errorf("ranges on %q: %d cells not a multiple of %d: %w", n.Path, len(cells), width, ErrBadPropertyLength)
	}

	var out []PciRange
	for i := 0; i+width <= len(cells); i += width {
		hi, mid, lo := cells[i], cells[i+1], cells[i+2]
		parentAddr, err := cellsToU64(cells[i+childCells : i+childCells+parentCells])
		if err != nil {
			return nil, fmt.Errorf("ranges on %q: parent address: %w", n.Path, err)
		}
		size, err := cellsToU64(cells[i+childCells+parentCells : i+width])
		if err != nil {
			return nil, fmt.Errorf("ranges on %q: size: %w", n.Path, err)
		}
		out = append(out, PciRange{
			Space:         PciSpace((hi >> 24) & 0x3),
			Prefetchable:  (hi>>30)&0x1 == 1,
			ChildAddress:  uint64(mid)<<32 | uint64(lo),
			ParentAddress: parentAddr,
			Size:          size,
		})
	}
	return out, nil
}

// InterruptMapMask decodes the fixed 4-cell `interrupt-map-mask` property.
func (p *Pci) InterruptMapMask() (InterruptMapMask, error) {
	n := p.node()
	prop, ok := n.FindProperty("interrupt-map-mask")
	if !ok {
		return InterruptMapMask{}, fmt.Errorf("interrupt-map-mask on %q: %w", n.Path, ErrMissingCellsProperty)
	}
	cells, err := prop.AsCells()
	if err != nil {
		return InterruptMapMask{}, fmt.Errorf("interrupt-map-mask on %q: %w", n.Path, err)
	}
	if len(cells) != 4 {
		return InterruptMapMask{}, fmt.Errorf("interrupt-map-mask on %q: want 4 cells, got %d: %w", n.Path, len(cells), ErrBadPropertyLength)
	}
	return InterruptMapMask{AddrMask: [3]uint32{cells[0], cells[1], cells[2]}, PinMask: cells[3]}, nil
}

// interruptParentAddressCells returns the interrupt parent's own declared
// #address-cells, or 0 if absent. An interrupt-map record carries this many
// cells of parent unit address between the phandle and the interrupt
// specifier; unlike bus address translation, an unset #address-cells here
// means the controller takes no unit address at all, not the usual default
// of 2.
func interruptParentAddressCells(n *index.Node) int {
	if p, ok := n.FindProperty("#address-cells"); ok {
		if v, err := p.AsUint32(); err == nil {
			return int(v)
		}
	}
	return 0
}

// InterruptMap decodes the host bridge's `interrupt-map` property per
// spec.md §4.8: a repeating record of (child_addr[3], child_pin[1],
// parent_phandle[1], parent_unit_address[#address-cells of the referenced
// parent], parent_spec[#interrupt-cells of the referenced parent]). Record
// size varies entry to entry because the parent controller may differ.
func (p *Pci) InterruptMap() ([]InterruptMapEntry, error) {
	n := p.node()
	prop, ok := n.FindProperty("interrupt-map")
	if !ok {
		return nil, nil
	}
	cells, err := prop.AsCells()
	if err != nil {
		return nil, fmt.Errorf("interrupt-map on %q: %w", n.Path, err)
	}

	var out []InterruptMapEntry
	for pos := 0; pos < len(cells); {
		if pos+4 > len(cells) {
			return nil, fmt.Errorf("interrupt-map on %q: truncated record header: %w", n.Path, ErrBadPropertyLength)
		}
		entry := InterruptMapEntry{ChildAddr: [3]uint32{cells[pos], cells[pos+1], cells[pos+2]}, ChildPin: cells[pos+3]}
		pos += 4

		if pos >= len(cells) {
			return nil, fmt.Errorf("interrupt-map on %q: truncated parent phandle: %w", n.Path, ErrBadPropertyLength)
		}
		parentPhandle := cells[pos]
		pos++
		parentIdx, err := p.idx.PhandleLookup(parentPhandle)
		if err != nil {
			return nil, fmt.Errorf("interrupt-map on %q: %w", n.Path, err)
		}
		entry.ParentIdx = parentIdx

		addrCells := interruptParentAddressCells(&p.idx.Nodes[parentIdx])
		if pos+addrCells > len(cells) {
			return nil, fmt.Errorf("interrupt-map on %q: truncated parent unit address: %w", n.Path, ErrBadPropertyLength)
		}
		pos += addrCells

		width, err := interruptCells(&p.idx.Nodes[parentIdx])
		if err != nil {
			return nil, fmt.Errorf("interrupt-map on %q: %w", n.Path, err)
		}
		if pos+width > len(cells) {
			return nil, fmt.Errorf("interrupt-map on %q: truncated parent specifier: %w", n.Path, ErrBadPropertyLength)
		}
		entry.ParentSpecCells = append([]uint32(nil), cells[pos:pos+width]...)
		pos += width

		out = append(out, entry)
	}
	return out, nil
}

// ChildInterrupts computes the PCI child unit address for (bus, device,
// function), masks it and pin against `interrupt-map-mask`, and returns the
// first matching `interrupt-map` record's controller and specifier, per
// spec.md §4.8. If the host has no `interrupt-map`, it falls back to the
// host node's own `interrupts`/`interrupts-extended` property.
func (p *Pci) ChildInterrupts(bus, device, function, pin uint32) (*InterruptResolution, error) {
	n := p.node()
	entries, err := p.InterruptMap()
	if err != nil {
		return nil, err
	}
	if entries == nil {
		fallback, err := Interrupts(p.idx, p.nodeIdx)
		if err != nil {
			return nil, fmt.Errorf("child_interrupts on %q: %w", n.Path, err)
		}
		if len(fallback) == 0 {
			return nil, fmt.Errorf("child_interrupts on %q: %w", n.Path, ErrNoInterruptMapMatch)
		}
		return &InterruptResolution{ControllerIdx: fallback[0].ControllerIdx, Specifier: fallback[0].Cells}, nil
	}

	mask, err := p.InterruptMapMask()
	if err != nil {
		return nil, err
	}

	hi := (bus&0xff)<<16 | (device&0x1f)<<11 | (function&0x7)<<8
	wantAddr := [3]uint32{hi & mask.AddrMask[0], 0, 0}
	wantPin := pin & mask.PinMask

	for _, e := range entries {
		if e.ChildAddr == wantAddr && e.ChildPin == wantPin {
			return &InterruptResolution{ControllerIdx: e.ParentIdx, Specifier: e.ParentSpecCells}, nil
		}
	}
	return nil, fmt.Errorf("child_interrupts on %q: %w", n.Path, ErrNoInterruptMapMatch)
}
