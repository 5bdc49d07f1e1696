// Package binding implements the semantic interpretation layer: reg/ranges
// address translation, interrupt routing, PCI host-bridge decoding, clock
// bindings, and the chosen/aliases/memory accessors. It consumes dt/index,
// never the raw bytes directly, and its failures are local to the call that
// produced them — a bad reg on one node never poisons the index or an
// in-progress iteration over the rest of the tree.
package binding

import "errors"

var (
	// ErrBadPropertyLength indicates a cell array's length is not a
	// multiple of the expected per-entry cell width.
	ErrBadPropertyLength = errors.New("binding: bad property length")
	// ErrOversizedCell indicates an address or size needs more than two
	// 32-bit cells (64 bits) to represent.
	ErrOversizedCell = errors.New("binding: oversized cell value")
	// ErrMissingCellsProperty indicates a required #address-cells,
	// #size-cells, #interrupt-cells or #clock-cells property could not be
	// resolved on the relevant node.
	ErrMissingCellsProperty = errors.New("binding: missing cells property")
	// ErrNoInterruptParent indicates no ancestor (or self via
	// interrupt-parent) resolves to an interrupt controller.
	ErrNoInterruptParent = errors.New("binding: no interrupt parent")
	// ErrUntranslatableAddress is reserved for callers that require a fully
	// translated CPU address and reject a pass-through result; Reg itself
	// returns pass-through addresses per spec.md §4.6 rather than failing.
	ErrUntranslatableAddress = errors.New("binding: untranslatable address")
	// ErrNotPciHost indicates AsPci was called on a node that does not look
	// like a PCI host bridge.
	ErrNotPciHost = errors.New("binding: not a pci host bridge")
	// ErrNoInterruptMapMatch indicates ChildInterrupts found neither a
	// matching interrupt-map entry nor a usable interrupts fallback.
	ErrNoInterruptMapMatch = errors.New("binding: no interrupt-map match")
)
