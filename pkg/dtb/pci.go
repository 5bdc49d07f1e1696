package dtb

import "github.com/dtkit-go/dtkit/dt/binding"

// Pci is a view over a node identified as a PCI host bridge.
type Pci struct {
	n *Node
	p *binding.Pci
}

// BusRange decodes the host bridge's `bus-range` property.
func (p *Pci) BusRange() (binding.BusRange, error) {
	r, err := p.p.BusRange()
	if err != nil {
		return binding.BusRange{}, wrapErr("pci bus-range", p.n.FullPath(), err)
	}
	return r, nil
}

// Ranges decodes the host bridge's PCI-form `ranges` property.
func (p *Pci) Ranges() ([]binding.PciRange, error) {
	r, err := p.p.Ranges()
	if err != nil {
		return nil, wrapErr("pci ranges", p.n.FullPath(), err)
	}
	return r, nil
}

// InterruptMap decodes the host bridge's `interrupt-map` property.
func (p *Pci) InterruptMap() ([]binding.InterruptMapEntry, error) {
	m, err := p.p.InterruptMap()
	if err != nil {
		return nil, wrapErr("pci interrupt-map", p.n.FullPath(), err)
	}
	return m, nil
}

// InterruptMapMask decodes the host bridge's `interrupt-map-mask` property.
func (p *Pci) InterruptMapMask() (binding.InterruptMapMask, error) {
	m, err := p.p.InterruptMapMask()
	if err != nil {
		return binding.InterruptMapMask{}, wrapErr("pci interrupt-map-mask", p.n.FullPath(), err)
	}
	return m, nil
}

// ChildInterrupts resolves the interrupt routed to a PCI child device.
func (p *Pci) ChildInterrupts(bus, device, function, pin uint8) (*binding.InterruptResolution, error) {
	r, err := p.p.ChildInterrupts(uint32(bus), uint32(device), uint32(function), uint32(pin))
	if err != nil {
		return nil, wrapErr("pci child interrupts", p.n.FullPath(), err)
	}
	return r, nil
}
