package main

import (
	"testing"

	"github.com/dtkit-go/dtkit/dt/edit"
)

func cells(vs ...uint32) []byte {
	var out []byte
	for _, v := range vs {
		out = append(out, u32(v)...)
	}
	return out
}

func buildPciFixture(t *testing.T) string {
	return writeTestDtb(t, func(tr *edit.Tree) {
		tr.Root().SetProperty("#address-cells", u32(2))
		tr.Root().SetProperty("#size-cells", u32(2))

		gic, err := tr.Root().AddChild("interrupt-controller")
		if err != nil {
			t.Fatalf("AddChild: %v", err)
		}
		gic.SetProperty("#interrupt-cells", u32(3))
		gic.SetProperty("phandle", u32(1))
		gic.SetProperty("interrupt-controller", nil)

		pcie, err := tr.Root().AddChild("pcie@30000000")
		if err != nil {
			t.Fatalf("AddChild: %v", err)
		}
		pcie.SetProperty("compatible", cstr("pci-host-ecam-generic"))
		pcie.SetProperty("device_type", cstr("pci"))
		pcie.SetProperty("#address-cells", u32(3))
		pcie.SetProperty("#size-cells", u32(2))
		pcie.SetProperty("#interrupt-cells", u32(1))
		pcie.SetProperty("bus-range", cells(0, 1))
		pcie.SetProperty("interrupt-map-mask", cells(0xf800, 0, 0, 7))

		childAddrHi := uint32(2&0x1f) << 11
		pcie.SetProperty("interrupt-map", cells(
			childAddrHi, 0, 0, 2,
			1, 0, 55, 4,
		))
	})
}

func TestPciCommand(t *testing.T) {
	dtbPath := buildPciFixture(t)

	quiet = false
	verbose = false
	jsonOut = false
	pciBus = 0
	pciDevice = 2
	pciFunction = 0
	pciPin = 2

	output, err := captureOutput(t, func() error {
		return runPci(dtbPath, "/pcie@30000000")
	})
	if err != nil {
		t.Fatalf("runPci() error = %v", err)
	}
	assertContains(t, output, []string{"interrupt-controller", "55"})
}
