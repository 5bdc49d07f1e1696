package main

import (
	"fmt"

	"github.com/dtkit-go/dtkit/pkg/dtb"
	"github.com/spf13/cobra"
)

var (
	pciBus      uint8
	pciDevice   uint8
	pciFunction uint8
	pciPin      uint8
)

func init() {
	cmd := newPciCmd()
	cmd.Flags().Uint8Var(&pciBus, "bus", 0, "PCI bus number")
	cmd.Flags().Uint8Var(&pciDevice, "device", 0, "PCI device number")
	cmd.Flags().Uint8Var(&pciFunction, "function", 0, "PCI function number")
	cmd.Flags().Uint8Var(&pciPin, "pin", 1, "PCI interrupt pin (1=INTA .. 4=INTD)")
	rootCmd.AddCommand(cmd)
}

func newPciCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pci <dtb> <path>",
		Short: "Resolve a PCI child device's routed interrupt",
		Long: `The pci command decodes a PCI host bridge node's interrupt-map and
resolves the interrupt routed to a given bus/device/function/pin.

Example:
  dtctl pci board.dtb /soc/pcie@30000000 --bus 0 --device 2 --function 0 --pin 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPci(args[0], args[1])
		},
	}
}

func runPci(dtbPath, nodePath string) error {
	f, closer, err := dtb.FromFile(dtbPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", dtbPath, err)
	}
	defer closer()

	n, err := f.GetByPath(nodePath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", nodePath, err)
	}

	pci, err := n.AsPci()
	if err != nil {
		return fmt.Errorf("%s is not a PCI host bridge: %w", nodePath, err)
	}

	res, err := pci.ChildInterrupts(pciBus, pciDevice, pciFunction, pciPin)
	if err != nil {
		return fmt.Errorf("failed to resolve interrupt: %w", err)
	}

	if jsonOut {
		return printJSON(res)
	}

	controller := f.AllNodes()[res.ControllerIdx]
	printInfo("controller: %s\n", controller.FullPath())
	printInfo("specifier: %v\n", res.Specifier)
	return nil
}
