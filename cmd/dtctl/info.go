package main

import (
	"fmt"

	"github.com/dtkit-go/dtkit/pkg/dtb"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <dtb>",
		Short: "Print header fields and summary counts for a DTB",
		Long: `The info command reports the header version, memory reservation count,
and node/property totals for a Flattened Device Tree blob.

Example:
  dtctl info board.dtb
  dtctl info board.dtb --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
}

type infoResult struct {
	Path            string `json:"path"`
	Version         uint32 `json:"version"`
	LastCompVersion uint32 `json:"last_comp_version"`
	BootCpuidPhys   uint32 `json:"boot_cpuid_phys"`
	Reservations    int    `json:"reservations"`
	NodeCount       int    `json:"node_count"`
	PropertyCount   int    `json:"property_count"`
}

func runInfo(path string) error {
	printVerbose("Opening %s\n", path)

	f, closer, err := dtb.FromFile(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer closer()

	nodes := f.AllNodes()
	propCount := 0
	for _, n := range nodes {
		propCount += len(n.Properties())
	}

	result := infoResult{
		Path:            path,
		Version:         f.Header().Version,
		LastCompVersion: f.Header().LastCompVersion,
		BootCpuidPhys:   f.Header().BootCpuidPhys,
		Reservations:    len(f.MemoryReservations()),
		NodeCount:       len(nodes),
		PropertyCount:   propCount,
	}

	if jsonOut {
		return printJSON(result)
	}

	printInfo("\nDevice Tree Information:\n")
	printInfo("  File: %s\n", result.Path)
	printInfo("  Version: %d (last compatible %d)\n", result.Version, result.LastCompVersion)
	printInfo("  Boot CPU physical ID: %d\n", result.BootCpuidPhys)
	printInfo("  Memory reservations: %d\n", result.Reservations)
	printInfo("  Nodes: %d\n", result.NodeCount)
	printInfo("  Properties: %d\n", result.PropertyCount)
	return nil
}
