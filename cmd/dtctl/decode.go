package main

import (
	"fmt"
	"os"

	"github.com/dtkit-go/dtkit/pkg/dtb"
	"github.com/spf13/cobra"
)

var (
	decodeInput  string
	decodeOutput string
)

func init() {
	cmd := newDecodeCmd()
	cmd.Flags().StringVar(&decodeInput, "input", "", "Path to the input DTB file (required)")
	cmd.Flags().StringVar(&decodeOutput, "output", "", "Path to write DTS output (default stdout)")
	_ = cmd.MarkFlagRequired("input")
	rootCmd.AddCommand(cmd)
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode",
		Short: "Decode a DTB file into DTS source",
		Long: `The decode command reads a Flattened Device Tree blob and writes its
canonical DTS text representation.

Example:
  dtctl decode --input board.dtb
  dtctl decode --input board.dtb --output board.dts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode()
		},
	}
}

func runDecode() error {
	printVerbose("Opening %s\n", decodeInput)

	f, closer, err := dtb.FromFile(decodeInput)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", decodeInput, err)
	}
	defer closer()

	out := os.Stdout
	if decodeOutput != "" {
		w, err := os.Create(decodeOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", decodeOutput, err)
		}
		defer w.Close()
		out = w
	}

	if err := dtb.WriteDTS(out, f); err != nil {
		return fmt.Errorf("failed to decode %s: %w", decodeInput, err)
	}

	if decodeOutput != "" {
		printInfo("wrote %s\n", decodeOutput)
	}
	return nil
}
