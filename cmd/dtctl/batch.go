package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtkit-go/dtkit/pkg/dtb"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var batchOutDir string

func init() {
	cmd := newBatchCmd()
	cmd.Flags().StringVar(&batchOutDir, "out-dir", "", "Directory to write .dts files into (required)")
	_ = cmd.MarkFlagRequired("out-dir")
	rootCmd.AddCommand(cmd)
}

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <dtb...>",
		Short: "Convert many DTB files to DTS in one pass",
		Long: `The batch command decodes multiple Flattened Device Tree blobs and
writes one .dts file per input into the target directory, reporting
progress as it goes.

Example:
  dtctl batch boards/*.dtb --out-dir out/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(args)
		},
	}
}

func runBatch(inputs []string) error {
	if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", batchOutDir, err)
	}

	var bar *progressbar.ProgressBar
	if !quiet {
		bar = progressbar.Default(int64(len(inputs)), "converting")
	}

	var failures int
	for _, in := range inputs {
		if err := batchOne(in); err != nil {
			printError("%s: %v\n", in, err)
			failures++
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d conversions failed", failures, len(inputs))
	}
	return nil
}

func batchOne(input string) error {
	f, closer, err := dtb.FromFile(input)
	if err != nil {
		return err
	}
	defer closer()

	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	outPath := filepath.Join(batchOutDir, base+".dts")

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return dtb.WriteDTS(out, f)
}
