package main

import (
	"fmt"
	"strings"

	"github.com/dtkit-go/dtkit/pkg/dtb"
	"github.com/spf13/cobra"
)

var (
	treePath  string
	treeDepth int
)

func init() {
	cmd := newTreeCmd()
	cmd.Flags().StringVar(&treePath, "path", "/", "Subtree root to display")
	cmd.Flags().IntVar(&treeDepth, "depth", 0, "Maximum depth below the subtree root (0 = unlimited)")
	rootCmd.AddCommand(cmd)
}

func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <dtb>",
		Short: "Display an indented node listing",
		Long: `The tree command prints the node hierarchy of a Flattened Device Tree
blob as an indented listing.

Example:
  dtctl tree board.dtb
  dtctl tree board.dtb --path /soc --depth 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(args[0])
		},
	}
}

func runTree(path string) error {
	f, closer, err := dtb.FromFile(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer closer()

	root, err := f.GetByPath(treePath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", treePath, err)
	}

	if jsonOut {
		return printJSON(collectTree(root, root.Level()))
	}

	printTreeNode(root, root.Level())
	return nil
}

type treeEntry struct {
	Path       string      `json:"path"`
	Properties []string    `json:"properties"`
	Children   []treeEntry `json:"children,omitempty"`
}

func collectTree(n *dtb.Node, baseLevel int) treeEntry {
	entry := treeEntry{Path: n.FullPath()}
	for _, p := range n.Properties() {
		entry.Properties = append(entry.Properties, p.Name)
	}
	if treeDepth == 0 || n.Level()-baseLevel < treeDepth {
		for _, c := range n.Children() {
			entry.Children = append(entry.Children, collectTree(c, baseLevel))
		}
	}
	return entry
}

func printTreeNode(n *dtb.Node, baseLevel int) {
	indent := strings.Repeat("  ", n.Level()-baseLevel)
	name := n.Name()
	if name == "" {
		name = "/"
	}
	printInfo("%s%s\n", indent, name)
	if treeDepth != 0 && n.Level()-baseLevel >= treeDepth {
		return
	}
	for _, c := range n.Children() {
		printTreeNode(c, baseLevel)
	}
}
