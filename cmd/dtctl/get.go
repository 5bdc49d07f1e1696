package main

import (
	"encoding/hex"
	"fmt"

	"github.com/dtkit-go/dtkit/pkg/dtb"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <dtb> <path> [property]",
		Short: "Print a node's properties, or one property's typed rendering",
		Long: `The get command resolves a node by absolute or alias-form path and
prints its properties. Naming a property restricts output to that one
property, rendered with its best-guess type.

Example:
  dtctl get board.dtb /soc/uart@1000
  dtctl get board.dtb serial0 status`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			prop := ""
			if len(args) == 3 {
				prop = args[2]
			}
			return runGet(args[0], args[1], prop)
		},
	}
}

func runGet(dtbPath, nodePath, propName string) error {
	f, closer, err := dtb.FromFile(dtbPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", dtbPath, err)
	}
	defer closer()

	n, err := f.GetByPath(nodePath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", nodePath, err)
	}

	if propName != "" {
		p, ok := n.FindProperty(propName)
		if !ok {
			return fmt.Errorf("node %s has no property %q", n.FullPath(), propName)
		}
		if jsonOut {
			return printJSON(renderPropertyJSON(p))
		}
		printInfo("%s\n", renderPropertyText(p))
		return nil
	}

	if jsonOut {
		out := map[string]interface{}{}
		for _, p := range n.Properties() {
			out[p.Name] = renderPropertyJSON(p)
		}
		return printJSON(out)
	}

	for _, p := range n.Properties() {
		printInfo("%s = %s\n", p.Name, renderPropertyText(p))
	}
	return nil
}

func renderPropertyText(p *dtb.Property) string {
	if p.IsEmpty() {
		return "(empty)"
	}
	if s, err := p.AsString(); err == nil {
		return fmt.Sprintf("%q", s)
	}
	if list, err := p.AsStringList(); err == nil {
		return fmt.Sprintf("%q", list)
	}
	if cells, err := p.AsCells(); err == nil {
		return fmt.Sprintf("%#v", cells)
	}
	return hex.EncodeToString(p.Value)
}

func renderPropertyJSON(p *dtb.Property) interface{} {
	if p.IsEmpty() {
		return true
	}
	if s, err := p.AsString(); err == nil {
		return s
	}
	if list, err := p.AsStringList(); err == nil {
		return list
	}
	if cells, err := p.AsCells(); err == nil {
		return cells
	}
	return hex.EncodeToString(p.Value)
}
