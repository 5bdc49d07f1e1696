// Package dts renders an indexed device tree as textual DTS source, per
// spec.md §4.12: two-space indentation per depth level, a `/memreserve/`
// line per header reservation, and property values chosen among quoted
// string, string list, cell vector, or byte array depending on what the raw
// bytes parse as.
package dts

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dtkit-go/dtkit/dt/index"
)

const indentUnit = "  "

// Emit writes idx as DTS source to w.
func Emit(w io.Writer, idx *index.Index) error {
	e := &emitter{w: w}
	e.printf("/dts-v1/;\n")
	for _, r := range idx.Reservations {
		e.printf("/memreserve/ %#x %#x;\n", r.Address, r.Size)
	}
	e.printf("\n")
	if len(idx.Nodes) > 0 {
		e.node(idx, 0)
	}
	return e.err
}

type emitter struct {
	w   io.Writer
	err error
}

func (e *emitter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *emitter) node(idx *index.Index, nodeIdx int) {
	n := &idx.Nodes[nodeIdx]
	indent := strings.Repeat(indentUnit, n.Level)
	name := n.Name
	if name == "" {
		name = "/"
	}
	e.printf("%s%s {\n", indent, name)

	propIndent := indent + indentUnit
	for _, p := range n.Properties {
		e.printf("%s%s\n", propIndent, renderProperty(p))
	}
	for _, childIdx := range n.ChildIdx {
		e.node(idx, childIdx)
	}
	e.printf("%s};\n", indent)
}

// knownCellProperties are properties whose value is defined by the
// devicetree binding to be numeric regardless of what its bytes happen to
// look like. A short numeric field flanked by zero bytes (a page-aligned
// `reg` entry, say) is trivially valid UTF-8 when split on NUL, so without
// this a byte-content heuristic alone would render it as a string list.
// Real device trees never carry a name that means one thing on one node and
// another on the next, so dispatching on these names ahead of the string
// heuristics is safe.
var knownCellProperties = map[string]bool{
	"reg":                 true,
	"ranges":              true,
	"dma-ranges":          true,
	"#address-cells":      true,
	"#size-cells":         true,
	"#interrupt-cells":    true,
	"#clock-cells":        true,
	"#gpio-cells":         true,
	"#reset-cells":        true,
	"#dma-cells":          true,
	"interrupts":          true,
	"interrupts-extended": true,
	"interrupt-map":       true,
	"interrupt-map-mask":  true,
	"interrupt-parent":    true,
	"phandle":             true,
	"linux,phandle":       true,
	"clocks":              true,
	"clock-frequency":     true,
	"bus-range":           true,
	"virtual-reg":         true,
}

// renderProperty formats one property per spec.md §4.12: strings (quoted)
// if the bytes form a valid NUL-terminated string or string list, else a
// cell vector if the length is 4-byte aligned, else a byte array.
// `compatible`'s multi-value form already falls out of the string-list case,
// so it needs no special handling. Properties whose binding fixes them as
// numeric (knownCellProperties) skip the string heuristics entirely, since
// their bytes can coincidentally look like printable text.
func renderProperty(p index.Property) string {
	if p.IsEmpty() {
		return p.Name + ";"
	}
	if !knownCellProperties[p.Name] {
		if s, err := p.AsString(); err == nil {
			return fmt.Sprintf("%s = %s;", p.Name, quoteString(s))
		}
		if list, ok := dtsStringList(p.Value); ok {
			parts := make([]string, len(list))
			for i, s := range list {
				parts[i] = quoteString(s)
			}
			return fmt.Sprintf("%s = %s;", p.Name, strings.Join(parts, ", "))
		}
	}
	if cells, err := p.AsCells(); err == nil {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = fmt.Sprintf("0x%x", c)
		}
		return fmt.Sprintf("%s = <%s>;", p.Name, strings.Join(parts, " "))
	}
	parts := make([]string, len(p.Value))
	for i, b := range p.Value {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return fmt.Sprintf("%s = [%s];", p.Name, strings.Join(parts, " "))
}

// dtsStringList reports whether value looks like a NUL-separated list of
// two or more non-empty, valid UTF-8 strings, distinct from AsStringList's
// parsing contract (which keeps empty segments so `compatible` round-trips
// through index/property.go unchanged). Empty segments here (leading or
// adjacent NULs, as in a cell value containing zero bytes) are skipped
// rather than appearing as "" entries, and do not count toward the two
// strings; they do not disqualify the value, which is why numeric
// properties are routed around this check by knownCellProperties.
func dtsStringList(value []byte) ([]string, bool) {
	if len(value) == 0 || value[len(value)-1] != 0 {
		return nil, false
	}
	var out []string
	start := 0
	for i, b := range value {
		if b != 0 {
			continue
		}
		if i > start {
			s := value[start:i]
			if !utf8.Valid(s) {
				return nil, false
			}
			out = append(out, string(s))
		}
		start = i + 1
	}
	if len(out) > 1 {
		return out, true
	}
	return nil, false
}

func quoteString(s string) string {
	return "\"" + escapeString(s) + "\""
}

func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString("\\\"")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
