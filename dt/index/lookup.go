package index

import (
	"fmt"
	"strings"
)

// GetByPath resolves an absolute path ("/soc/uart@0") or an alias-form path
// ("serial0", or "serial0/child" per spec.md §3's "textual substitution on
// the first path component") to a node index.
func (idx *Index) GetByPath(path string) (int, error) {
	if path == "" || path == "/" {
		if len(idx.Nodes) == 0 {
			return -1, fmt.Errorf("root: %w", ErrPathNotFound)
		}
		return 0, nil
	}
	if !strings.HasPrefix(path, "/") {
		head, rest, hasRest := strings.Cut(path, "/")
		target, ok := idx.AliasMap[head]
		if !ok {
			return -1, fmt.Errorf("alias %q: %w", head, ErrPathNotFound)
		}
		path = idx.Nodes[target].Path
		if hasRest {
			path = strings.TrimRight(path, "/") + "/" + rest
		} else {
			return target, nil
		}
	}
	if i, ok := idx.PathIndex[path]; ok {
		return i, nil
	}
	return -1, fmt.Errorf("path %q: %w", path, ErrPathNotFound)
}

// FindCompatible returns node indices whose `compatible` string list
// intersects any of the given strings, in document (pre-order) order, with
// no duplicates even if a node matches more than one argument.
func (idx *Index) FindCompatible(compat ...string) []int {
	seen := make(map[int]bool)
	var out []int
	for _, c := range compat {
		for _, i := range idx.CompatibleIndex[c] {
			if !seen[i] {
				seen[i] = true
				out = append(out, i)
			}
		}
	}
	sortInts(out)
	return out
}

// sortInts sorts in place; small helper kept local so this package does not
// need to decide between sort.Ints and slices.Sort for one call site.
func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// IterAll returns every node index in pre-order.
func (idx *Index) IterAll() []int {
	out := make([]int, len(idx.Nodes))
	for i := range out {
		out[i] = i
	}
	return out
}

// ChildrenOf returns the direct child indices of node i, in document order.
func (idx *Index) ChildrenOf(i int) []int {
	return idx.Nodes[i].ChildIdx
}

// PhandleLookup resolves a phandle value to a node index.
func (idx *Index) PhandleLookup(phandle uint32) (int, error) {
	i, ok := idx.PhandleMap[phandle]
	if !ok {
		return -1, fmt.Errorf("phandle %#x: %w", phandle, ErrPhandleNotFound)
	}
	return i, nil
}
