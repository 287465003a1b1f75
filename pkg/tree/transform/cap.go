package transform

import (
	"sort"

	"github.com/matzehuels/mindgrove/pkg/tree"
)

// Cap removes nodes until the tree holds at most max nodes and returns the
// number removed. Removal order is deepest first, ties broken by reverse
// insertion order, so earlier-discovered, shallower content survives
// preferentially. Because every node deeper than a candidate is removed
// before it, the removed set is always subtree-closed: the cap never
// orphans a node it meant to keep.
func Cap(t *tree.Tree, max int) int {
	if max < 0 || t.Len() <= max {
		return 0
	}
	need := t.Len() - max

	order := t.Keys()
	index := make(map[int]int, len(order))
	for i, k := range order {
		index[k] = i
	}

	candidates := make([]int, 0, len(order))
	for _, k := range order {
		if !t.IsRoot(k) {
			candidates = append(candidates, k)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, _ := t.Node(candidates[i])
		b, _ := t.Node(candidates[j])
		if a.Depth != b.Depth {
			return a.Depth > b.Depth
		}
		return index[a.Key] > index[b.Key]
	})

	if need > len(candidates) {
		// Only the root can absorb the remainder (max == 0).
		return t.RemoveSubtrees(t.RootKey())
	}
	return t.RemoveSubtrees(candidates[:need]...)
}
