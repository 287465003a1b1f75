package transform

import (
	"github.com/matzehuels/mindgrove/pkg/tree"
)

// Dedup removes duplicate sibling nodes and returns the number of nodes
// removed. For each parent, direct children are grouped by normalized text
// (trim, case-fold, whitespace collapse, diacritic strip); within a group
// the child that appears first in insertion order survives, the rest are
// dropped with their subtrees. Siblings only - equal text under different
// parents is never touched.
func Dedup(t *tree.Tree) int {
	removed := 0
	// Keys() is a snapshot, so sweeping mid-iteration is safe; parents of
	// already-removed subtrees simply have no children left to visit.
	for _, parent := range t.Keys() {
		removed += dedupSiblings(t, parent)
	}
	return removed
}

// dedupSiblings applies the sibling rule to the direct children of one
// parent. Merge uses it scoped to the synthetic root for cross-chunk
// duplicate main branches.
func dedupSiblings(t *tree.Tree, parent int) int {
	if _, ok := t.Node(parent); !ok {
		return 0
	}
	seen := make(map[string]bool)
	var losers []int
	for _, key := range t.Children(parent) {
		n, ok := t.Node(key)
		if !ok {
			continue
		}
		norm := NormalizeText(n.Text)
		if seen[norm] {
			losers = append(losers, key)
			continue
		}
		seen[norm] = true
	}
	return t.RemoveSubtrees(losers...)
}
