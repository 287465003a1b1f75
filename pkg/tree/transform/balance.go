package transform

import (
	"sort"

	"github.com/matzehuels/mindgrove/pkg/tree"
)

// Balance assigns left/right orientation to the root's main branches and
// propagates it to every descendant. Branches are taken heaviest first
// (weight = inclusive subtree size, ties by insertion order) and each goes
// to whichever side currently carries less total weight, ties to the left.
//
// This greedy two-way partition is a deterministic approximation, not an
// optimal split; it guarantees the side totals differ by at most the
// heaviest branch weight. The root itself never carries a direction.
func Balance(t *tree.Tree) {
	root, ok := t.Root()
	if !ok {
		return
	}
	root.Dir = ""

	branches := t.MainBranches()
	weighted := make([]struct {
		key    int
		weight int
	}, len(branches))
	for i, key := range branches {
		weighted[i].key = key
		weighted[i].weight = t.Weight(key)
	}
	sort.SliceStable(weighted, func(i, j int) bool {
		return weighted[i].weight > weighted[j].weight
	})

	left, right := 0, 0
	for _, branch := range weighted {
		dir := tree.DirRight
		if left <= right {
			dir = tree.DirLeft
			left += branch.weight
		} else {
			right += branch.weight
		}

		stack := []int{branch.key}
		for len(stack) > 0 {
			key := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if n, ok := t.Node(key); ok {
				n.Dir = dir
			}
			stack = append(stack, t.Children(key)...)
		}
	}
}
