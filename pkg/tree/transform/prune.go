package transform

import (
	"strings"

	"github.com/matzehuels/mindgrove/pkg/tree"
)

// DepthUnlimited disables depth pruning.
const DepthUnlimited = -1

// PruneDepth removes every node deeper than maxDepth together with its
// subtree and returns the number of nodes removed. A negative maxDepth
// disables pruning. Surviving depths are untouched - subtree removal
// never changes an ancestor chain.
func PruneDepth(t *tree.Tree, maxDepth int) int {
	if maxDepth < 0 {
		return 0
	}
	var frontier []int
	t.Walk(func(n *tree.Node) {
		if n.Depth == maxDepth+1 {
			frontier = append(frontier, n.Key)
		}
	})
	return t.RemoveSubtrees(frontier...)
}

// PruneExamples removes nodes whose text denotes an example, story, or
// scenario, together with their subtrees, and returns the number of nodes
// removed. The keyword set is chosen by lang; matching is case-insensitive
// substring containment. A flagged root empties the tree.
func PruneExamples(t *tree.Tree, lang Language) int {
	keywords := ExampleKeywords(lang)
	var flagged []int
	t.Walk(func(n *tree.Node) {
		text := strings.ToLower(CollapseWhitespace(n.Text))
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				flagged = append(flagged, n.Key)
				break
			}
		}
	})
	return t.RemoveSubtrees(flagged...)
}
