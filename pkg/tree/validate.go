package tree

// Validate checks the structural invariants that must hold after every
// completed pipeline run:
//
//  1. Exactly one root with depth 0 (empty trees are valid)
//  2. Every non-root parent key exists and every node is reachable from
//     the root by following parent links (no dangling refs, no cycles)
//  3. depth(child) == depth(parent) + 1 for every edge
//
// Returns nil for an empty tree - that is a legitimate terminal shape.
func (t *Tree) Validate() error {
	if len(t.nodes) == 0 {
		return nil
	}
	root, ok := t.Root()
	if !ok {
		return ErrMissingRoot
	}
	if root.Depth != 0 {
		return ErrDepthMismatch
	}

	seen := map[int]bool{root.Key: true}
	queue := []int{root.Key}
	reached := 1
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		parent := t.nodes[key]
		for _, c := range t.children[key] {
			child, exists := t.nodes[c]
			if !exists || seen[c] {
				continue
			}
			if child.Depth != parent.Depth+1 {
				return ErrDepthMismatch
			}
			seen[c] = true
			reached++
			queue = append(queue, c)
		}
	}
	if reached != len(t.nodes) {
		return ErrUnreachableNode
	}
	return nil
}
