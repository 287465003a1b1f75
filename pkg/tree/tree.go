package tree

import (
	"errors"
	"slices"
)

var (
	// ErrDuplicateKey is returned by [Tree.AddRoot] and [Tree.AddChild] when
	// a node with the same key already exists. Keys must be unique per tree.
	ErrDuplicateKey = errors.New("duplicate node key")

	// ErrUnknownParent is returned by [Tree.AddChild] when the parent key
	// does not exist in the tree.
	ErrUnknownParent = errors.New("unknown parent node")

	// ErrMissingRoot is returned by [Tree.AddChild] before a root exists and
	// by [Tree.Validate] for a tree that lost its root.
	ErrMissingRoot = errors.New("tree has no root")

	// ErrMultipleRoots is returned by [Tree.AddRoot] when a root is already
	// present. A tree has exactly one root.
	ErrMultipleRoots = errors.New("tree already has a root")

	// ErrDepthMismatch is returned by [Tree.Validate] when a child's depth
	// is not its parent's depth plus one.
	ErrDepthMismatch = errors.New("child depth must be parent depth plus one")

	// ErrUnreachableNode is returned by [Tree.Validate] when a node cannot
	// be reached from the root by following parent links. This indicates
	// either a dangling parent reference or a parent cycle.
	ErrUnreachableNode = errors.New("node not reachable from root")
)

// Direction values assigned to main branches and their descendants.
const (
	DirLeft  = "left"
	DirRight = "right"
)

// DefaultRootLoc is the fixed planar coordinate assigned to a root that
// arrives without one. No other node ever carries a location.
const DefaultRootLoc = "0 0"

// Node is a single mind-map node. Key is the stable identity within a tree;
// Parent is meaningful only for non-root nodes (the tree knows its root).
// Depth, Brush and Dir are derived by the pipeline, never author-set.
// Loc is carried by the root only.
type Node struct {
	Key    int
	Parent int
	Text   string
	Depth  int
	Brush  string
	Dir    string
	Loc    string
}

// Tree is an arena-backed rooted tree: a flat key→node map plus a
// parent→children index and an insertion-order journal. Subtree removal is
// an iterative reachability sweep over the index, so pathological depths
// never hit recursion limits.
//
// The zero value is not usable - use New. Tree is not safe for concurrent
// use without external synchronization.
type Tree struct {
	nodes    map[int]*Node
	children map[int][]int
	order    []int
	root     int
	hasRoot  bool
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{
		nodes:    make(map[int]*Node),
		children: make(map[int][]int),
	}
}

// AddRoot inserts the root node. Returns ErrMultipleRoots if a root is
// already present or ErrDuplicateKey if the key is taken.
func (t *Tree) AddRoot(n Node) error {
	if t.hasRoot {
		return ErrMultipleRoots
	}
	if _, exists := t.nodes[n.Key]; exists {
		return ErrDuplicateKey
	}
	n.Parent = 0
	n.Depth = 0
	node := &n
	t.nodes[node.Key] = node
	t.order = append(t.order, node.Key)
	t.root = node.Key
	t.hasRoot = true
	return nil
}

// AddChild inserts a non-root node under its Parent key. The child's depth
// is derived from the parent. Returns ErrMissingRoot before a root exists,
// ErrDuplicateKey for a reused key, or ErrUnknownParent when the parent is
// not in the tree.
func (t *Tree) AddChild(n Node) error {
	if !t.hasRoot {
		return ErrMissingRoot
	}
	if _, exists := t.nodes[n.Key]; exists {
		return ErrDuplicateKey
	}
	parent, ok := t.nodes[n.Parent]
	if !ok {
		return ErrUnknownParent
	}
	n.Depth = parent.Depth + 1
	node := &n
	t.nodes[node.Key] = node
	t.children[node.Parent] = append(t.children[node.Parent], node.Key)
	t.order = append(t.order, node.Key)
	return nil
}

// Node returns the node with the given key and true, or nil and false.
// The pointer refers to the live node, so field edits are visible to the
// tree (keys and parents must not be edited this way).
func (t *Tree) Node(key int) (*Node, bool) {
	n, ok := t.nodes[key]
	return n, ok
}

// Root returns the root node, or nil and false for an empty tree.
func (t *Tree) Root() (*Node, bool) {
	if !t.hasRoot {
		return nil, false
	}
	return t.nodes[t.root], true
}

// RootKey returns the root's key; valid only when Len() > 0.
func (t *Tree) RootKey() int { return t.root }

// IsRoot reports whether key is the root of the tree.
func (t *Tree) IsRoot(key int) bool { return t.hasRoot && key == t.root }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Children returns the child keys of a node in insertion order.
// The returned slice is a read-only view.
func (t *Tree) Children(key int) []int { return t.children[key] }

// MainBranches returns the root's direct children, the unit of left/right
// balancing. Returns nil for an empty or root-only tree.
func (t *Tree) MainBranches() []int {
	if !t.hasRoot {
		return nil
	}
	return t.children[t.root]
}

// Keys returns all node keys in insertion order.
func (t *Tree) Keys() []int { return slices.Clone(t.order) }

// MaxKey returns the largest key in the tree, or 0 if empty.
func (t *Tree) MaxKey() int {
	max := 0
	for k := range t.nodes {
		if k > max {
			max = k
		}
	}
	return max
}

// Walk visits every node in breadth-first order starting at the root.
// Children are visited in insertion order. Walk does nothing on an empty
// tree.
func (t *Tree) Walk(fn func(n *Node)) {
	if !t.hasRoot {
		return
	}
	queue := []int{t.root}
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		fn(t.nodes[key])
		queue = append(queue, t.children[key]...)
	}
}

// Weight returns the inclusive subtree size rooted at key, or 0 when the
// key is absent. Computed iteratively over the children index.
func (t *Tree) Weight(key int) int {
	if _, ok := t.nodes[key]; !ok {
		return 0
	}
	count := 0
	stack := []int{key}
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, t.children[k]...)
	}
	return count
}

// RemoveSubtrees removes each listed node together with its entire subtree
// and returns the number of nodes removed. Removing the root empties the
// tree. Unknown keys are ignored.
func (t *Tree) RemoveSubtrees(keys ...int) int {
	doomed := make(map[int]bool)
	stack := make([]int, 0, len(keys))
	for _, k := range keys {
		if _, ok := t.nodes[k]; ok && !doomed[k] {
			doomed[k] = true
			stack = append(stack, k)
		}
	}
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range t.children[k] {
			if !doomed[c] {
				doomed[c] = true
				stack = append(stack, c)
			}
		}
	}
	if len(doomed) == 0 {
		return 0
	}

	for k := range doomed {
		parent := t.nodes[k].Parent
		delete(t.nodes, k)
		delete(t.children, k)
		if t.hasRoot && k == t.root {
			t.hasRoot = false
			continue
		}
		// A doomed parent's entry is deleted in its own iteration; writing
		// to it here would resurrect a stale key in the children map.
		if !doomed[parent] {
			t.children[parent] = slices.DeleteFunc(t.children[parent], func(c int) bool { return c == k })
		}
	}
	t.order = slices.DeleteFunc(t.order, func(k int) bool { return doomed[k] })
	return len(doomed)
}

// Clone returns a deep copy with identical keys, ordering and node values.
func (t *Tree) Clone() *Tree {
	out := New()
	out.root = t.root
	out.hasRoot = t.hasRoot
	out.order = slices.Clone(t.order)
	for k, n := range t.nodes {
		copied := *n
		out.nodes[k] = &copied
	}
	for k, kids := range t.children {
		out.children[k] = slices.Clone(kids)
	}
	return out
}
