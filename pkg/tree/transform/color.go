package transform

import (
	"github.com/matzehuels/mindgrove/pkg/tree"
)

// DefaultPalette is the depth-indexed color cycle, first entry being the
// root color.
var DefaultPalette = []string{
	"gold",
	"turquoise",
	"lavender",
	"aqua",
	"lightcoral",
	"lightsteelblue",
	"plum",
	"lightpink",
}

// Colorize assigns each node the palette color at its depth modulo the
// palette length. The root is colored too, at index 0. Assignment is a
// pure function of depth and palette - re-running it on an already colored
// tree changes nothing. An empty palette is a configuration error caught
// before the pipeline runs; here it is a no-op.
func Colorize(t *tree.Tree, palette []string) {
	if len(palette) == 0 {
		return
	}
	t.Walk(func(n *tree.Node) {
		n.Brush = palette[n.Depth%len(palette)]
	})
}

// Locate pins the root to a fixed planar location. A location supplied by
// the generator is left alone; any location on a non-root node is cleared.
func Locate(t *tree.Tree) {
	root, ok := t.Root()
	if !ok {
		return
	}
	if root.Loc == "" {
		root.Loc = tree.DefaultRootLoc
	}
	t.Walk(func(n *tree.Node) {
		if n.Key != root.Key {
			n.Loc = ""
		}
	})
}
