// Package render converts finalized mind-map trees into Graphviz DOT and
// renders them to SVG or PNG.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/mindgrove/pkg/tree"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes depth and direction in node labels.
	// When false, only the node text is shown.
	Detailed bool
}

// ToDOT converts a finalized tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [SVG] or [PNG].
//
// Node fill colors come from each node's brush; nodes without a brush fall
// back to white. The radial twopi layout places the root at the center
// with branches fanned around it.
func ToDOT(t *tree.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=twopi;\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	root, ok := t.Root()
	if ok {
		fmt.Fprintf(&buf, "  root=%s;\n", nodeID(root.Key))
	}

	t.Walk(func(n *tree.Node) {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed), t.IsRoot(n.Key))
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(n.Key), strings.Join(attrs, ", "))
	})

	buf.WriteString("\n")
	t.Walk(func(n *tree.Node) {
		for _, child := range t.Children(n.Key) {
			fmt.Fprintf(&buf, "  %s -- %s;\n", nodeID(n.Key), nodeID(child))
		}
	})

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(key int) string {
	return fmt.Sprintf("%q", fmt.Sprintf("n%d", key))
}

func fmtLabel(n *tree.Node, detailed bool) string {
	if !detailed {
		return n.Text
	}

	parts := []string{fmt.Sprintf("depth: %d", n.Depth)}
	if n.Dir != "" {
		parts = append(parts, fmt.Sprintf("dir: %s", n.Dir))
	}
	return n.Text + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *tree.Node, label string, isRoot bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Brush != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", n.Brush))
	}
	if isRoot {
		attrs = append(attrs, "fontsize=20", "penwidth=2")
	}
	return attrs
}
