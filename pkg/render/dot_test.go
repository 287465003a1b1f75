package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/mindgrove/pkg/tree"
)

func buildTree(t *testing.T) *tree.Tree {
	t.Helper()
	tr := tree.New()
	nodes := []tree.Node{
		{Key: 1, Text: "Photosynthesis", Brush: "gold", Loc: "0 0"},
		{Key: 2, Parent: 1, Text: "Light reactions", Brush: "turquoise", Dir: "right"},
		{Key: 3, Parent: 1, Text: "Calvin cycle", Brush: "turquoise", Dir: "left"},
	}
	if err := tr.AddRoot(nodes[0]); err != nil {
		t.Fatalf("AddRoot() error = %v", err)
	}
	for _, n := range nodes[1:] {
		if err := tr.AddChild(n); err != nil {
			t.Fatalf("AddChild(%d) error = %v", n.Key, err)
		}
	}
	return tr
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(buildTree(t), Options{})

	for _, want := range []string{
		"graph G {",
		"layout=twopi",
		`root="n1"`,
		`"n1" [label="Photosynthesis", fillcolor="gold", fontsize=20, penwidth=2];`,
		`"n2" [label="Light reactions", fillcolor="turquoise"];`,
		`"n1" -- "n2";`,
		`"n1" -- "n3";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(buildTree(t), Options{Detailed: true})

	if !strings.Contains(dot, `label="Light reactions\ndepth: 1\ndir: right"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `label="Photosynthesis\ndepth: 0"`) {
		t.Errorf("root label should omit dir:\n%s", dot)
	}
}

func TestToDOTEmptyTree(t *testing.T) {
	dot := ToDOT(tree.New(), Options{})

	if !strings.Contains(dot, "graph G {") {
		t.Errorf("empty tree should still produce a graph header:\n%s", dot)
	}
	if strings.Contains(dot, "root=") {
		t.Errorf("empty tree should not name a root:\n%s", dot)
	}
}

func TestToDOTEscapesQuotes(t *testing.T) {
	tr := tree.New()
	if err := tr.AddRoot(tree.Node{Key: 1, Text: `say "hi"`}); err != nil {
		t.Fatalf("AddRoot() error = %v", err)
	}

	dot := ToDOT(tr, Options{})
	if !strings.Contains(dot, `label="say \"hi\""`) {
		t.Errorf("quotes not escaped:\n%s", dot)
	}
}
