package treemodel

import (
	"github.com/matzehuels/mindgrove/pkg/tree"
)

// ModelClass is the fixed discriminator identifying the artifact schema
// for the graph-visualization consumer.
const ModelClass = "go.TreeModel"

// TreeModel is the final artifact handed to consumers and stores.
// The node order is the tree's insertion order, root first; the format is
// designed for round-trip fidelity: export → re-import → re-process
// produces an identical artifact.
type TreeModel struct {
	Class         string     `json:"class" bson:"class"`
	NodeDataArray []NodeData `json:"nodeDataArray" bson:"nodeDataArray"`
}

// NodeData is one node record of the artifact. Parent is absent on the
// root only; Loc is present on the root only; Brush and Dir are set on
// every non-root node by the pipeline.
type NodeData struct {
	Key    int    `json:"key" bson:"key"`
	Text   string `json:"text" bson:"text"`
	Parent *int   `json:"parent,omitempty" bson:"parent,omitempty"`
	Brush  string `json:"brush,omitempty" bson:"brush,omitempty"`
	Dir    string `json:"dir,omitempty" bson:"dir,omitempty"`
	Loc    string `json:"loc,omitempty" bson:"loc,omitempty"`
}

// FromTree converts a finished tree into its artifact form, preserving
// insertion order.
func FromTree(t *tree.Tree) TreeModel {
	m := TreeModel{Class: ModelClass, NodeDataArray: make([]NodeData, 0, t.Len())}
	for _, key := range t.Keys() {
		n, ok := t.Node(key)
		if !ok {
			continue
		}
		data := NodeData{
			Key:   n.Key,
			Text:  n.Text,
			Brush: n.Brush,
			Dir:   n.Dir,
			Loc:   n.Loc,
		}
		if !t.IsRoot(key) {
			parent := n.Parent
			data.Parent = &parent
		}
		m.NodeDataArray = append(m.NodeDataArray, data)
	}
	return m
}

// Records converts the artifact back into raw records for normalization.
// Re-running the pipeline over its own artifact starts here.
func (m TreeModel) Records() []tree.Record {
	records := make([]tree.Record, 0, len(m.NodeDataArray))
	for _, d := range m.NodeDataArray {
		r := tree.Record{
			Key:   d.Key,
			Text:  d.Text,
			Brush: d.Brush,
			Dir:   d.Dir,
			Loc:   d.Loc,
		}
		if d.Parent != nil {
			r.Parent = *d.Parent
			r.HasParent = true
		}
		records = append(records, r)
	}
	return records
}

// NodeCount returns the number of node records in the artifact.
func (m TreeModel) NodeCount() int { return len(m.NodeDataArray) }
