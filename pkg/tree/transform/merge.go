package transform

import (
	"github.com/matzehuels/mindgrove/pkg/tree"
)

// Synthetic root labels by content language. The synthetic root exists
// only when more than one chunk contributed a partial tree.
const (
	MergedRootLabelEnglish = "Comprehensive Mind Map"
	MergedRootLabelArabic  = "خريطة شاملة"
)

// SyntheticRootKey is the key reserved for a merge-created root. Chunk
// nodes are re-keyed into the range starting at 1, so it never collides.
const SyntheticRootKey = 0

// MergeOptions configures cross-chunk merging.
type MergeOptions struct {
	// Label is the synthetic root's text. Empty selects the English label.
	Label string

	// Dedup drops duplicate main branches produced by overlapping chunk
	// windows, using the sibling rule scoped to the synthetic root.
	Dedup bool
}

// MergedRootLabel returns the synthetic root label for a language.
func MergedRootLabel(lang Language) string {
	if lang == LangArabic {
		return MergedRootLabelArabic
	}
	return MergedRootLabelEnglish
}

// Merge combines per-chunk partial trees into a single tree.
//
// A single part passes through unchanged, and no parts yield an empty
// tree. Otherwise a synthetic root is created and every chunk is re-keyed
// into one global key space by a per-chunk offset - computed once, up
// front, from each chunk's own key range and a running total - preserving
// each chunk's internal structure and insertion order. Each re-keyed chunk
// root becomes a direct child of the synthetic root, in chunk order, with
// its location cleared (only the global root carries one). Empty parts
// are skipped.
func Merge(parts []*tree.Tree, opts MergeOptions) *tree.Tree {
	nonEmpty := make([]*tree.Tree, 0, len(parts))
	for _, p := range parts {
		if p != nil && p.Len() > 0 {
			nonEmpty = append(nonEmpty, p)
		}
	}
	switch len(nonEmpty) {
	case 0:
		return tree.New()
	case 1:
		return nonEmpty[0]
	}

	label := opts.Label
	if label == "" {
		label = MergedRootLabelEnglish
	}

	merged := tree.New()
	// AddRoot on a fresh tree only fails on key reuse, impossible here.
	_ = merged.AddRoot(tree.Node{Key: SyntheticRootKey, Text: label, Loc: tree.DefaultRootLoc})

	// Offsets place chunk i's keys directly after chunk i-1's range.
	next := SyntheticRootKey + 1
	for _, part := range nonEmpty {
		offset := next - minKey(part)
		next += part.MaxKey() - minKey(part) + 1

		for _, key := range part.Keys() {
			n, _ := part.Node(key)
			if part.IsRoot(key) {
				_ = merged.AddChild(tree.Node{
					Key:    n.Key + offset,
					Parent: SyntheticRootKey,
					Text:   n.Text,
				})
				continue
			}
			_ = merged.AddChild(tree.Node{
				Key:    n.Key + offset,
				Parent: n.Parent + offset,
				Text:   n.Text,
				Brush:  n.Brush,
				Dir:    n.Dir,
			})
		}
	}

	if opts.Dedup {
		dedupSiblings(merged, merged.RootKey())
	}
	return merged
}

func minKey(t *tree.Tree) int {
	min := 0
	first := true
	for _, k := range t.Keys() {
		if first || k < min {
			min = k
			first = false
		}
	}
	return min
}
