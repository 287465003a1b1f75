package transform

import (
	"strings"

	mgerrors "github.com/matzehuels/mindgrove/pkg/errors"
	"github.com/matzehuels/mindgrove/pkg/tree"
)

// Report counts the local repairs applied while normalizing a raw node
// list. It is a side artifact of normalization, never part of the tree.
type Report struct {
	// DuplicateKeys counts records dropped because an earlier record
	// already claimed their key (first occurrence wins).
	DuplicateKeys int

	// EmptyText counts records dropped because their text was empty
	// after trimming. Their descendants show up under Unreachable.
	EmptyText int

	// Unreachable counts records dropped because their parent is missing,
	// forms a cycle, or was itself dropped.
	Unreachable int
}

// Total returns the number of records repaired away.
func (r Report) Total() int { return r.DuplicateKeys + r.EmptyText + r.Unreachable }

// Clean reports whether normalization changed nothing.
func (r Report) Clean() bool { return r.Total() == 0 }

// Add returns the field-wise sum of two reports. Useful when normalizing
// several chunks of the same request.
func (r Report) Add(other Report) Report {
	return Report{
		DuplicateKeys: r.DuplicateKeys + other.DuplicateKeys,
		EmptyText:     r.EmptyText + other.EmptyText,
		Unreachable:   r.Unreachable + other.Unreachable,
	}
}

// Normalize validates and repairs a raw node list into a well-formed tree.
//
// Records are classified as RootCandidate or ChildRecord up front; a
// non-empty list must contain exactly one RootCandidate or normalization
// fails with an INTEGRITY_ERROR and no partial output. Everything else is
// repaired, not fatal: duplicate keys keep the first occurrence, text is
// trimmed and blank nodes are dropped with their subtrees, and records
// whose parent chain is missing or cyclic are dropped with their
// descendants. Depths are assigned by breadth-first traversal from the
// root, which also fixes the tree's insertion order.
//
// An empty record list yields an empty tree - that is a valid terminal
// shape, not an error.
func Normalize(records []tree.Record) (*tree.Tree, Report, error) {
	t := tree.New()
	var report Report
	if len(records) == 0 {
		return t, report, nil
	}

	seen := make(map[int]bool, len(records))
	kept := make([]tree.Record, 0, len(records))
	roots := 0
	for _, r := range records {
		if seen[r.Key] {
			report.DuplicateKeys++
			continue
		}
		seen[r.Key] = true

		r.Text = strings.TrimSpace(r.Text)
		if r.Text == "" {
			report.EmptyText++
			continue
		}
		if r.HasParent && r.Parent == r.Key {
			// Self-reference is the smallest cycle.
			report.Unreachable++
			continue
		}
		if r.Kind() == tree.RootCandidate {
			roots++
		}
		kept = append(kept, r)
	}

	if roots != 1 {
		return nil, Report{}, mgerrors.New(mgerrors.ErrCodeIntegrity,
			"raw node list has %d roots, want exactly 1", roots)
	}

	var root tree.Record
	pending := make(map[int][]tree.Record)
	for _, r := range kept {
		if r.Kind() == tree.RootCandidate {
			root = r
			continue
		}
		pending[r.Parent] = append(pending[r.Parent], r)
	}

	if err := t.AddRoot(tree.Node{Key: root.Key, Text: root.Text, Loc: root.Loc}); err != nil {
		return nil, Report{}, mgerrors.Wrap(mgerrors.ErrCodeInternal, err, "add root")
	}

	attached := 1
	queue := []int{root.Key}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for _, r := range pending[parent] {
			err := t.AddChild(tree.Node{
				Key:    r.Key,
				Parent: r.Parent,
				Text:   r.Text,
				Brush:  r.Brush,
				Dir:    r.Dir,
			})
			if err != nil {
				// Key collisions were resolved above; nothing else fails here.
				report.Unreachable++
				continue
			}
			attached++
			queue = append(queue, r.Key)
		}
	}

	// Whatever the traversal never reached hangs off a missing parent or
	// sits on a cycle.
	report.Unreachable += len(kept) - attached

	return t, report, nil
}
