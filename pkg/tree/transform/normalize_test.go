package transform

import (
	"testing"

	mgerrors "github.com/matzehuels/mindgrove/pkg/errors"
	"github.com/matzehuels/mindgrove/pkg/tree"
)

func child(key int, text string, parent int) tree.Record {
	return tree.Record{Key: key, Text: text, Parent: parent, HasParent: true}
}

func mustNormalize(t *testing.T, records []tree.Record) *tree.Tree {
	t.Helper()
	tr, _, err := Normalize(records)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	return tr
}

func TestNormalizeWellFormed(t *testing.T) {
	tr, report, err := Normalize([]tree.Record{
		{Key: 1, Text: "Root"},
		child(2, "A", 1),
		child(3, "B", 1),
		child(4, "A1", 2),
	})
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if !report.Clean() {
		t.Errorf("report = %+v, want clean", report)
	}
	if tr.Len() != 4 {
		t.Errorf("Len() = %d, want 4", tr.Len())
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	tr, report, err := Normalize(nil)
	if err != nil {
		t.Fatalf("Normalize(nil) error: %v", err)
	}
	if tr.Len() != 0 || !report.Clean() {
		t.Errorf("empty input: Len() = %d, report = %+v", tr.Len(), report)
	}
}

func TestNormalizeRootCount(t *testing.T) {
	tests := []struct {
		name    string
		records []tree.Record
	}{
		{"no root", []tree.Record{child(1, "A", 9), child(2, "B", 1)}},
		{"two roots", []tree.Record{{Key: 1, Text: "R1"}, {Key: 2, Text: "R2"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Normalize(tt.records)
			if !mgerrors.Is(err, mgerrors.ErrCodeIntegrity) {
				t.Errorf("Normalize() error = %v, want integrity error", err)
			}
		})
	}
}

func TestNormalizeDuplicateKeys(t *testing.T) {
	tr, report, err := Normalize([]tree.Record{
		{Key: 1, Text: "Root"},
		child(2, "first", 1),
		child(2, "second", 1),
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.DuplicateKeys != 1 {
		t.Errorf("DuplicateKeys = %d, want 1", report.DuplicateKeys)
	}
	n, _ := tr.Node(2)
	if n.Text != "first" {
		t.Errorf("kept text = %q, want first occurrence", n.Text)
	}
}

func TestNormalizeEmptyText(t *testing.T) {
	tr, report, err := Normalize([]tree.Record{
		{Key: 1, Text: "Root"},
		child(2, "   ", 1),
		child(3, "under blank", 2),
		child(4, "kept", 1),
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.EmptyText != 1 {
		t.Errorf("EmptyText = %d, want 1", report.EmptyText)
	}
	if report.Unreachable != 1 {
		t.Errorf("Unreachable = %d, want 1 (descendant of blank node)", report.Unreachable)
	}
	if tr.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tr.Len())
	}
}

func TestNormalizeDanglingParent(t *testing.T) {
	tr, report, err := Normalize([]tree.Record{
		{Key: 1, Text: "Root"},
		child(2, "ok", 1),
		child(3, "orphan", 77),
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Unreachable != 1 {
		t.Errorf("Unreachable = %d, want 1", report.Unreachable)
	}
	if _, ok := tr.Node(3); ok {
		t.Error("orphan should be dropped")
	}
}

func TestNormalizeCycle(t *testing.T) {
	tr, report, err := Normalize([]tree.Record{
		{Key: 1, Text: "Root"},
		child(2, "self", 2),
		child(3, "a", 4),
		child(4, "b", 3),
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Unreachable != 3 {
		t.Errorf("Unreachable = %d, want 3", report.Unreachable)
	}
	if tr.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (root only)", tr.Len())
	}
}

func TestNormalizeTrimsText(t *testing.T) {
	tr := mustNormalize(t, []tree.Record{
		{Key: 1, Text: "  Root  "},
		child(2, "\tchild\n", 1),
	})
	root, _ := tr.Root()
	if root.Text != "Root" {
		t.Errorf("root text = %q", root.Text)
	}
	n, _ := tr.Node(2)
	if n.Text != "child" {
		t.Errorf("child text = %q", n.Text)
	}
}

func TestNormalizeBreadthFirstOrder(t *testing.T) {
	// Records arrive depth-first and out of order; normalization re-orders
	// breadth first.
	tr := mustNormalize(t, []tree.Record{
		child(4, "deep", 2),
		child(2, "A", 1),
		{Key: 1, Text: "Root"},
		child(3, "B", 1),
	})
	keys := tr.Keys()
	want := []int{1, 2, 3, 4}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
	}
}

func TestReportAdd(t *testing.T) {
	a := Report{DuplicateKeys: 1, EmptyText: 2}
	b := Report{EmptyText: 1, Unreachable: 3}
	sum := a.Add(b)
	if sum.DuplicateKeys != 1 || sum.EmptyText != 3 || sum.Unreachable != 3 {
		t.Errorf("Add() = %+v", sum)
	}
	if sum.Total() != 7 {
		t.Errorf("Total() = %d, want 7", sum.Total())
	}
}
