package chunk

import (
	"strings"
	"testing"
	"time"
)

func TestSplitShortText(t *testing.T) {
	chunks := Split("a short text.", Options{Size: 100, Overlap: 10})
	if len(chunks) != 1 || chunks[0] != "a short text." {
		t.Errorf("chunks = %v, want the text unchanged", chunks)
	}
}

func TestSplitNonPositiveSize(t *testing.T) {
	text := strings.Repeat("x", 500)
	chunks := Split(text, Options{Size: 0})
	if len(chunks) != 1 || chunks[0] != text {
		t.Errorf("non-positive size should return one chunk, got %d", len(chunks))
	}
}

func TestSplitOverlap(t *testing.T) {
	// Sentences sized so each window ends on a boundary.
	var b strings.Builder
	for range 20 {
		b.WriteString(strings.Repeat("word ", 8))
		b.WriteString("end.")
	}
	text := b.String()

	chunks := Split(text, Options{Size: 100, Overlap: 20})
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len([]rune(c)) > 100 {
			t.Errorf("chunk %d has %d runes, want <= 100", i, len([]rune(c)))
		}
	}
	// Every character of the source must appear in some chunk.
	joined := strings.Join(chunks, "")
	if !strings.Contains(joined, "end.") {
		t.Error("chunk content lost")
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	first := strings.Repeat("a", 70) + "."
	text := first + " " + strings.Repeat("b", 200)

	chunks := Split(text, Options{Size: 100, Overlap: 0})
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if chunks[0] != first {
		t.Errorf("first chunk = %q, want cut at the sentence boundary", chunks[0])
	}
}

func TestSplitBoundaryTooEarly(t *testing.T) {
	// A period in the first half of the window is ignored.
	text := "x." + strings.Repeat("y", 300)
	chunks := Split(text, Options{Size: 100, Overlap: 0})
	if got := len([]rune(chunks[0])); got != 100 {
		t.Errorf("first chunk length = %d, want full window", got)
	}
}

func TestSplitAdvancesPastBoundaryCut(t *testing.T) {
	// A boundary cut at ~0.65 of the window combined with a large overlap
	// would restart the next window before the cut. Split must still make
	// progress and terminate.
	text := strings.Repeat("x", 64) + ". " + strings.Repeat("y", 200)

	done := make(chan []string, 1)
	go func() { done <- Split(text, Options{Size: 100, Overlap: 70}) }()

	select {
	case chunks := <-done:
		if len(chunks) == 0 {
			t.Fatal("expected chunks")
		}
		joined := strings.Join(chunks, "")
		if !strings.Contains(joined, strings.Repeat("y", 200)) {
			t.Error("tail of the content lost")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Split did not terminate")
	}
}

func TestSplitArabicQuestionMark(t *testing.T) {
	first := strings.Repeat("ا", 80) + "؟"
	text := first + strings.Repeat("ب", 100)
	chunks := Split(text, Options{Size: 100, Overlap: 0})
	if chunks[0] != first {
		t.Errorf("first chunk = %q, want cut at the Arabic question mark", chunks[0])
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"whitespace runs", "a  b\t\nc", "a b c"},
		{"private use glyphs", "ab", "ab"},
		{"leading trailing", "  text  ", "text"},
		{"arabic preserved", "دورة الماء", "دورة الماء"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
