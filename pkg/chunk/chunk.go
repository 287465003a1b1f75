// Package chunk splits long content into overlapping character windows for
// multi-pass mind-map generation. Chunks are ephemeral: they exist only
// between content intake and the merge of per-chunk partial trees.
package chunk

import (
	"strings"
	"unicode"
)

// Default window geometry in characters.
const (
	DefaultSize    = 1800
	DefaultOverlap = 250
)

// boundaryShare is the minimum fraction of a window a sentence boundary
// must preserve for the window to end there instead of mid-sentence.
const boundaryShare = 0.6

// Options configures splitting. Size and Overlap are measured in runes so
// multi-byte scripts never split inside a character.
type Options struct {
	Size    int
	Overlap int
}

// Split cuts text into chunks of at most opts.Size runes, each overlapping
// its successor by opts.Overlap runes. Windows prefer to end at a sentence
// boundary (. ! ? or newline) when one falls late enough in the window.
// A non-positive size returns the text as a single chunk.
func Split(text string, opts Options) []string {
	if opts.Size <= 0 {
		return []string{text}
	}
	if opts.Overlap < 0 {
		opts.Overlap = 0
	}

	runes := []rune(text)
	n := len(runes)
	var chunks []string
	start := 0
	for start < n {
		end := min(n, start+opts.Size)
		if end < n {
			if cut := lastBoundary(runes[start:end]); cut >= 0 && cut+1 > int(float64(opts.Size)*boundaryShare) {
				end = start + cut + 1
			}
		}
		if c := strings.TrimSpace(string(runes[start:end])); c != "" {
			chunks = append(chunks, c)
		}
		if end >= n {
			break
		}
		// The next window must start past the current one even when a
		// boundary cut plus the overlap would step backwards.
		start = max(start+1, end-opts.Overlap)
	}
	return chunks
}

func lastBoundary(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		switch window[i] {
		case '.', '!', '?', '\n', '؟':
			return i
		}
	}
	return -1
}

// Sanitize normalizes content before chunking: private-use glyphs (common
// in PDF extractions) are removed and whitespace runs collapse to single
// spaces.
func Sanitize(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	space := false
	for _, r := range content {
		if unicode.In(r, unicode.Co) {
			continue
		}
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
