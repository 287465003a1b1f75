package transform

import (
	"strings"

	"github.com/matzehuels/mindgrove/pkg/tree"
)

// Language identifies the dominant script of a tree's text content.
// It selects the example-keyword set and the synthetic root label.
type Language string

const (
	LangArabic  Language = "arabic"
	LangEnglish Language = "english"
	LangUnknown Language = "unknown"
)

// arabicRatioThreshold: mixed content counts as Arabic once 30% of its
// letters are Arabic, since Arabic text frequently embeds Latin terms.
const arabicRatioThreshold = 0.3

// DetectLanguage classifies text as Arabic or English by character class.
// Text without any letters in either script is LangUnknown.
func DetectLanguage(text string) Language {
	arabic, english := 0, 0
	for _, r := range text {
		switch {
		case r >= 0x0600 && r <= 0x06FF, r >= 0x0750 && r <= 0x077F:
			arabic++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			english++
		}
	}
	total := arabic + english
	if total == 0 {
		return LangUnknown
	}
	if float64(arabic)/float64(total) > arabicRatioThreshold {
		return LangArabic
	}
	return LangEnglish
}

// DetectTreeLanguage classifies a tree by the concatenation of its node
// texts. An empty tree is LangUnknown.
func DetectTreeLanguage(t *tree.Tree) Language {
	var b strings.Builder
	t.Walk(func(n *tree.Node) {
		b.WriteString(n.Text)
		b.WriteByte(' ')
	})
	return DetectLanguage(b.String())
}
