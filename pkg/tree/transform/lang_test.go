package transform

import (
	"testing"

	"github.com/matzehuels/mindgrove/pkg/tree"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Language
	}{
		{"english", "The water cycle describes evaporation and rain.", LangEnglish},
		{"arabic", "دورة الماء تصف التبخر والمطر", LangArabic},
		{"mixed mostly arabic", "دورة الماء water", LangArabic},
		{"mixed mostly english", "evaporation and condensation of الماء in the atmosphere", LangEnglish},
		{"digits only", "12345 67890", LangUnknown},
		{"empty", "", LangUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLanguage(tt.text); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectTreeLanguage(t *testing.T) {
	tr := mustNormalize(t, []tree.Record{
		{Key: 1, Text: "الجاذبية"},
		child(2, "قانون نيوتن", 1),
	})
	if got := DetectTreeLanguage(tr); got != LangArabic {
		t.Errorf("DetectTreeLanguage() = %q, want arabic", got)
	}
	if got := DetectTreeLanguage(tree.New()); got != LangUnknown {
		t.Errorf("empty tree language = %q, want unknown", got)
	}
}

func TestExampleKeywordsUnknownUnion(t *testing.T) {
	union := ExampleKeywords(LangUnknown)
	if len(union) != len(englishExampleKeywords)+len(arabicExampleKeywords) {
		t.Errorf("union size = %d", len(union))
	}
}
