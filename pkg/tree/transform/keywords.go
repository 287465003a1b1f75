package transform

// Keyword sets flagging nodes whose text denotes an example, story, or
// scenario. Matching is case-insensitive substring containment over the
// whitespace-collapsed text; a flagged node is removed together with its
// subtree, since nested content is assumed to be illustrative detail.

var englishExampleKeywords = []string{
	"example", "examples", "e.g.", "e.g", "for example",
	"case", "case study", "scenario", "story",
	"illustration", "experiment",
}

var arabicExampleKeywords = []string{
	"مثال", "امثلة", "مثلاً", "مثل", "على سبيل المثال",
	"قصة", "حكاية", "سيناريو", "تجربة", "توضيح", "حالة",
	"قصص", "حكايات", "سيناريوهات", "تجارب", "توضيحات", "حالات",
}

// ExampleKeywords returns the keyword set for the given language.
// An unknown language gets the union of all sets.
func ExampleKeywords(lang Language) []string {
	switch lang {
	case LangEnglish:
		return englishExampleKeywords
	case LangArabic:
		return arabicExampleKeywords
	default:
		union := make([]string, 0, len(englishExampleKeywords)+len(arabicExampleKeywords))
		union = append(union, englishExampleKeywords...)
		union = append(union, arabicExampleKeywords...)
		return union
	}
}
