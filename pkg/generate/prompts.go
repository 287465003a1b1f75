package generate

import (
	"strings"

	"github.com/matzehuels/mindgrove/pkg/tree/transform"
)

// Prompt templates per content language. {context} is replaced by the
// chunk content. The node list they request matches the engine's input
// contract: integer keys, one parentless root, short texts, loc on the
// root only; everything beyond that is recomputed by the pipeline anyway.

const englishPrompt = `You are an expert in creating detailed mind maps. Generate a comprehensive mind map in JSON format for the GoJS library from the provided text.

CRITICAL: respond with ONLY valid JSON - no explanatory text, no markdown fences. Start with { and end with }.

Expected format:
{
    "class": "go.TreeModel",
    "nodeDataArray": [
        {"key":0, "text":"Main Topic", "loc":"0 0"},
        {"key":1, "parent":0, "text":"First Point"},
        {"key":11, "parent":1, "text":"Sub-detail"}
    ]
}

Rules:
1. Extract the main ideas as primary nodes and supporting details as children.
2. Keep a clear hierarchical structure with unique numeric keys and proper parent pointers.
3. Exactly one node has no parent; only that root carries "loc".
4. Keep node texts short.

Analyze the following text and create a comprehensive mind map:

{context}`

const arabicPrompt = `أنت خبير في إنشاء الخرائط الذهنية المفصلة. قم بإنشاء خريطة ذهنية شاملة بصيغة JSON لمكتبة GoJS من النص المقدم.

هام: يجب أن يحتوي ردك على JSON صالح فقط - بدون نص توضيحي وبدون علامات markdown. ابدأ بـ { وانتهِ بـ }.

الصيغة المتوقعة:
{
    "class": "go.TreeModel",
    "nodeDataArray": [
        {"key":0, "text":"الموضوع الرئيسي", "loc":"0 0"},
        {"key":1, "parent":0, "text":"النقطة الأولى"},
        {"key":11, "parent":1, "text":"تفصيل فرعي"}
    ]
}

القواعد:
1. استخرج الأفكار الرئيسية كعقد أساسية والتفاصيل الداعمة كعقد فرعية.
2. حافظ على بنية هرمية واضحة بمفاتيح رقمية فريدة ومؤشرات أب صحيحة.
3. عقدة واحدة فقط بدون أب؛ هذه الجذر فقط تحمل "loc".
4. اجعل نصوص العقد قصيرة.

حلل النص التالي وأنشئ خريطة ذهنية شاملة:

{context}`

// Prompt renders the generation prompt for a chunk in the given language.
func Prompt(lang transform.Language, content string) string {
	template := englishPrompt
	if lang == transform.LangArabic {
		template = arabicPrompt
	}
	return strings.Replace(template, "{context}", content, 1)
}
