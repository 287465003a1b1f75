// Package generate defines the generator collaborator: the seam through
// which an external model proposes raw node lists for content chunks.
//
// The engine treats generators as black boxes that may fail or return
// malformed data. Everything coming through this seam flows into the
// normalizer, which repairs or rejects it; this package only extracts the
// JSON payload from whatever prose or fencing a model wraps around it.
package generate

import (
	"context"
	"strings"

	mgerrors "github.com/matzehuels/mindgrove/pkg/errors"
	"github.com/matzehuels/mindgrove/pkg/tree"
	"github.com/matzehuels/mindgrove/pkg/tree/transform"
	"github.com/matzehuels/mindgrove/pkg/treemodel"
)

// Generator produces a raw node list for one content chunk.
// Implementations may be called concurrently for independent chunks.
type Generator interface {
	Generate(ctx context.Context, content string) ([]tree.Record, error)
}

// Func adapts a plain function to the Generator interface.
type Func func(ctx context.Context, content string) ([]tree.Record, error)

// Generate implements Generator.
func (f Func) Generate(ctx context.Context, content string) ([]tree.Record, error) {
	return f(ctx, content)
}

// ExtractJSON pulls the JSON object out of a model response.
//
// Models wrap payloads in markdown fences and explanatory prose despite
// instructions not to; the strategies here mirror what they actually do:
// strip ```json fences, then cut from the first '{' to the last '}'.
// Returns a PARSE_ERROR when no object boundary is present at all.
func ExtractJSON(response string) ([]byte, error) {
	s := strings.TrimSpace(response)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, mgerrors.New(mgerrors.ErrCodeParse, "response contains no JSON object")
	}
	return []byte(s[start : end+1]), nil
}

// DecodeResponse extracts and decodes a model response into raw records.
func DecodeResponse(response string) ([]tree.Record, treemodel.DecodeReport, error) {
	payload, err := ExtractJSON(response)
	if err != nil {
		return nil, treemodel.DecodeReport{}, err
	}
	return treemodel.DecodeRecords(payload)
}

// Fallback returns the minimal two-node record list used when generation
// fails outright: callers that prefer a degenerate map over an error can
// still hand the consumer something renderable.
func Fallback(lang transform.Language) []tree.Record {
	rootText, pointText := "Educational Content", "Main Point"
	if lang == transform.LangArabic {
		rootText, pointText = "محتوى تعليمي", "نقطة رئيسية"
	}
	return []tree.Record{
		{Key: 0, Text: rootText, Loc: tree.DefaultRootLoc},
		{Key: 1, Parent: 0, HasParent: true, Text: pointText, Dir: tree.DirRight},
	}
}
