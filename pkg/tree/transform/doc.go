// Package transform implements the pipeline stages that turn a raw,
// AI-proposed node list into a bounded, balanced mind-map tree.
//
// Each stage is pure and total over its input: well-formed structural
// input never panics, malformed input is repaired or rejected up front.
// The stages run strictly top to bottom:
//
//	Normalize → Merge → PruneDepth → PruneExamples → Dedup → Cap →
//	Balance → Colorize → Locate
//
// Merge only participates when long content was split into overlapping
// chunk windows; single-chunk trees skip it. Running the full sequence a
// second time over its own output is a no-op.
package transform
