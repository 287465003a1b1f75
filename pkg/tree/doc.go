// Package tree provides the arena-backed rooted tree that flows through the
// mind-map pipeline.
//
// A [Tree] owns its nodes exclusively: a flat key→node map, a
// parent→children index, and an insertion-order journal that determines the
// order of the final artifact. All subtree operations are iterative sweeps
// over the index rather than pointer recursion, so deeply nested input
// cannot overflow the stack.
//
// [Record] is the raw, loosely-specified input handed over by a generator;
// [Tree] is the validated structure produced from records by the transform
// package. [Tree.Validate] checks the invariants every finished pipeline
// run must satisfy.
package tree
