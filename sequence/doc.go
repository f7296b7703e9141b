// Package sequence generates randomized clip orderings under a
// same-category spacing constraint.
//
// Given a catalog of clips tagged with a category and a color, the package
// filters the catalog into a per-category pool, decides up front whether a
// requested sequence length is achievable (Analyze), builds a shuffled
// ordering in which two clips of the same category are always separated by
// at least MinSpacing other clips (Generate), and re-checks any finished
// ordering for spacing violations (Validate).
//
// The package is pure computation: it performs no I/O, keeps no state
// between calls, and is safe for concurrent use as long as each call gets
// its own random source (GenerateSeeded constructs one per call).
package sequence
