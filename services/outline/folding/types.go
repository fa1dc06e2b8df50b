// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package folding computes code-folding (outlining) spans for a parsed
// source file.
//
// The package runs two independent scanners over the same file and merges
// their output into a single list sorted by collapse start offset:
//
//   - A structural walker descends the tree-sitter syntax tree and applies
//     a per-node-kind rule table to blocks, declaration bodies, and
//     object/array literals. Declarations additionally contribute folds for
//     their leading comment runs.
//   - A region scanner runs line by line over the raw source text and pairs
//     `// #region` / `// #endregion` marker comments via a stack.
//
// The output is best-effort: malformed trees yield fewer spans, never an
// error. The only abnormal termination is cooperative cancellation via the
// caller's context.
//
// Design principles:
//   - The syntax tree is consumed as a pure query interface; this package
//     never mutates its inputs.
//   - Missing boundary tokens silently suppress the affected span.
//   - No map[string]interface{} - concrete types only.
package folding

import "fmt"

// TextSpan is a half-open byte range within a source file.
//
// Start is the byte offset of the first character; Length is the number of
// bytes covered. Offsets are 0-indexed bytes, matching tree-sitter.
type TextSpan struct {
	// Start is the 0-indexed byte offset where the span begins.
	Start int `json:"start"`

	// Length is the number of bytes the span covers. Never negative.
	Length int `json:"length"`
}

// End returns the byte offset one past the last byte of the span.
func (s TextSpan) End() int {
	return s.Start + s.Length
}

// Contains reports whether other lies entirely within s.
func (s TextSpan) Contains(other TextSpan) bool {
	return s.Start <= other.Start && other.End() <= s.End()
}

// String returns a human-readable representation of the span.
//
// Format: "[start,end)"
func (s TextSpan) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End())
}

// OutliningSpan is one foldable region of a source file.
//
// Collapse is replaced by Banner when the editor folds the span; Preview is
// the wider range shown as context while folded or hovered. Preview always
// covers the syntactic construct the fold belongs to (for an if-attached
// block that is the whole if statement, not just the braces).
type OutliningSpan struct {
	// Collapse is the text range replaced by Banner when folded.
	Collapse TextSpan `json:"collapse_range"`

	// Preview is the text range shown as a preview/tooltip while folded.
	Preview TextSpan `json:"preview_range"`

	// Banner is the placeholder shown in place of the collapsed range.
	// Always "..." except for region spans, which carry the region label.
	Banner string `json:"banner_text"`

	// AutoCollapse marks spans the editor should render collapsed on first
	// open. Set only for function bodies that are not arrow functions.
	AutoCollapse bool `json:"auto_collapse"`
}

// LineStarts returns the byte offset of the first character of every line
// in src, ordered ascending. The first entry is always 0.
//
// A line break is a single '\n'; '\r' is left attached to the preceding
// line, matching how the region scanner trims it.
func LineStarts(src []byte) []int {
	starts := make([]int, 1, 64)
	starts[0] = 0
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
