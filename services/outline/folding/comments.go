// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package folding

import (
	"bytes"
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

var singleLineCommentPrefix = []byte("//")

// appendCommentSpans emits folds for the comment run immediately preceding a
// declaration node.
//
// Multi-line comments always fold on their own. Consecutive single-line
// comments merge into one fold covering the whole run, but only when the run
// has two or more comments; a lone single-line comment has nothing useful to
// collapse and produces no span.
func appendCommentSpans(ctx context.Context, n *sitter.Node, src []byte, spans *[]OutliningSpan) error {
	var (
		runStart, runEnd int
		runCount         int
	)
	flushRun := func() {
		if runCount > 1 {
			*spans = append(*spans, commentSpan(runStart, runEnd))
		}
		runCount = 0
	}

	for _, c := range leadingComments(n) {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("outlining canceled during comment scan: %w", err)
		}

		start := int(c.StartByte())
		end := int(c.EndByte())
		if bytes.HasPrefix(src[start:], singleLineCommentPrefix) {
			if runCount == 0 {
				runStart = start
			}
			runEnd = end
			runCount++
		} else {
			flushRun()
			*spans = append(*spans, commentSpan(start, end))
		}
	}
	flushRun()
	return nil
}

func commentSpan(start, end int) OutliningSpan {
	span := TextSpan{Start: start, Length: end - start}
	return OutliningSpan{
		Collapse: span,
		Preview:  span,
		Banner:   collapsedBanner,
	}
}

// leadingComments returns the contiguous run of comment nodes immediately
// preceding n, in source order. The run ends at the first non-comment
// sibling, so comments that document an earlier declaration are not
// re-attributed to this one.
func leadingComments(n *sitter.Node) []*sitter.Node {
	var reversed []*sitter.Node
	for p := n.PrevSibling(); p != nil && p.Type() == "comment"; p = p.PrevSibling() {
		reversed = append(reversed, p)
	}
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	return reversed
}
