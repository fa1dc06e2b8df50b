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
	"context"
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// regionMarker recognizes "// #region <label>" and "// #endregion" line
// comments: optional indentation, the comment introducer, an optional "end"
// prefix on the keyword, and an optional trailing label.
var regionMarker = regexp.MustCompile(`^\s*//\s*#(end)?region(?:\s+(.*))?$`)

// defaultRegionBanner is used when a start marker carries no label.
const defaultRegionBanner = "#region"

// maxCommentDescentDepth bounds the containment descent used by the
// in-comment guard.
const maxCommentDescentDepth = 512

// collectRegions scans the raw source line by line for balanced region
// marker pairs, independent of tree structure.
//
// Markers pair last-in-first-out: an end marker always closes the innermost
// open region regardless of label text. An end marker with no open region is
// ignored; a region still open at end of file is dropped. A marker-shaped
// line that is not actually inside a comment (for example a line of a
// template literal) is rejected by the in-comment guard.
func collectRegions(ctx context.Context, root *sitter.Node, src []byte, lineStarts []int) ([]OutliningSpan, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("outlining canceled before region scan: %w", err)
	}

	var out []OutliningSpan
	var stack []OutliningSpan

	for i, lineStart := range lineStarts {
		lineEnd := len(src)
		if i+1 < len(lineStarts) {
			lineEnd = lineStarts[i+1] - 1
		}
		if lineEnd < lineStart {
			continue
		}

		line := strings.TrimSuffix(string(src[lineStart:lineEnd]), "\r")
		match := regionMarker.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		markerStart := lineStart + strings.Index(line, "//")
		if root != nil && !insideComment(root, markerStart) {
			continue
		}

		if match[1] == "" {
			// Start marker: the span's end stays pending until a matching
			// end marker closes it.
			banner := strings.TrimSpace(match[2])
			if banner == "" {
				banner = defaultRegionBanner
			}
			span := TextSpan{Start: markerStart, Length: lineEnd - markerStart}
			stack = append(stack, OutliningSpan{
				Collapse: span,
				Preview:  span,
				Banner:   banner,
			})
			continue
		}

		if len(stack) == 0 {
			continue
		}
		region := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		region.Collapse.Length = lineEnd - region.Collapse.Start
		region.Preview = region.Collapse
		out = append(out, region)
	}

	return out, nil
}

// insideComment reports whether the given byte offset falls inside a comment
// node. The descent walks the containment chain from the root rather than
// relying on named-descendant lookups so extra (comment) nodes are found.
func insideComment(root *sitter.Node, offset int) bool {
	n := root
	for depth := 0; n != nil && depth < maxCommentDescentDepth; depth++ {
		if n.Type() == "comment" {
			return true
		}
		n = childContaining(n, offset)
	}
	return false
}

func childContaining(n *sitter.Node, offset int) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if int(c.StartByte()) <= offset && offset < int(c.EndByte()) {
			return c
		}
	}
	return nil
}
