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
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
)

// maxWalkDepth is the hard ceiling on structural recursion. Subtrees nested
// deeper than this are skipped entirely; siblings at shallower depths are
// unaffected. This is the only safeguard against pathologically nested input.
const maxWalkDepth = 40

// collapsedBanner is the placeholder shown for every non-region fold.
const collapsedBanner = "..."

// attachedParentKinds are the control constructs whose body block collapses
// to its braces but previews the entire parent statement.
var attachedParentKinds = map[string]struct{}{
	"do_statement":     {},
	"for_statement":    {},
	"for_in_statement": {},
	"for_of_statement": {},
	"if_statement":     {},
	"while_statement":  {},
	"with_statement":   {},
	"catch_clause":     {},
}

// functionParentKinds are the function-like constructs whose body block is a
// function body. Both the pre- and post-rename tree-sitter names for function
// expressions are listed so either grammar revision works.
var functionParentKinds = map[string]struct{}{
	"function_declaration":           {},
	"function":                       {},
	"function_expression":            {},
	"generator_function":             {},
	"generator_function_declaration": {},
	"method_definition":              {},
	"arrow_function":                 {},
}

// moduleParentKinds are namespace/module constructs whose body block previews
// the entire parent.
var moduleParentKinds = map[string]struct{}{
	"internal_module": {},
	"module":          {},
}

// classLikeKinds are declarations whose brace-delimited body folds with the
// whole declaration as preview. They share one rule.
var classLikeKinds = map[string]struct{}{
	"class_declaration":          {},
	"abstract_class_declaration": {},
	"class":                      {},
	"interface_declaration":      {},
	"enum_declaration":           {},
}

// declarationKinds are the node kinds whose leading comment trivia is scanned
// for comment folds.
var declarationKinds = map[string]struct{}{
	"function_declaration":           {},
	"generator_function_declaration": {},
	"class_declaration":              {},
	"abstract_class_declaration":     {},
	"interface_declaration":          {},
	"enum_declaration":               {},
	"type_alias_declaration":         {},
	"lexical_declaration":            {},
	"variable_declaration":           {},
	"method_definition":              {},
	"public_field_definition":        {},
	"module":                         {},
	"internal_module":                {},
	"ambient_declaration":            {},
	"export_statement":               {},
	"import_statement":               {},
}

// CollectSpans computes all outlining spans for one source file.
//
// Description:
//
//	Runs the structural walker over the syntax tree and the region scanner
//	over the raw text, concatenates both outputs, and sorts them ascending
//	by collapse start offset. The result is best-effort: structural rules
//	whose boundary tokens cannot be located contribute nothing, unmatched
//	region markers are dropped, and a malformed tree yields fewer spans
//	rather than an error.
//
// Inputs:
//   - ctx: Context for cooperative cancellation. Polled once per visited
//     node and once per leading comment.
//   - root: Root node of the tree-sitter parse tree. May be nil, in which
//     case only region spans are produced without the in-comment guard.
//   - src: Raw source bytes the tree was parsed from. Never mutated.
//   - lineStarts: Ascending byte offsets of line starts. Pass nil to have
//     them computed from src.
//
// Outputs:
//   - []OutliningSpan: Spans in non-decreasing collapse-start order. May be
//     empty, never nil on success.
//   - error: Non-nil only when ctx was canceled; no partial result is
//     returned in that case.
//
// Thread Safety:
//
//	CollectSpans performs no mutation of its inputs and holds no shared
//	state; it is safe to call concurrently for distinct trees.
func CollectSpans(ctx context.Context, root *sitter.Node, src []byte, lineStarts []int) ([]OutliningSpan, error) {
	if lineStarts == nil {
		lineStarts = LineStarts(src)
	}

	spans := make([]OutliningSpan, 0, 16)
	if root != nil {
		if err := walk(ctx, root, src, 0, &spans); err != nil {
			return nil, err
		}
	}

	regions, err := collectRegions(ctx, root, src, lineStarts)
	if err != nil {
		return nil, err
	}
	spans = append(spans, regions...)

	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].Collapse.Start < spans[j].Collapse.Start
	})
	return spans, nil
}

// walk is the recursive pre-order structural walker. Depth increments only
// when descending into children; once depth exceeds maxWalkDepth the subtree
// is skipped without visiting its comments or computing its span.
func walk(ctx context.Context, n *sitter.Node, src []byte, depth int, spans *[]OutliningSpan) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("outlining canceled during walk: %w", err)
	}
	if depth > maxWalkDepth {
		return nil
	}

	if _, ok := declarationKinds[n.Type()]; ok {
		if err := appendCommentSpans(ctx, n, src, spans); err != nil {
			return err
		}
	}
	appendSpanForNode(n, src, spans)

	for i := 0; i < int(n.ChildCount()); i++ {
		if err := walk(ctx, n.Child(i), src, depth+1, spans); err != nil {
			return err
		}
	}
	return nil
}

// appendSpanForNode applies the per-kind structural rule table to one node.
// Kinds not in the table produce no span.
func appendSpanForNode(n *sitter.Node, src []byte, spans *[]OutliningSpan) {
	kind := n.Type()
	switch {
	case kind == "statement_block":
		appendBlockSpan(n, src, spans)

	case isClassLike(kind):
		// Braces live inside the body child; the preview is the whole
		// declaration including its header.
		body := n.ChildByFieldName("body")
		if body == nil {
			return
		}
		appendSpan(spans, n, childToken(body, "{"), lastChildToken(body, "}"), src, false, true)

	case kind == "switch_body":
		appendSpan(spans, n, childToken(n, "{"), lastChildToken(n, "}"), src, false, true)

	case kind == "object":
		appendSpan(spans, n, childToken(n, "{"), lastChildToken(n, "}"), src, false, useFullStartFor(n))

	case kind == "array":
		appendSpan(spans, n, childToken(n, "["), lastChildToken(n, "]"), src, false, useFullStartFor(n))
	}
}

// appendBlockSpan handles statement_block nodes, whose rule depends on the
// kind of the immediate parent.
func appendBlockSpan(n *sitter.Node, src []byte, spans *[]OutliningSpan) {
	open := childToken(n, "{")
	closeTok := lastChildToken(n, "}")

	if parent := n.Parent(); parent != nil {
		parentKind := parent.Type()

		if _, ok := functionParentKinds[parentKind]; ok {
			// Function bodies auto-collapse unless the function is an
			// arrow/lambda expression.
			auto := parentKind != "arrow_function"
			appendSpan(spans, parent, open, closeTok, src, auto, true)
			return
		}
		if _, ok := attachedParentKinds[parentKind]; ok {
			appendSpan(spans, parent, open, closeTok, src, false, true)
			return
		}
		if parentKind == "try_statement" {
			appendSpan(spans, parent, open, closeTok, src, false, true)
			return
		}
		if parentKind == "finally_clause" {
			// The preview anchors on the finally keyword alone. A finally
			// clause without a locatable keyword yields no span.
			kw := childToken(parent, "finally")
			appendSpan(spans, kw, open, closeTok, src, false, true)
			return
		}
		if _, ok := moduleParentKinds[parentKind]; ok {
			appendSpan(spans, parent, open, closeTok, src, false, true)
			return
		}
	}

	// Standalone block: collapse and preview are both the block itself,
	// starting at the block's own first character.
	span := spanForNode(n)
	*spans = append(*spans, OutliningSpan{
		Collapse: span,
		Preview:  span,
		Banner:   collapsedBanner,
	})
}

// appendSpan constructs one span from a preview hint node and a pair of
// boundary tokens and appends it to spans. Any missing anchor suppresses the
// span; this is a defined degradation for malformed trees, not an error.
func appendSpan(spans *[]OutliningSpan, hint, open, closeTok *sitter.Node, src []byte, autoCollapse, useFullStart bool) {
	if hint == nil || open == nil || closeTok == nil {
		return
	}

	start := int(open.StartByte())
	if useFullStart {
		start = fullStart(src, start)
	}
	end := int(closeTok.EndByte())
	if end < start {
		end = start
	}

	*spans = append(*spans, OutliningSpan{
		Collapse:     TextSpan{Start: start, Length: end - start},
		Preview:      spanForNode(hint),
		Banner:       collapsedBanner,
		AutoCollapse: autoCollapse,
	})
}

// spanForNode returns the byte range of n without leading trivia.
func spanForNode(n *sitter.Node) TextSpan {
	start := int(n.StartByte())
	return TextSpan{Start: start, Length: int(n.EndByte()) - start}
}

// fullStart extends pos backward over whitespace and line breaks so that
// collapsing removes the blank space before the boundary token too.
func fullStart(src []byte, pos int) int {
	for pos > 0 {
		switch src[pos-1] {
		case ' ', '\t', '\r', '\n':
			pos--
		default:
			return pos
		}
	}
	return pos
}

// useFullStartFor reports whether a literal's collapse range may absorb the
// whitespace before its opening token. Literals nested directly in an array
// keep their exact start so the fold does not swallow the separating comma
// of the enclosing element.
func useFullStartFor(n *sitter.Node) bool {
	parent := n.Parent()
	return parent == nil || parent.Type() != "array"
}

func isClassLike(kind string) bool {
	_, ok := classLikeKinds[kind]
	return ok
}

// childToken returns the first direct child of n with the given type, or nil.
func childToken(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

// lastChildToken returns the last direct child of n with the given type, or
// nil. Used for close braces so an unbalanced interior brace cannot cut the
// span short.
func lastChildToken(n *sitter.Node, typ string) *sitter.Node {
	for i := int(n.ChildCount()) - 1; i >= 0; i-- {
		if c := n.Child(i); c.Type() == typ {
			return c
		}
	}
	return nil
}
