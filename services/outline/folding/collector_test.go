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
	"strings"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// parseTS parses TypeScript source and returns the root node. The tree is
// closed via t.Cleanup.
func parseTS(t *testing.T, src []byte) *sitter.Node {
	t.Helper()

	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		t.Fatalf("ParseCtx() error = %v", err)
	}
	t.Cleanup(tree.Close)
	return tree.RootNode()
}

// collect parses src and runs the full span collection over it.
func collect(t *testing.T, src string) []OutliningSpan {
	t.Helper()

	content := []byte(src)
	root := parseTS(t, content)
	spans, err := CollectSpans(context.Background(), root, content, nil)
	if err != nil {
		t.Fatalf("CollectSpans() error = %v", err)
	}
	return spans
}

// collapseText returns the source text covered by a span's collapse range.
func collapseText(src string, s OutliningSpan) string {
	return src[s.Collapse.Start : s.Collapse.Start+s.Collapse.Length]
}

func previewText(src string, s OutliningSpan) string {
	return src[s.Preview.Start : s.Preview.Start+s.Preview.Length]
}

func TestCollectSpans_FunctionBody(t *testing.T) {
	src := "function greet(name: string) {\n  return name;\n}"
	spans := collect(t, src)

	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1: %v", len(spans), spans)
	}

	s := spans[0]
	if !s.AutoCollapse {
		t.Error("function body should auto-collapse")
	}
	if s.Banner != "..." {
		t.Errorf("Banner = %q, want %q", s.Banner, "...")
	}

	// The collapse range absorbs the space before the open brace and runs
	// through the close brace.
	if got := collapseText(src, s); got != " {\n  return name;\n}" {
		t.Errorf("collapse text = %q", got)
	}

	// The preview covers the whole declaration, header included.
	if got := previewText(src, s); got != src {
		t.Errorf("preview text = %q, want whole declaration", got)
	}
}

func TestCollectSpans_ArrowFunctionBody(t *testing.T) {
	src := "const f = () => {\n  return 1;\n};"
	spans := collect(t, src)

	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1: %v", len(spans), spans)
	}
	if spans[0].AutoCollapse {
		t.Error("arrow function body must not auto-collapse")
	}
	if !strings.HasPrefix(previewText(src, spans[0]), "() =>") {
		t.Errorf("preview should cover the arrow function, got %q", previewText(src, spans[0]))
	}
}

func TestCollectSpans_IfBlockPreviewsWholeStatement(t *testing.T) {
	src := "if (ok) {\n  run();\n}"
	spans := collect(t, src)

	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1: %v", len(spans), spans)
	}
	if got := previewText(src, spans[0]); got != src {
		t.Errorf("preview text = %q, want whole if statement", got)
	}
	if spans[0].AutoCollapse {
		t.Error("control-flow block must not auto-collapse")
	}
}

func TestCollectSpans_TryCatchFinally(t *testing.T) {
	src := "try {\n  a();\n} catch (e) {\n  b();\n} finally {\n  c();\n}"
	spans := collect(t, src)

	if len(spans) != 3 {
		t.Fatalf("got %d spans, want 3: %v", len(spans), spans)
	}

	// Spans come back sorted by collapse start: try, catch, finally.
	if got := previewText(src, spans[0]); got != src {
		t.Errorf("try preview = %q, want whole try statement", got)
	}
	if got := previewText(src, spans[1]); !strings.HasPrefix(got, "catch") {
		t.Errorf("catch preview = %q, want catch clause", got)
	}
	if got := previewText(src, spans[2]); got != "finally" {
		t.Errorf("finally preview = %q, want the keyword alone", got)
	}
}

func TestCollectSpans_ClassLikeDeclarations(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"class", "class Widget {\n  id = 1;\n}"},
		{"abstract class", "abstract class Base {\n  abstract run(): void;\n}"},
		{"interface", "interface Shape {\n  area(): number;\n}"},
		{"enum", "enum Color {\n  Red,\n  Green,\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := collect(t, tt.src)
			if len(spans) != 1 {
				t.Fatalf("got %d spans, want 1: %v", len(spans), spans)
			}

			s := spans[0]
			if got := previewText(tt.src, s); got != tt.src {
				t.Errorf("preview text = %q, want whole declaration", got)
			}
			if !strings.HasSuffix(collapseText(tt.src, s), "}") {
				t.Errorf("collapse text %q should run through the close brace", collapseText(tt.src, s))
			}
			if s.AutoCollapse {
				t.Error("declaration body must not auto-collapse")
			}
		})
	}
}

func TestCollectSpans_MethodBodyAutoCollapses(t *testing.T) {
	src := "class Widget {\n  render() {\n    return null;\n  }\n}"
	spans := collect(t, src)

	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2: %v", len(spans), spans)
	}

	var found bool
	for _, s := range spans {
		if s.AutoCollapse {
			found = true
			if !strings.HasPrefix(previewText(src, s), "render()") {
				t.Errorf("method preview = %q", previewText(src, s))
			}
		}
	}
	if !found {
		t.Error("expected an auto-collapsing span for the method body")
	}
}

func TestCollectSpans_SwitchBody(t *testing.T) {
	src := "switch (x) {\n  case 1:\n    break;\n}"
	spans := collect(t, src)

	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1: %v", len(spans), spans)
	}

	// The switch body previews itself, not the switch header.
	if got := previewText(src, spans[0]); !strings.HasPrefix(got, "{") {
		t.Errorf("switch preview = %q, want the case block", got)
	}
}

func TestCollectSpans_ObjectLiteral(t *testing.T) {
	src := "const o = {\n  a: 1,\n};"
	spans := collect(t, src)

	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1: %v", len(spans), spans)
	}
	if got := collapseText(src, spans[0]); got != " {\n  a: 1,\n}" {
		t.Errorf("collapse text = %q", got)
	}
}

func TestCollectSpans_ObjectsInsideArrayKeepExactStart(t *testing.T) {
	src := "const xs = [\n  { a: 1 },\n  { b: 2 },\n];"
	spans := collect(t, src)

	if len(spans) != 3 {
		t.Fatalf("got %d spans, want 3: %v", len(spans), spans)
	}

	// The array itself absorbs preceding whitespace; the nested objects must
	// not, or the fold would swallow the element separators.
	for _, s := range spans[1:] {
		if src[s.Collapse.Start] != '{' {
			t.Errorf("nested object collapse starts at %q, want '{'", src[s.Collapse.Start])
		}
	}
	if src[spans[0].Collapse.Start] != ' ' {
		t.Errorf("array collapse should absorb the leading space, starts at %q", src[spans[0].Collapse.Start])
	}
}

func TestCollectSpans_StandaloneBlock(t *testing.T) {
	src := "{\n  const x = 1;\n}"
	spans := collect(t, src)

	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1: %v", len(spans), spans)
	}

	s := spans[0]
	if s.Collapse != s.Preview {
		t.Errorf("standalone block collapse %v and preview %v should coincide", s.Collapse, s.Preview)
	}
	if s.Collapse.Start != 0 {
		t.Errorf("standalone block starts at %d, want 0", s.Collapse.Start)
	}
}

func TestCollectSpans_NamespaceBody(t *testing.T) {
	src := "namespace App {\n  export const n = 1;\n}"
	spans := collect(t, src)

	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1: %v", len(spans), spans)
	}
	if got := previewText(src, spans[0]); got != src {
		t.Errorf("namespace preview = %q, want whole declaration", got)
	}
}

func TestCollectSpans_SortedByCollapseStart(t *testing.T) {
	src := `// #region helpers
function a() {
  return [1, 2, {
    deep: true,
  }];
}
// #endregion

class B {
  m() {
    if (true) {
      a();
    }
  }
}
`
	spans := collect(t, src)
	if len(spans) < 5 {
		t.Fatalf("got only %d spans: %v", len(spans), spans)
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].Collapse.Start < spans[i-1].Collapse.Start {
			t.Fatalf("spans out of order at %d: %v before %v", i, spans[i-1].Collapse, spans[i].Collapse)
		}
	}
}

func TestCollectSpans_CommentedFunctionWithNestedIf(t *testing.T) {
	src := "// start\n// more\nfunction f() {\n  if (x) {\n    return 1;\n  }\n}"
	spans := collect(t, src)

	if len(spans) != 3 {
		t.Fatalf("got %d spans, want 3: %v", len(spans), spans)
	}

	comment, fnBody, ifBlock := spans[0], spans[1], spans[2]

	if got := collapseText(src, comment); got != "// start\n// more" {
		t.Errorf("comment collapse text = %q", got)
	}
	if comment.Collapse != comment.Preview {
		t.Error("comment span collapse and preview should coincide")
	}

	if !fnBody.AutoCollapse {
		t.Error("function body should auto-collapse")
	}
	if got := previewText(src, fnBody); !strings.HasPrefix(got, "function f()") {
		t.Errorf("function preview = %q, want the whole declaration", got)
	}

	if ifBlock.AutoCollapse {
		t.Error("if-attached block must not auto-collapse")
	}
	if got := previewText(src, ifBlock); !strings.HasPrefix(got, "if (x)") {
		t.Errorf("if preview = %q, want the whole if statement", got)
	}
}

func TestCollectSpans_DepthLimitSkipsDeepSubtrees(t *testing.T) {
	// Standalone blocks nested far past the walk ceiling. The collector must
	// neither panic nor recurse without bound; spans stop at the ceiling.
	depth := 5000
	src := strings.Repeat("{\n", depth) + strings.Repeat("}\n", depth)

	spans := collect(t, src)
	if len(spans) != maxWalkDepth {
		t.Errorf("got %d spans, want %d (one per block above the ceiling)", len(spans), maxWalkDepth)
	}
}

func TestCollectSpans_CanceledContext(t *testing.T) {
	src := []byte("function f() {\n  return 1;\n}")
	root := parseTS(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := CollectSpans(ctx, root, src, nil); err == nil {
		t.Fatal("CollectSpans() with canceled context should fail")
	}
}

func TestCollectSpans_NilRootYieldsRegionsOnly(t *testing.T) {
	src := []byte("// #region r\nconst a = 1;\n// #endregion\n")
	spans, err := CollectSpans(context.Background(), nil, src, nil)
	if err != nil {
		t.Fatalf("CollectSpans() error = %v", err)
	}
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1: %v", len(spans), spans)
	}
	if spans[0].Banner != "r" {
		t.Errorf("Banner = %q, want %q", spans[0].Banner, "r")
	}
}

func TestCollectSpans_MalformedSourceStillYields(t *testing.T) {
	src := "function broken( {\n  if (x) {\n    y();\n  }\n"
	spans := collect(t, src)
	// Best effort: whatever blocks the error-tolerant parse still exposes
	// may fold, and nothing may panic or error.
	for i := 1; i < len(spans); i++ {
		if spans[i].Collapse.Start < spans[i-1].Collapse.Start {
			t.Fatalf("spans out of order: %v", spans)
		}
	}
}
