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
)

// regions runs the marker scanner alone, without a syntax tree, so the
// in-comment guard is bypassed.
func regions(t *testing.T, src string) []OutliningSpan {
	t.Helper()

	content := []byte(src)
	out, err := collectRegions(context.Background(), nil, content, LineStarts(content))
	if err != nil {
		t.Fatalf("collectRegions() error = %v", err)
	}
	return out
}

func TestCollectRegions_LabeledPair(t *testing.T) {
	src := "// #region setup\nconst a = 1;\n// #endregion\n"
	out := regions(t, src)

	if len(out) != 1 {
		t.Fatalf("got %d regions, want 1: %v", len(out), out)
	}

	r := out[0]
	if r.Banner != "setup" {
		t.Errorf("Banner = %q, want %q", r.Banner, "setup")
	}
	if r.Collapse != r.Preview {
		t.Errorf("region collapse %v and preview %v should coincide", r.Collapse, r.Preview)
	}

	got := collapseText(src, r)
	if !strings.HasPrefix(got, "// #region setup") || !strings.HasSuffix(got, "// #endregion") {
		t.Errorf("collapse text = %q", got)
	}
}

func TestCollectRegions_DefaultBanner(t *testing.T) {
	out := regions(t, "// #region\n// #endregion\n")
	if len(out) != 1 {
		t.Fatalf("got %d regions, want 1", len(out))
	}
	if out[0].Banner != "#region" {
		t.Errorf("Banner = %q, want %q", out[0].Banner, "#region")
	}
}

func TestCollectRegions_IndentedMarkers(t *testing.T) {
	src := "function f() {\n  // #region body\n  work();\n  // #endregion\n}\n"
	out := regions(t, src)

	if len(out) != 1 {
		t.Fatalf("got %d regions, want 1: %v", len(out), out)
	}
	// The collapse range starts at the comment introducer, not at the
	// line's indentation.
	if !strings.HasPrefix(collapseText(src, out[0]), "// #region body") {
		t.Errorf("collapse text = %q", collapseText(src, out[0]))
	}
}

func TestCollectRegions_NestedPairLastInFirstOut(t *testing.T) {
	src := strings.Join([]string{
		"// #region outer",
		"// #region inner",
		"const x = 1;",
		"// #endregion",
		"// #endregion",
		"",
	}, "\n")
	out := regions(t, src)

	if len(out) != 2 {
		t.Fatalf("got %d regions, want 2: %v", len(out), out)
	}

	// The inner region closes first, so it is emitted first.
	if out[0].Banner != "inner" || out[1].Banner != "outer" {
		t.Errorf("emit order = [%q, %q], want [inner, outer]", out[0].Banner, out[1].Banner)
	}
	if out[1].Collapse.Start > out[0].Collapse.Start {
		t.Error("outer region should start before inner")
	}
	if out[1].Collapse.End() < out[0].Collapse.End() {
		t.Error("outer region should end at or after inner")
	}
}

func TestCollectRegions_UnmatchedEndIgnored(t *testing.T) {
	if out := regions(t, "const a = 1;\n// #endregion\n"); len(out) != 0 {
		t.Errorf("got %d regions, want 0: %v", len(out), out)
	}
}

func TestCollectRegions_UnclosedStartDropped(t *testing.T) {
	if out := regions(t, "// #region dangling\nconst a = 1;\n"); len(out) != 0 {
		t.Errorf("got %d regions, want 0: %v", len(out), out)
	}
}

func TestCollectRegions_NonMarkerCommentsIgnored(t *testing.T) {
	src := "// region without hash\n// #regionX\n/* #region */\n"
	if out := regions(t, src); len(out) != 0 {
		t.Errorf("got %d regions, want 0: %v", len(out), out)
	}
}

func TestCollectRegions_MarkerInTemplateLiteralRejected(t *testing.T) {
	src := "const s = `\n// #region fake\n// #endregion\n`;\n// #region real\n// #endregion\n"
	content := []byte(src)
	root := parseTS(t, content)

	out, err := collectRegions(context.Background(), root, content, LineStarts(content))
	if err != nil {
		t.Fatalf("collectRegions() error = %v", err)
	}

	if len(out) != 1 {
		t.Fatalf("got %d regions, want 1: %v", len(out), out)
	}
	if out[0].Banner != "real" {
		t.Errorf("Banner = %q, want %q", out[0].Banner, "real")
	}
}

func TestCollectRegions_CRLFLines(t *testing.T) {
	src := "// #region win\r\nconst a = 1;\r\n// #endregion\r\n"
	out := regions(t, src)

	if len(out) != 1 {
		t.Fatalf("got %d regions, want 1: %v", len(out), out)
	}
	if out[0].Banner != "win" {
		t.Errorf("Banner = %q, want %q", out[0].Banner, "win")
	}
}

func TestCollectRegions_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	content := []byte("// #region r\n// #endregion\n")
	if _, err := collectRegions(ctx, nil, content, LineStarts(content)); err == nil {
		t.Fatal("collectRegions() with canceled context should fail")
	}
}
