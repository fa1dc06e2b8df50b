// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ast

import (
	"testing"
)

func TestDefaultRegistry_TypeScriptRegistered(t *testing.T) {
	r := DefaultRegistry()

	parser, ok := r.GetByLanguage("typescript")
	if !ok || parser == nil {
		t.Fatal("default registry should register the TypeScript parser")
	}

	for _, ext := range []string{".ts", ".tsx", ".js", ".jsx", ".mjs"} {
		if _, ok := r.GetByExtension(ext); !ok {
			t.Errorf("extension %q should be registered", ext)
		}
	}
}

func TestParserRegistry_GetForPath(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		path string
		want bool
	}{
		{"src/components/App.tsx", true},
		{"lib/util.ts", true},
		{"legacy/main.js", true},
		{"README.md", false},
		{"Makefile", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if _, ok := r.GetForPath(tt.path); ok != tt.want {
				t.Errorf("GetForPath(%q) found = %v, want %v", tt.path, ok, tt.want)
			}
		})
	}
}

func TestParserRegistry_RegisterNil(t *testing.T) {
	r := NewParserRegistry()
	r.Register(nil)

	if langs := r.Languages(); len(langs) != 0 {
		t.Errorf("Languages() = %v, want empty", langs)
	}
}

func TestParserRegistry_SortedListings(t *testing.T) {
	r := DefaultRegistry()

	exts := r.Extensions()
	for i := 1; i < len(exts); i++ {
		if exts[i] < exts[i-1] {
			t.Fatalf("Extensions() not sorted: %v", exts)
		}
	}

	langs := r.Languages()
	if len(langs) != 1 || langs[0] != "typescript" {
		t.Errorf("Languages() = %v, want [typescript]", langs)
	}
}
