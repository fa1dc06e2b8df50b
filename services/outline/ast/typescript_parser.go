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
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// TypeScriptParserOption configures a TypeScriptParser instance.
type TypeScriptParserOption func(*TypeScriptParser)

// WithTypeScriptMaxFileSize sets the maximum file size the parser will accept.
//
// Parameters:
//   - bytes: Maximum file size in bytes. Must be positive.
//
// Example:
//
//	parser := NewTypeScriptParser(WithTypeScriptMaxFileSize(5 * 1024 * 1024)) // 5MB limit
func WithTypeScriptMaxFileSize(bytes int64) TypeScriptParserOption {
	return func(p *TypeScriptParser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// TypeScriptParser implements the TreeParser interface for TypeScript and
// JavaScript source code.
//
// Description:
//
//	TypeScriptParser uses tree-sitter to parse source files into the syntax
//	tree the outlining engine walks. TypeScript is a superset of
//	JavaScript, so plain .js/.mjs/.cjs files are parsed with the TypeScript
//	grammar; .tsx/.jsx files use the TSX grammar.
//
// Thread Safety:
//
//	TypeScriptParser instances are safe for concurrent use. Multiple
//	goroutines may call Parse simultaneously on the same instance.
//
// Example:
//
//	parser := NewTypeScriptParser()
//	doc, err := parser.Parse(ctx, []byte("function f() {}"), "main.ts")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer doc.Close()
type TypeScriptParser struct {
	maxFileSize int64
}

// NewTypeScriptParser creates a new TypeScriptParser with the given options.
//
// Outputs:
//   - *TypeScriptParser: Configured parser instance, never nil
//
// Thread Safety:
//
//	The returned TypeScriptParser is safe for concurrent use.
func NewTypeScriptParser(opts ...TypeScriptParserOption) *TypeScriptParser {
	p := &TypeScriptParser{
		maxFileSize: DefaultMaxFileSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse builds a syntax-tree Document from TypeScript or JavaScript source.
//
// Description:
//
//	Parse is error-tolerant: syntactically invalid code still yields a
//	Document whose SyntaxErrors flag is set. The returned Document owns its
//	tree-sitter tree and must be closed by the caller.
//
// Inputs:
//   - ctx: Context for cancellation. Checked before and after parsing.
//     Note: Tree-sitter parsing itself cannot be interrupted mid-parse.
//   - content: Raw source bytes. Must be valid UTF-8.
//   - filePath: Path to the file, relative to project root with forward
//     slashes. Selects the grammar (.tsx/.jsx use TSX).
//
// Outputs:
//   - *Document: Parsed document, never nil on success.
//   - error: Non-nil for complete failures:
//   - ErrFileTooLarge: Content exceeds the configured limit
//   - ErrInvalidContent: Content is not valid UTF-8
//   - Context errors: Context was canceled or timed out
//
// Thread Safety:
//
//	This method is safe for concurrent use.
func (p *TypeScriptParser) Parse(ctx context.Context, content []byte, filePath string) (*Document, error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}

	// Validate file size
	if int64(len(content)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.maxFileSize)
	}

	// Log warning for large files
	if len(content) > WarnFileSize {
		slog.Warn("parsing large file",
			slog.String("file", filePath),
			slog.Int("size_bytes", len(content)))
	}

	// Validate UTF-8
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	// Compute hash before parsing (captures input)
	hash := sha256.Sum256(content)
	hashStr := hex.EncodeToString(hash[:])

	// Create tree-sitter parser (new instance per call for thread safety)
	parser := sitter.NewParser()

	// Use the TSX grammar for JSX-capable files, TypeScript otherwise
	if strings.HasSuffix(filePath, ".tsx") || strings.HasSuffix(filePath, ".jsx") {
		parser.SetLanguage(tsx.GetLanguage())
	} else {
		parser.SetLanguage(typescript.GetLanguage())
	}

	// Parse the content
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}

	// Check context after parsing
	if err := ctx.Err(); err != nil {
		tree.Close()
		return nil, fmt.Errorf("parse canceled after tree-sitter: %w", err)
	}

	doc := &Document{
		FilePath:      filePath,
		Language:      "typescript",
		Content:       content,
		Hash:          hashStr,
		ParsedAtMilli: time.Now().UnixMilli(),
		LineStarts:    computeLineStarts(content),
		tree:          tree,
	}

	if root := tree.RootNode(); root != nil && root.HasError() {
		doc.SyntaxErrors = true
	}

	if err := doc.Validate(); err != nil {
		doc.Close()
		return nil, fmt.Errorf("document validation failed: %w", err)
	}

	return doc, nil
}

// Language returns the canonical language name for this parser.
//
// Returns:
//   - "typescript" for TypeScript and JavaScript source files
func (p *TypeScriptParser) Language() string {
	return "typescript"
}

// Extensions returns the file extensions this parser handles.
//
// Returns:
//   - TypeScript and JavaScript extensions, JSX variants included
func (p *TypeScriptParser) Extensions() []string {
	return []string{".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs", ".cjs"}
}

// computeLineStarts builds the ascending line-start offset table for src.
// The first entry is always 0; each '\n' starts a new line.
func computeLineStarts(src []byte) []int {
	starts := make([]int, 1, 64)
	starts[0] = 0
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
