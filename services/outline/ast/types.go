// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ast parses source files into syntax trees for outlining.
//
// This package wraps tree-sitter parsing behind a small Document type that
// owns the parse tree, the raw content, and the line-start table the
// outlining engine consumes. Parsers are error-tolerant: syntactically
// invalid input still yields a tree, and downstream consumers degrade to
// fewer results rather than failing.
//
// Design principles:
//   - Timestamps as int64 UnixMilli per project conventions
//   - No map[string]interface{} - concrete types only
//   - Documents own their tree; callers must Close() them
package ast

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/AleutianAI/outline/pkg/validation"
)

// File size constants for security validation.
const (
	// DefaultMaxFileSize is the maximum file size a parser will accept (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024

	// WarnFileSize is the threshold at which a warning is logged (1MB).
	WarnFileSize = 1 * 1024 * 1024
)

// ErrFileTooLarge is returned when input content exceeds the maximum file size.
var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

// ErrInvalidContent is returned when input content is not valid UTF-8.
var ErrInvalidContent = errors.New("content is not valid source text")

// ErrUnsupportedLanguage is returned when no parser handles a file's extension.
var ErrUnsupportedLanguage = errors.New("no parser registered for file extension")

// TreeParser produces syntax-tree Documents from raw source content.
//
// Implementations must be safe for concurrent use; each Parse call creates
// its own tree-sitter parser instance internally.
type TreeParser interface {
	// Parse builds a Document from content. The returned Document owns its
	// tree and must be closed by the caller.
	Parse(ctx context.Context, content []byte, filePath string) (*Document, error)

	// Language returns the canonical language name (e.g., "typescript").
	Language() string

	// Extensions returns the file extensions this parser handles,
	// including the leading dot.
	Extensions() []string
}

// Document is one parsed source file.
//
// A Document bundles everything the outlining engine needs: the raw bytes,
// the parse tree, and the line-start offset table. The tree is owned by the
// Document; call Close() to release it. After Close(), Root() returns nil.
//
// Thread Safety:
//
//	A Document is immutable after construction and safe for concurrent
//	reads, but Close() must not race with readers.
type Document struct {
	// FilePath is the path the content was parsed as, relative to project
	// root with forward slashes.
	FilePath string `json:"file_path"`

	// Language is the canonical language name of the content.
	Language string `json:"language"`

	// Content is the raw source bytes the tree was parsed from.
	Content []byte `json:"-"`

	// Hash is the SHA256 hex digest of Content at parse time. Used for
	// result caching and staleness detection.
	Hash string `json:"hash"`

	// ParsedAtMilli is the Unix timestamp in milliseconds when parsing
	// completed.
	ParsedAtMilli int64 `json:"parsed_at_milli"`

	// LineStarts holds the byte offset of the first character of each
	// line, ascending, starting with 0.
	LineStarts []int `json:"-"`

	// SyntaxErrors indicates the tree contains error nodes. The document
	// is still usable; consumers produce fewer results.
	SyntaxErrors bool `json:"syntax_errors"`

	tree *sitter.Tree
}

// Root returns the root node of the parse tree, or nil after Close().
func (d *Document) Root() *sitter.Node {
	if d.tree == nil {
		return nil
	}
	return d.tree.RootNode()
}

// Close releases the parse tree. Safe to call more than once.
func (d *Document) Close() {
	if d.tree != nil {
		d.tree.Close()
		d.tree = nil
	}
}

// Validate checks the Document's field values.
//
// Returns nil if valid, or a ValidationError describing the first invalid
// field.
func (d *Document) Validate() error {
	if err := validation.ValidateFilePath(d.FilePath); err != nil {
		return ValidationError{Field: "FilePath", Message: err.Error()}
	}
	if d.Language == "" {
		return ValidationError{Field: "Language", Message: "must not be empty"}
	}
	if len(d.LineStarts) == 0 || d.LineStarts[0] != 0 {
		return ValidationError{Field: "LineStarts", Message: "must start with offset 0"}
	}
	return nil
}

// ValidationError represents a validation failure with field context.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
