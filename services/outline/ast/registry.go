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
	"path/filepath"
	"sort"
	"sync"
)

// ParserRegistry manages TreeParser instances by language and file extension.
//
// Description:
//
//	ParserRegistry provides a central lookup mechanism for finding the
//	appropriate parser for a given file or language. It supports
//	registration of multiple parsers and lookup by language name or file
//	extension.
//
// Thread Safety:
//
//	ParserRegistry is fully thread-safe. Registration uses write locks,
//	lookups use read locks.
type ParserRegistry struct {
	mu sync.RWMutex

	// byLanguage maps language names to parser instances.
	byLanguage map[string]TreeParser

	// byExtension maps file extensions to parser instances.
	byExtension map[string]TreeParser
}

// NewParserRegistry creates a new empty ParserRegistry.
func NewParserRegistry() *ParserRegistry {
	return &ParserRegistry{
		byLanguage:  make(map[string]TreeParser),
		byExtension: make(map[string]TreeParser),
	}
}

// DefaultRegistry returns a registry with all built-in parsers registered.
func DefaultRegistry() *ParserRegistry {
	r := NewParserRegistry()
	r.Register(NewTypeScriptParser())
	return r
}

// Register adds a parser to the registry.
//
// The parser is registered under its Language() name and all its
// Extensions(). An already-registered language or extension is overwritten.
//
// Thread Safety: This method is safe for concurrent use.
func (r *ParserRegistry) Register(parser TreeParser) {
	if parser == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byLanguage[parser.Language()] = parser

	for _, ext := range parser.Extensions() {
		r.byExtension[ext] = parser
	}
}

// GetByLanguage returns the parser for the given language name.
//
// Returns:
//   - TreeParser: The registered parser, or nil if not found.
//   - bool: True if a parser was found.
func (r *ParserRegistry) GetByLanguage(language string) (TreeParser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parser, ok := r.byLanguage[language]
	return parser, ok
}

// GetByExtension returns the parser for the given file extension.
//
// Parameters:
//   - ext: The extension including the dot (e.g., ".ts"). Case-sensitive.
func (r *ParserRegistry) GetByExtension(ext string) (TreeParser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parser, ok := r.byExtension[ext]
	return parser, ok
}

// GetForPath returns the parser matching the extension of path.
func (r *ParserRegistry) GetForPath(path string) (TreeParser, bool) {
	return r.GetByExtension(filepath.Ext(path))
}

// Languages returns a sorted list of all registered language names.
func (r *ParserRegistry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	languages := make([]string, 0, len(r.byLanguage))
	for lang := range r.byLanguage {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	return languages
}

// Extensions returns a sorted list of all registered file extensions.
func (r *ParserRegistry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	extensions := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}
