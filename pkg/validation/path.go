// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided inputs that end up in
// file system lookups or response payloads. Using these validators prevents
// path traversal and keeps reported paths in a canonical form.
package validation

import (
	"fmt"
	"strings"
)

// maxFilePathLength bounds the accepted path length. Longer paths are
// rejected before they reach the file system.
const maxFilePathLength = 4096

// ValidateFilePath validates a project-relative source file path.
//
// Valid paths:
//   - Non-empty, at most 4096 bytes
//   - No path traversal sequences (..)
//   - No NUL bytes
//
// Returns an error describing the first violation, or nil.
//
// Example:
//
//	if err := validation.ValidateFilePath(req.FilePath); err != nil {
//	    return nil, fmt.Errorf("invalid file path: %w", err)
//	}
func ValidateFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("file path cannot be empty")
	}
	if len(path) > maxFilePathLength {
		return fmt.Errorf("file path exceeds %d bytes", maxFilePathLength)
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("file path must not contain path traversal (..): %q", path)
	}
	if strings.ContainsRune(path, '\x00') {
		return fmt.Errorf("file path must not contain NUL bytes")
	}
	return nil
}
