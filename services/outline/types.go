// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package outline

import (
	"github.com/AleutianAI/outline/pkg/validation"
	"github.com/AleutianAI/outline/services/outline/folding"
)

// Version is the service version reported by the health endpoint.
const Version = "0.1.0"

// SpansRequest is the request body for POST /v1/outline/spans.
type SpansRequest struct {
	// FilePath is the source file's path, relative to project root with
	// forward slashes. The extension selects the grammar. Required.
	FilePath string `json:"file_path"`

	// Content is the raw source text to outline. Required; may be empty
	// for an empty file.
	Content string `json:"content"`
}

// Validate checks the request's field values.
//
// Returns nil if valid, or a ValidationError describing the first invalid
// field.
func (r *SpansRequest) Validate() error {
	if err := validation.ValidateFilePath(r.FilePath); err != nil {
		return ValidationError{Field: "file_path", Message: err.Error()}
	}
	return nil
}

// ValidationError represents a request validation failure with field context.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// SpansResponse is the response for POST /v1/outline/spans.
type SpansResponse struct {
	// FilePath echoes the requested path.
	FilePath string `json:"file_path"`

	// Language is the language the content was parsed as.
	Language string `json:"language"`

	// Hash is the SHA256 hex digest of the content at parse time.
	Hash string `json:"hash"`

	// Spans are the outlining spans, sorted ascending by collapse start.
	Spans []folding.OutliningSpan `json:"spans"`

	// SpanCount is len(Spans), for clients that only want the count.
	SpanCount int `json:"span_count"`

	// SyntaxErrors indicates the parse tree contained error nodes. Spans
	// are still returned; some may be missing.
	SyntaxErrors bool `json:"syntax_errors"`

	// ComputedAtMilli is the Unix timestamp in milliseconds when the spans
	// were computed.
	ComputedAtMilli int64 `json:"computed_at_milli"`

	// DurationMs is how long parse plus collection took in milliseconds.
	DurationMs int64 `json:"duration_ms"`

	// Cached is true when the response was served from the result cache.
	Cached bool `json:"cached"`
}

// LanguagesResponse is the response for GET /v1/outline/languages.
type LanguagesResponse struct {
	// Languages lists the registered language names.
	Languages []string `json:"languages"`

	// Extensions lists the registered file extensions.
	Extensions []string `json:"extensions"`
}

// HealthResponse is the response for GET /v1/outline/health.
type HealthResponse struct {
	// Status is "healthy" or "degraded".
	Status string `json:"status"`

	// Version is the service version.
	Version string `json:"version"`
}

// ReadyResponse is the response for GET /v1/outline/ready.
type ReadyResponse struct {
	// Ready is true if the service is ready to accept requests.
	Ready bool `json:"ready"`

	// CachedResults is the number of cached span results.
	CachedResults int `json:"cached_results"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code (optional).
	Code string `json:"code,omitempty"`

	// Details provides additional error context (optional).
	Details string `json:"details,omitempty"`
}
