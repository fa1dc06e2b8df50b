// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package outline provides the code-outlining HTTP service.
//
// The service exposes endpoints for:
//   - Computing fold/collapse spans for a source file
//   - Listing supported languages and extensions
//   - Health and readiness checks
package outline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/AleutianAI/outline/services/outline/ast"
	"github.com/AleutianAI/outline/services/outline/folding"
)

// ServiceConfig configures the outline service.
type ServiceConfig struct {
	// MaxFileSize is the maximum accepted source size in bytes.
	// Default: ast.DefaultMaxFileSize (10MB)
	MaxFileSize int64

	// MaxCachedResults is the maximum number of span results to cache.
	// Default: 128
	MaxCachedResults int

	// ResultTTL is how long cached results stay valid.
	// Default: 0 (no expiry)
	ResultTTL time.Duration
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxFileSize:      ast.DefaultMaxFileSize,
		MaxCachedResults: 128,
		ResultTTL:        0, // No expiry
	}
}

// cachedResult is one cached span computation, keyed by content hash.
type cachedResult struct {
	response       SpansResponse
	storedAtMilli  int64
	expiresAtMilli int64
}

// Service is the outline service.
//
// Thread Safety:
//
//	Service is safe for concurrent use. Multiple goroutines can call any
//	combination of methods simultaneously.
type Service struct {
	config ServiceConfig
	cache  map[string]*cachedResult
	mu     sync.RWMutex

	// registry holds parser instances
	registry *ast.ParserRegistry
}

// NewService creates a new outline service.
//
// Description:
//
//	Creates a service with the given configuration, an empty result cache,
//	and the default parser registry.
//
// Example:
//
//	svc := outline.NewService(outline.DefaultServiceConfig())
//	resp, err := svc.Outline(ctx, "main.ts", []byte("function f() {}"))
func NewService(config ServiceConfig) *Service {
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = ast.DefaultMaxFileSize
	}
	if config.MaxCachedResults <= 0 {
		config.MaxCachedResults = 128
	}
	return &Service{
		config:   config,
		cache:    make(map[string]*cachedResult),
		registry: ast.DefaultRegistry(),
	}
}

// Outline computes the outlining spans for one source file.
//
// Description:
//
//	Selects a parser by the path's extension, parses the content, runs the
//	folding engine, and caches the result by content hash. A cache hit
//	returns the stored response with Cached set.
//
// Inputs:
//   - ctx: Context for cancellation. Cancellation aborts the whole
//     computation; no partial span list is returned.
//   - filePath: Path used for grammar selection and reporting. Must not
//     contain path traversal sequences.
//   - content: Raw source bytes.
//
// Outputs:
//   - *SpansResponse: Spans plus parse metadata. Never nil on success.
//   - error: ast.ErrUnsupportedLanguage, ast.ErrFileTooLarge,
//     ast.ErrInvalidContent, or a wrapped context error.
//
// Thread Safety: This method is safe for concurrent use.
func (s *Service) Outline(ctx context.Context, filePath string, content []byte) (*SpansResponse, error) {
	parser, ok := s.registry.GetForPath(filePath)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ast.ErrUnsupportedLanguage, filepath.Ext(filePath))
	}
	if int64(len(content)) > s.config.MaxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ast.ErrFileTooLarge, len(content), s.config.MaxFileSize)
	}

	// The grammar depends on the extension, so the cache key carries both.
	sum := sha256.Sum256(content)
	key := filepath.Ext(filePath) + ":" + hex.EncodeToString(sum[:])
	if resp, ok := s.cachedResponse(key); ok {
		resp.FilePath = filePath
		resp.Cached = true
		return &resp, nil
	}

	started := time.Now()
	ctx, span := folding.StartCollectSpan(ctx, parser.Language(), filePath, len(content))
	defer span.End()

	doc, err := parser.Parse(ctx, content, filePath)
	if err != nil {
		folding.RecordCollectMetrics(ctx, parser.Language(), time.Since(started), 0, errors.Is(err, context.Canceled))
		return nil, err
	}
	defer doc.Close()

	spans, err := folding.CollectSpans(ctx, doc.Root(), doc.Content, doc.LineStarts)
	if err != nil {
		folding.RecordCollectMetrics(ctx, doc.Language, time.Since(started), 0, true)
		return nil, err
	}

	folding.SetCollectSpanResult(span, len(spans))
	folding.RecordCollectMetrics(ctx, doc.Language, time.Since(started), len(spans), false)

	resp := SpansResponse{
		FilePath:        filePath,
		Language:        doc.Language,
		Hash:            doc.Hash,
		Spans:           spans,
		SpanCount:       len(spans),
		SyntaxErrors:    doc.SyntaxErrors,
		ComputedAtMilli: time.Now().UnixMilli(),
		DurationMs:      time.Since(started).Milliseconds(),
	}
	s.storeResponse(key, resp)
	return &resp, nil
}

// Languages returns the registered language names and file extensions.
func (s *Service) Languages() ([]string, []string) {
	return s.registry.Languages(), s.registry.Extensions()
}

// CachedResultCount returns the number of cached span results.
func (s *Service) CachedResultCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

// cachedResponse returns a copy of the cached response for key, honoring
// expiry.
func (s *Service) cachedResponse(key string) (SpansResponse, bool) {
	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()
	if !ok {
		return SpansResponse{}, false
	}
	if entry.expiresAtMilli != 0 && time.Now().UnixMilli() > entry.expiresAtMilli {
		s.mu.Lock()
		delete(s.cache, key)
		s.mu.Unlock()
		return SpansResponse{}, false
	}
	return entry.response, true
}

// storeResponse caches resp under key, evicting the oldest entry when the
// cache is full.
func (s *Service) storeResponse(key string, resp SpansResponse) {
	now := time.Now().UnixMilli()
	entry := &cachedResult{
		response:      resp,
		storedAtMilli: now,
	}
	if s.config.ResultTTL > 0 {
		entry.expiresAtMilli = now + s.config.ResultTTL.Milliseconds()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cache) >= s.config.MaxCachedResults {
		var oldestKey string
		oldestAt := int64(0)
		for k, v := range s.cache {
			if oldestKey == "" || v.storedAtMilli < oldestAt {
				oldestKey = k
				oldestAt = v.storedAtMilli
			}
		}
		if oldestKey != "" {
			delete(s.cache, oldestKey)
		}
	}
	s.cache[key] = entry
}
