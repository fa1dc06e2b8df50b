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
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/outline/services/outline/ast"
)

// Handlers contains the HTTP handlers for the outline service.
//
// Thread Safety: Handlers is safe for concurrent use.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the outline service.
//
// Inputs:
//
//	svc - The outline service. Must not be nil.
//
// Example:
//
//	svc := outline.NewService(outline.DefaultServiceConfig())
//	handlers := outline.NewHandlers(svc)
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleSpans handles POST /v1/outline/spans.
//
// Description:
//
//	Computes the outlining spans for the posted file content. The response
//	is best-effort even for syntactically invalid input; only unsupported
//	extensions, oversized or non-UTF-8 content, and cancellation fail the
//	request.
//
// Request Body:
//
//	SpansRequest
//
// Response:
//
//	200 OK: SpansResponse
//	400 Bad Request: Validation error or invalid content
//	413 Request Entity Too Large: Content exceeds the size limit
//	422 Unprocessable Entity: Unsupported file extension
//	503 Service Unavailable: Request canceled
//
// Thread Safety: This method is safe for concurrent use.
func (h *Handlers) HandleSpans(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSpans")

	var req SpansRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if err := req.Validate(); err != nil {
		logger.Warn("Request validation failed", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Request validation failed",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.svc.Outline(c.Request.Context(), req.FilePath, []byte(req.Content))
	if err != nil {
		status, code := statusForOutlineError(err)
		if status == http.StatusServiceUnavailable {
			logger.Info("Outline canceled", "file", req.FilePath)
		} else {
			logger.Warn("Outline failed", "file", req.FilePath, "error", err)
		}
		c.JSON(status, ErrorResponse{
			Error:   "Outline failed",
			Code:    code,
			Details: err.Error(),
		})
		return
	}

	logger.Debug("Outline computed",
		"file", req.FilePath,
		"span_count", resp.SpanCount,
		"cached", resp.Cached)
	c.JSON(http.StatusOK, resp)
}

// HandleLanguages handles GET /v1/outline/languages.
//
// Response:
//
//	200 OK: LanguagesResponse
func (h *Handlers) HandleLanguages(c *gin.Context) {
	languages, extensions := h.svc.Languages()
	c.JSON(http.StatusOK, LanguagesResponse{
		Languages:  languages,
		Extensions: extensions,
	})
}

// HandleHealth handles GET /v1/outline/health.
//
// Response:
//
//	200 OK: HealthResponse
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: Version,
	})
}

// HandleReady handles GET /v1/outline/ready.
//
// Response:
//
//	200 OK: ReadyResponse
func (h *Handlers) HandleReady(c *gin.Context) {
	c.JSON(http.StatusOK, ReadyResponse{
		Ready:         true,
		CachedResults: h.svc.CachedResultCount(),
	})
}

// statusForOutlineError maps service errors to HTTP status and error codes.
func statusForOutlineError(err error) (int, string) {
	switch {
	case errors.Is(err, ast.ErrUnsupportedLanguage):
		return http.StatusUnprocessableEntity, "UNSUPPORTED_LANGUAGE"
	case errors.Is(err, ast.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"
	case errors.Is(err, ast.ErrInvalidContent):
		return http.StatusBadRequest, "INVALID_CONTENT"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "CANCELED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// getOrCreateRequestID returns the request's X-Request-ID header, creating
// one when absent, and echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
