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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all outline routes with the router.
//
// Description:
//
//	Registers all /v1/outline/* endpoints with the given Gin router group.
//	The router group should already have any required middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST /v1/outline/spans - Compute outlining spans for file content
//	GET  /v1/outline/languages - List supported languages and extensions
//	GET  /v1/outline/health - Health check
//	GET  /v1/outline/ready - Readiness check
//
// Example:
//
//	svc := outline.NewService(outline.DefaultServiceConfig())
//	handlers := outline.NewHandlers(svc)
//
//	v1 := router.Group("/v1")
//	outline.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	group := rg.Group("/outline")
	{
		// Span computation
		group.POST("/spans", handlers.HandleSpans)

		// Capability discovery
		group.GET("/languages", handlers.HandleLanguages)

		// Health checks
		group.GET("/health", handlers.HandleHealth)
		group.GET("/ready", handlers.HandleReady)
	}
}
