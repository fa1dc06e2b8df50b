// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command outlined starts a standalone outline API server.
//
// Usage:
//
//	go run ./cmd/outlined
//	go run ./cmd/outlined -port 9090
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/outline/health
//
//	# Supported languages
//	curl http://localhost:8080/v1/outline/languages | jq
//
//	# Compute outlining spans
//	curl -X POST http://localhost:8080/v1/outline/spans \
//	  -H "Content-Type: application/json" \
//	  -d '{"file_path": "main.ts", "content": "function f() {\n  return 1;\n}\n"}'
//
//	# Prometheus metrics
//	curl http://localhost:8080/metrics
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/AleutianAI/outline/pkg/logging"
	"github.com/AleutianAI/outline/services/outline"
)

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	debug := flag.Bool("debug", false, "Enable debug mode")
	logDir := flag.String("log-dir", "", "Optional directory for JSON log files")
	flag.Parse()

	logger := logging.New(logging.Config{
		Level:   levelFor(*debug),
		LogDir:  *logDir,
		Service: "outlined",
	})
	defer logger.Close()

	// Export otel metrics through the Prometheus registry served on /metrics
	if err := setupMetrics(); err != nil {
		logger.Warn("metrics setup failed, continuing without metrics", "error", err)
	}

	// Set Gin mode
	if *debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create service with default config
	cfg := outline.DefaultServiceConfig()
	svc := outline.NewService(cfg)

	// Create handlers
	handlers := outline.NewHandlers(svc)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	if *debug {
		router.Use(gin.Logger())
	}

	// Register routes
	v1 := router.Group("/v1")
	outline.RegisterRoutes(v1, handlers)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Print startup banner
	printBanner(*port)

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\nShutting down outline server...")
		os.Exit(0)
	}()

	// Start server
	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting outline server", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupMetrics installs a Prometheus-backed otel meter provider so the
// folding package's instruments surface on /metrics.
func setupMetrics() error {
	exporter, err := otelprom.New()
	if err != nil {
		return err
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", "outlined"),
		attribute.String("service.version", outline.Version),
	)
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)
	return nil
}

func levelFor(debug bool) logging.Level {
	if debug {
		return logging.LevelDebug
	}
	return logging.LevelInfo
}

func printBanner(port int) {
	banner := `
╔═══════════════════════════════════════════════════════════════════╗
║                      OUTLINE TEST SERVER                          ║
╠═══════════════════════════════════════════════════════════════════╣
║                                                                   ║
║  A standalone server for computing code-folding spans.            ║
║                                                                   ║
║  Quick Start:                                                     ║
║  ┌─────────────────────────────────────────────────────────────┐  ║
║  │ # Health check                                              │  ║
║  │ curl http://localhost:%d/v1/outline/health                │  ║
║  │                                                             │  ║
║  │ # Supported languages                                       │  ║
║  │ curl http://localhost:%d/v1/outline/languages | jq        │  ║
║  │                                                             │  ║
║  │ # Compute spans                                             │  ║
║  │ curl -X POST http://localhost:%d/v1/outline/spans \       │  ║
║  │   -H "Content-Type: application/json" \                     │  ║
║  │   -d '{"file_path": "a.ts", "content": "..."}'              │  ║
║  └─────────────────────────────────────────────────────────────┘  ║
║                                                                   ║
║  Endpoints:                                                       ║
║  ├── POST /v1/outline/spans      compute fold spans               ║
║  ├── GET  /v1/outline/languages  capability discovery             ║
║  ├── GET  /v1/outline/health     health check                     ║
║  ├── GET  /v1/outline/ready      readiness check                  ║
║  └── GET  /metrics               Prometheus metrics               ║
║                                                                   ║
║  Press Ctrl+C to stop                                             ║
╚═══════════════════════════════════════════════════════════════════╝
`
	fmt.Printf(banner, port, port, port)
}
