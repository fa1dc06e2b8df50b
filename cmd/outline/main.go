// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command outline computes code-folding spans for source files.
//
// Usage:
//
//	outline spans main.ts            # spans for one file, JSON on stdout
//	outline spans --compact a.ts b.ts
//	outline languages                # supported languages and extensions
//
// # Exit Codes
//
//   - 0: All files outlined (possibly with degraded span lists)
//   - 1: At least one file could not be read or parsed
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/outline/pkg/logging"
	"github.com/AleutianAI/outline/services/outline"
	"github.com/AleutianAI/outline/services/outline/folding"
)

const (
	cliExitSuccess = 0
	cliExitError   = 1
)

var (
	spansCompact        bool
	spansStructuralOnly bool
	spansRegionOnly     bool
)

var rootCmd = &cobra.Command{
	Use:   "outline",
	Short: "Compute code-folding spans for source files",
	Long: `outline computes the fold/collapse ranges an editor would show for a
source file: blocks, declaration bodies, literals, comment runs, and
#region marker pairs.`,
	SilenceUsage: true,
}

var spansCmd = &cobra.Command{
	Use:   "spans <file> [<file>...]",
	Short: "Print outlining spans for the given files as JSON",
	Args:  cobra.MinimumNArgs(1),
	Run:   runSpans,
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and file extensions",
	Run:   runLanguages,
}

func init() {
	spansCmd.Flags().BoolVar(&spansCompact, "compact", false, "Compact JSON output (one line per file)")
	spansCmd.Flags().BoolVar(&spansStructuralOnly, "structural-only", false, "Drop region-marker spans")
	spansCmd.Flags().BoolVar(&spansRegionOnly, "region-only", false, "Keep only region-marker spans")
	rootCmd.AddCommand(spansCmd)
	rootCmd.AddCommand(languagesCmd)
}

// fileSpans is the per-file JSON document printed by "outline spans".
type fileSpans struct {
	FilePath     string                  `json:"file_path"`
	Language     string                  `json:"language"`
	SyntaxErrors bool                    `json:"syntax_errors"`
	Spans        []folding.OutliningSpan `json:"spans"`
}

// runSpans outlines each argument file and prints one JSON document per
// file. Syntactically invalid files still produce (possibly shorter) span
// lists; only unreadable or unsupported files fail the run.
func runSpans(cmd *cobra.Command, args []string) {
	logger := logging.Default()
	svc := outline.NewService(outline.DefaultServiceConfig())

	failed := false
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Error("cannot read file", "file", path, "error", err)
			failed = true
			continue
		}

		resp, err := svc.Outline(context.Background(), path, content)
		if err != nil {
			logger.Error("cannot outline file", "file", path, "error", err)
			failed = true
			continue
		}

		doc := fileSpans{
			FilePath:     resp.FilePath,
			Language:     resp.Language,
			SyntaxErrors: resp.SyntaxErrors,
			Spans:        filterSpans(resp.Spans),
		}
		if err := outputJSON(doc, spansCompact); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			os.Exit(cliExitError)
		}
	}

	if failed {
		os.Exit(cliExitError)
	}
}

// filterSpans applies the --structural-only / --region-only flags. Region
// spans are recognized by their banner: everything except the plain
// ellipsis banner came from region markers.
func filterSpans(spans []folding.OutliningSpan) []folding.OutliningSpan {
	if !spansStructuralOnly && !spansRegionOnly {
		return spans
	}
	filtered := make([]folding.OutliningSpan, 0, len(spans))
	for _, s := range spans {
		isRegion := s.Banner != "..."
		if spansRegionOnly && isRegion {
			filtered = append(filtered, s)
		}
		if spansStructuralOnly && !isRegion {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func runLanguages(cmd *cobra.Command, args []string) {
	svc := outline.NewService(outline.DefaultServiceConfig())
	languages, extensions := svc.Languages()
	doc := outline.LanguagesResponse{
		Languages:  languages,
		Extensions: extensions,
	}
	if err := outputJSON(doc, false); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
		os.Exit(cliExitError)
	}
}

// outputJSON writes v to stdout, indented unless compact.
func outputJSON(v any, compact bool) error {
	enc := json.NewEncoder(os.Stdout)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(cliExitError)
	}
}
