// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package folding

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for span collection.
var (
	tracer = otel.Tracer("aleutian.outline.folding")
	meter  = otel.Meter("aleutian.outline.folding")
)

// Metrics for outlining operations.
var (
	collectLatency metric.Float64Histogram
	collectTotal   metric.Int64Counter
	spansYielded   metric.Int64Histogram
	collectAborts  metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		collectLatency, err = meter.Float64Histogram(
			"outline_collect_duration_seconds",
			metric.WithDescription("Duration of outlining span collection"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		collectTotal, err = meter.Int64Counter(
			"outline_collect_total",
			metric.WithDescription("Total number of span collection runs"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		spansYielded, err = meter.Int64Histogram(
			"outline_spans_yielded",
			metric.WithDescription("Number of outlining spans produced per run"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		collectAborts, err = meter.Int64Counter(
			"outline_collect_aborts_total",
			metric.WithDescription("Total number of canceled span collection runs"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// RecordCollectMetrics records metrics for one span collection run.
//
// Parameters:
//   - ctx: Context for metric recording
//   - language: Language of the outlined file (e.g., "typescript")
//   - duration: How long collection took
//   - spanCount: Number of spans produced
//   - canceled: Whether the run was aborted by cancellation
func RecordCollectMetrics(ctx context.Context, language string, duration time.Duration, spanCount int, canceled bool) {
	if err := initMetrics(); err != nil {
		return // Silently skip if metrics init failed
	}

	attrs := metric.WithAttributes(
		attribute.String("language", language),
		attribute.Bool("canceled", canceled),
	)

	collectLatency.Record(ctx, duration.Seconds(), attrs)
	collectTotal.Add(ctx, 1, attrs)

	if canceled {
		collectAborts.Add(ctx, 1,
			metric.WithAttributes(attribute.String("language", language)),
		)
	} else {
		spansYielded.Record(ctx, int64(spanCount),
			metric.WithAttributes(attribute.String("language", language)),
		)
	}
}

// StartCollectSpan creates a trace span for one span collection run.
//
// Returns:
//   - ctx: Context with span
//   - span: The created span (caller must call span.End())
func StartCollectSpan(ctx context.Context, language, filePath string, contentSize int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Folding.CollectSpans",
		trace.WithAttributes(
			attribute.String("outline.language", language),
			attribute.String("outline.file", filePath),
			attribute.Int("outline.content_size", contentSize),
		),
	)
}

// SetCollectSpanResult sets the result attributes on a collection span.
func SetCollectSpanResult(span trace.Span, spanCount int) {
	span.SetAttributes(
		attribute.Int("outline.span_count", spanCount),
	)
}
