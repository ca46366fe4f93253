// Copyright 2026 Adsmith Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package observability exposes generation metrics through the OpenTelemetry
// metric API with a Prometheus exporter.
package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMetrics builds a Prometheus-backed metrics recorder. When disabled the
// returned recorder silently drops all recordings.
func InitMetrics(ctx context.Context, enabled bool) (*PrometheusMetrics, error) {
	if !enabled {
		return &PrometheusMetrics{}, nil
	}

	promExporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(promExporter),
	)

	meter := meterProvider.Meter("adsmith")

	generationDuration, err := meter.Float64Histogram(
		"adsmith_generation_duration_seconds",
		metric.WithDescription("End-to-end video generation duration in seconds"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation duration histogram: %w", err)
	}

	generationsStarted, err := meter.Int64Counter(
		"adsmith_generations_started_total",
		metric.WithDescription("Total generation requests started"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generations started counter: %w", err)
	}

	generationsCompleted, err := meter.Int64Counter(
		"adsmith_generations_completed_total",
		metric.WithDescription("Total generation requests completed"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generations completed counter: %w", err)
	}

	generationsFailed, err := meter.Int64Counter(
		"adsmith_generations_failed_total",
		metric.WithDescription("Total generation requests failed"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generations failed counter: %w", err)
	}

	analysisFailures, err := meter.Int64Counter(
		"adsmith_analysis_failures_total",
		metric.WithDescription("Total trait analysis failures (non-fatal)"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis failures counter: %w", err)
	}

	formulaApplications, err := meter.Int64Counter(
		"adsmith_formula_applications_total",
		metric.WithDescription("Total winning-formula applications"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create formula applications counter: %w", err)
	}

	return NewPrometheusMetrics(
		generationDuration,
		generationsStarted,
		generationsCompleted,
		generationsFailed,
		analysisFailures,
		formulaApplications,
	), nil
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
