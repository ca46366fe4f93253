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

package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	globalMetrics Metrics
	metricsMu     sync.RWMutex
)

// Metrics records generation pipeline events.
type Metrics interface {
	RecordGenerationStarted(ctx context.Context, model string)
	RecordGenerationCompleted(ctx context.Context, model string, duration time.Duration)
	RecordGenerationFailed(ctx context.Context, model string, reason string)
	RecordAnalysisFailure(ctx context.Context, model string)
	RecordFormulaApplication(ctx context.Context, traitCount int)
}

// PrometheusMetrics implements Metrics on OpenTelemetry instruments.
// The zero value is a valid recorder that drops everything.
type PrometheusMetrics struct {
	generationDuration   metric.Float64Histogram
	generationsStarted   metric.Int64Counter
	generationsCompleted metric.Int64Counter
	generationsFailed    metric.Int64Counter
	analysisFailures     metric.Int64Counter
	formulaApplications  metric.Int64Counter
}

func NewPrometheusMetrics(
	generationDuration metric.Float64Histogram,
	generationsStarted metric.Int64Counter,
	generationsCompleted metric.Int64Counter,
	generationsFailed metric.Int64Counter,
	analysisFailures metric.Int64Counter,
	formulaApplications metric.Int64Counter,
) *PrometheusMetrics {
	return &PrometheusMetrics{
		generationDuration:   generationDuration,
		generationsStarted:   generationsStarted,
		generationsCompleted: generationsCompleted,
		generationsFailed:    generationsFailed,
		analysisFailures:     analysisFailures,
		formulaApplications:  formulaApplications,
	}
}

func (m *PrometheusMetrics) RecordGenerationStarted(ctx context.Context, model string) {
	if m == nil || m.generationsStarted == nil {
		return
	}
	m.generationsStarted.Add(ctx, 1, metric.WithAttributes(attribute.String("model", model)))
}

func (m *PrometheusMetrics) RecordGenerationCompleted(ctx context.Context, model string, duration time.Duration) {
	if m == nil || m.generationsCompleted == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("model", model))
	m.generationsCompleted.Add(ctx, 1, attrs)
	if m.generationDuration != nil {
		m.generationDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

func (m *PrometheusMetrics) RecordGenerationFailed(ctx context.Context, model string, reason string) {
	if m == nil || m.generationsFailed == nil {
		return
	}
	m.generationsFailed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("reason", reason),
	))
}

func (m *PrometheusMetrics) RecordAnalysisFailure(ctx context.Context, model string) {
	if m == nil || m.analysisFailures == nil {
		return
	}
	m.analysisFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("model", model)))
}

func (m *PrometheusMetrics) RecordFormulaApplication(ctx context.Context, traitCount int) {
	if m == nil || m.formulaApplications == nil {
		return
	}
	m.formulaApplications.Add(ctx, 1, metric.WithAttributes(attribute.Int("traits", traitCount)))
}

// SetGlobalMetrics installs the process-wide metrics recorder.
func SetGlobalMetrics(m Metrics) {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	globalMetrics = m
}

// GetGlobalMetrics returns the installed recorder, or a no-op when none is
// set.
func GetGlobalMetrics() Metrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	if globalMetrics == nil {
		return NoopMetrics{}
	}
	return globalMetrics
}
