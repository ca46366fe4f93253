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
	"time"
)

// NoopMetrics is a metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) RecordGenerationStarted(_ context.Context, _ string)                    {}
func (NoopMetrics) RecordGenerationCompleted(_ context.Context, _ string, _ time.Duration) {}
func (NoopMetrics) RecordGenerationFailed(_ context.Context, _ string, _ string)           {}
func (NoopMetrics) RecordAnalysisFailure(_ context.Context, _ string)                      {}
func (NoopMetrics) RecordFormulaApplication(_ context.Context, _ int)                      {}

var (
	_ Metrics = (*PrometheusMetrics)(nil)
	_ Metrics = NoopMetrics{}
)
