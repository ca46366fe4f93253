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

package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/adsmith/adsmith/pkg/artifact"
	"github.com/adsmith/adsmith/pkg/asset"
	"github.com/adsmith/adsmith/pkg/config"
	"github.com/adsmith/adsmith/pkg/observability"
	"github.com/adsmith/adsmith/pkg/store"
	"github.com/adsmith/adsmith/pkg/traits"
)

// Orchestrator coordinates a generation request through its full lifecycle:
// prompt rendering, submission, polling, artifact storage, trait analysis,
// and terminal state recording. Every code path through Execute ends in a
// terminal state; a request is never left generating.
type Orchestrator struct {
	store    *store.Store
	gen      Generator
	analyzer Analyzer
	sink     artifact.Sink
	cfg      config.GenerationConfig
}

// NewOrchestrator wires an orchestrator. analyzer may be nil, in which case
// completed requests carry no creative properties.
func NewOrchestrator(s *store.Store, gen Generator, analyzer Analyzer, sink artifact.Sink, cfg config.GenerationConfig) *Orchestrator {
	return &Orchestrator{
		store:    s,
		gen:      gen,
		analyzer: analyzer,
		sink:     sink,
		cfg:      cfg,
	}
}

// Prepare validates inputs, renders the prompt, and persists a new request
// in the generating state. It fails fast before any backend work: an
// unknown campaign or missing seed never produces a request row.
func (o *Orchestrator) Prepare(ctx context.Context, campaignID, seedID string, overrides map[string]string, durationSeconds int) (*asset.GenerationRequest, error) {
	if _, err := o.store.GetCampaign(ctx, campaignID); err != nil {
		return nil, fmt.Errorf("campaign lookup failed: %w", err)
	}

	seed, err := o.resolveSeed(ctx, campaignID, seedID)
	if err != nil {
		return nil, err
	}

	if durationSeconds <= 0 {
		durationSeconds = o.cfg.DefaultDurationSeconds
	}
	snapped := asset.SnapDuration(durationSeconds)

	prompt := traits.Render(seed.Seed, overrides)

	req, err := o.store.CreateRequest(ctx, campaignID, seed.ID, prompt, snapped)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	slog.Info("Generation request created",
		"request", req.ID, "campaign", campaignID, "seed", seed.ID, "duration", snapped)
	return req, nil
}

// Execute drives a prepared request to a terminal state. It blocks until the
// request completes, fails, or the polling budget runs out. Errors from the
// backend, the artifact sink, and panics all terminate in the failed state;
// analysis errors do not (the request completes with nil properties).
func (o *Orchestrator) Execute(ctx context.Context, req *asset.GenerationRequest) (err error) {
	metrics := observability.GetGlobalMetrics()
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			reason := fmt.Sprintf("panic during generation: %v", r)
			slog.Error("Generation panicked", "request", req.ID, "panic", r)
			err = o.fail(ctx, metrics, req, reason, nil)
		}
	}()

	metrics.RecordGenerationStarted(ctx, o.cfg.VideoModel)

	spec, err := o.buildSpec(ctx, req)
	if err != nil {
		return o.fail(ctx, metrics, req, err.Error(), err)
	}

	job, err := o.gen.Start(ctx, spec)
	if err != nil {
		return o.fail(ctx, metrics, req, fmt.Sprintf("submission failed: %v", err), err)
	}

	if err := o.await(ctx, job); err != nil {
		return o.fail(ctx, metrics, req, err.Error(), err)
	}

	data, err := job.Result(ctx)
	if err != nil {
		return o.fail(ctx, metrics, req, fmt.Sprintf("result retrieval failed: %v", err), err)
	}

	name := artifact.Name(req.CampaignID, req.ID, time.Now())
	ref, err := o.sink.Store(ctx, name, data)
	if err != nil {
		return o.fail(ctx, metrics, req, fmt.Sprintf("artifact storage failed: %v", err), err)
	}

	// Analysis is best-effort: a completed video is worth keeping even when
	// trait extraction fails.
	var props *traits.CreativeProperties
	if o.analyzer != nil {
		props, err = o.analyzer.Analyze(ctx, req.Prompt, data)
		if err != nil {
			slog.Warn("Trait analysis failed, completing without properties",
				"request", req.ID, "error", err)
			metrics.RecordAnalysisFailure(ctx, o.cfg.AnalyzerModel)
			props = nil
		}
	}

	if err := o.store.MarkCompleted(ctx, req.ID, ref, props); err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}

	if o.cfg.MetricsBackfillDays > 0 {
		if err := o.store.SeedDailyMetrics(ctx, req.ID, o.cfg.MetricsBackfillDays); err != nil {
			slog.Warn("Failed to backfill performance metrics", "request", req.ID, "error", err)
		}
	}

	metrics.RecordGenerationCompleted(ctx, o.cfg.VideoModel, time.Since(started))
	slog.Info("Generation completed", "request", req.ID, "output", ref,
		"elapsed", time.Since(started).Round(time.Second))
	return nil
}

// Generate is Prepare followed by Execute, returning the refreshed request.
func (o *Orchestrator) Generate(ctx context.Context, campaignID, seedID string, overrides map[string]string, durationSeconds int) (*asset.GenerationRequest, error) {
	req, err := o.Prepare(ctx, campaignID, seedID, overrides, durationSeconds)
	if err != nil {
		return nil, err
	}
	if err := o.Execute(ctx, req); err != nil {
		return nil, err
	}
	return o.store.GetRequest(ctx, req.ID)
}

// GenerateVariations prepares one request per override set, then executes
// them with bounded concurrency. Requests are prepared sequentially so their
// ids stay in input order. The returned slice always holds every prepared
// request; the error reflects the first execution failure, if any.
func (o *Orchestrator) GenerateVariations(ctx context.Context, campaignID, seedID string, variations []map[string]string, durationSeconds int) ([]*asset.GenerationRequest, error) {
	if len(variations) == 0 {
		return nil, fmt.Errorf("no variations given")
	}

	reqs := make([]*asset.GenerationRequest, 0, len(variations))
	for _, overrides := range variations {
		req, err := o.Prepare(ctx, campaignID, seedID, overrides, durationSeconds)
		if err != nil {
			return reqs, err
		}
		reqs = append(reqs, req)
	}

	g, gctx := errgroup.WithContext(ctx)
	limit := o.cfg.MaxConcurrent
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for _, req := range reqs {
		g.Go(func() error {
			return o.Execute(gctx, req)
		})
	}
	return reqs, g.Wait()
}

// ApplyWinningFormula extracts a formula from a completed source asset and
// prepares a new request for the target seed with the formula's traits
// applied. sourceID 0 selects the campaign's best performer by revenue.
// The returned request is prepared, not executed.
func (o *Orchestrator) ApplyWinningFormula(ctx context.Context, campaignID string, sourceID int64, traitsToApply []string, durationSeconds int) (*asset.GenerationRequest, error) {
	source, err := o.resolveSource(ctx, campaignID, sourceID)
	if err != nil {
		return nil, err
	}

	sourceSeed, err := o.store.GetSeed(ctx, source.SeedID)
	if err != nil {
		return nil, fmt.Errorf("source seed lookup failed: %w", err)
	}

	formula := traits.ExtractFormula(source.Properties, sourceSeed.Seed)
	if len(traitsToApply) == 0 {
		traitsToApply = formula.DefaultTraits()
	}

	target, err := o.resolveSeed(ctx, campaignID, "")
	if err != nil {
		return nil, err
	}

	prompt, err := traits.ApplyFormula(target.Seed, formula, traitsToApply)
	if err != nil {
		return nil, err
	}

	if durationSeconds <= 0 {
		durationSeconds = o.cfg.DefaultDurationSeconds
	}
	req, err := o.store.CreateRequest(ctx, campaignID, target.ID, prompt, asset.SnapDuration(durationSeconds))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	observability.GetGlobalMetrics().RecordFormulaApplication(ctx, len(traitsToApply))
	slog.Info("Winning formula applied",
		"request", req.ID, "source", source.ID, "traits", len(traitsToApply),
		"structured", formula.Structured)
	return req, nil
}

// resolveSeed returns the named seed, or the campaign's most recent seed
// when seedID is empty.
func (o *Orchestrator) resolveSeed(ctx context.Context, campaignID, seedID string) (*asset.SeedImage, error) {
	if seedID != "" {
		seed, err := o.store.GetSeed(ctx, seedID)
		if err != nil {
			return nil, fmt.Errorf("seed lookup failed: %w", err)
		}
		return seed, nil
	}

	seed, err := o.store.LatestSeed(ctx, campaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("campaign %s has no seed images: %w", campaignID, err)
		}
		return nil, fmt.Errorf("seed lookup failed: %w", err)
	}
	return seed, nil
}

// resolveSource returns the formula source asset: the explicit request when
// sourceID is set, otherwise the campaign's best performer.
func (o *Orchestrator) resolveSource(ctx context.Context, campaignID string, sourceID int64) (*asset.GenerationRequest, error) {
	if sourceID == 0 {
		source, _, err := o.store.BestPerforming(ctx, campaignID)
		if err != nil {
			return nil, err
		}
		return source, nil
	}

	source, err := o.store.GetRequest(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("source lookup failed: %w", err)
	}
	if source.Status != asset.StatusCompleted {
		return nil, fmt.Errorf("source asset %d is %s, formula extraction requires a completed asset", source.ID, source.Status)
	}
	return source, nil
}

// buildSpec assembles the backend job spec, loading the seed image when the
// request's seed has one on disk.
func (o *Orchestrator) buildSpec(ctx context.Context, req *asset.GenerationRequest) (JobSpec, error) {
	spec := JobSpec{
		Prompt:          req.Prompt,
		DurationSeconds: req.DurationSeconds,
	}

	if req.SeedID == "" {
		return spec, nil
	}

	seed, err := o.store.GetSeed(ctx, req.SeedID)
	if err != nil {
		return spec, fmt.Errorf("seed lookup failed: %v", err)
	}
	if seed.ImagePath == "" {
		return spec, nil
	}

	data, err := os.ReadFile(seed.ImagePath)
	if err != nil {
		return spec, fmt.Errorf("failed to read seed image: %v", err)
	}

	spec.ImageBytes = data
	spec.ImageMIMEType = imageMIMEType(seed.ImagePath)
	return spec, nil
}

func imageMIMEType(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "image/png"
}

// await polls the job until done, the polling budget is exhausted, or ctx
// is cancelled.
func (o *Orchestrator) await(ctx context.Context, job Job) error {
	interval := o.cfg.PollInterval
	if interval <= 0 {
		interval = 20 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	deadline := time.NewTimer(o.cfg.Timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("no completion within %s: %w", o.cfg.Timeout, ErrTimeout)
		case <-ticker.C:
			done, err := job.Poll(ctx)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

// fail records the terminal failed state and returns an Error carrying the
// prompt. A failure to persist the transition is logged but the original
// failure is what the caller sees.
func (o *Orchestrator) fail(ctx context.Context, metrics observability.Metrics, req *asset.GenerationRequest, reason string, cause error) error {
	// The transition must be recorded even when ctx is already cancelled.
	ctx = context.WithoutCancel(ctx)
	if err := o.store.MarkFailed(ctx, req.ID, reason); err != nil {
		slog.Error("Failed to record failure", "request", req.ID, "error", err)
	}
	metrics.RecordGenerationFailed(ctx, o.cfg.VideoModel, reason)
	slog.Error("Generation failed", "request", req.ID, "reason", reason)
	return NewError(req.Prompt, reason, cause)
}
