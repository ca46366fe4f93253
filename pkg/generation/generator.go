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

// Package generation drives video generation jobs from prompt to stored
// artifact: submission, polling, trait analysis, and lifecycle bookkeeping.
package generation

import (
	"context"

	"github.com/adsmith/adsmith/pkg/traits"
)

// JobSpec describes a single generation job.
type JobSpec struct {
	// Prompt is the fully rendered generation prompt.
	Prompt string

	// ImageBytes optionally conditions generation on a seed image.
	ImageBytes []byte

	// ImageMIMEType describes ImageBytes when present (e.g. "image/png").
	ImageMIMEType string

	// DurationSeconds is the requested clip length. Must already be snapped
	// to a supported duration.
	DurationSeconds int
}

// Job is a submitted generation job that can be polled to completion.
type Job interface {
	// Poll refreshes the job state. It returns true once the backend
	// reports the job finished (successfully or not).
	Poll(ctx context.Context) (done bool, err error)

	// Result returns the generated video bytes. Only valid after Poll
	// reported done with no error.
	Result(ctx context.Context) ([]byte, error)
}

// Generator submits generation jobs to a video backend.
type Generator interface {
	Start(ctx context.Context, spec JobSpec) (Job, error)
}

// Analyzer extracts structured creative properties from a generated video.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string, video []byte) (*traits.CreativeProperties, error)
}
