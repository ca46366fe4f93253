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
	"fmt"

	"google.golang.org/genai"
)

// VeoConfig contains configuration for the Veo video backend.
type VeoConfig struct {
	// APIKey is the Google AI API key.
	APIKey string

	// Model is the Veo model name (e.g., "veo-2.0-generate-001").
	Model string
}

// VeoGenerator implements Generator on the Google GenAI Veo API.
type VeoGenerator struct {
	client *genai.Client
	model  string
}

// NewVeoGenerator creates a Veo-backed generator.
func NewVeoGenerator(cfg VeoConfig) (*VeoGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "veo-2.0-generate-001"
	}

	// Client construction performs no I/O.
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &VeoGenerator{client: client, model: cfg.Model}, nil
}

// Start submits a generation job. The returned Job wraps the long-running
// operation handle and must be polled.
func (g *VeoGenerator) Start(ctx context.Context, spec JobSpec) (Job, error) {
	var image *genai.Image
	if len(spec.ImageBytes) > 0 {
		image = &genai.Image{
			ImageBytes: spec.ImageBytes,
			MIMEType:   spec.ImageMIMEType,
		}
	}

	config := &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
	}
	if spec.DurationSeconds > 0 {
		duration := int32(spec.DurationSeconds)
		config.DurationSeconds = &duration
	}

	op, err := g.client.Models.GenerateVideos(ctx, g.model, spec.Prompt, image, config)
	if err != nil {
		return nil, fmt.Errorf("failed to submit generation: %w", err)
	}

	return &veoJob{client: g.client, op: op}, nil
}

// veoJob tracks a long-running Veo operation.
type veoJob struct {
	client *genai.Client
	op     *genai.GenerateVideosOperation
}

func (j *veoJob) Poll(ctx context.Context) (bool, error) {
	op, err := j.client.Operations.GetVideosOperation(ctx, j.op, nil)
	if err != nil {
		return false, fmt.Errorf("failed to poll operation: %w", err)
	}
	j.op = op

	if !op.Done {
		return false, nil
	}
	if op.Error != nil {
		return true, fmt.Errorf("generation operation failed: %v", op.Error["message"])
	}
	return true, nil
}

func (j *veoJob) Result(ctx context.Context) ([]byte, error) {
	if j.op.Response == nil || len(j.op.Response.GeneratedVideos) == 0 {
		return nil, ErrEmptyResult
	}

	video := j.op.Response.GeneratedVideos[0].Video
	if video == nil {
		return nil, ErrEmptyResult
	}

	// Hosted results carry a URI instead of inline bytes.
	if len(video.VideoBytes) == 0 && video.URI != "" {
		data, err := j.client.Files.Download(ctx, video, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to download video: %w", err)
		}
		video.VideoBytes = data
	}

	if len(video.VideoBytes) == 0 {
		return nil, ErrEmptyResult
	}
	return video.VideoBytes, nil
}

var _ Generator = (*VeoGenerator)(nil)
