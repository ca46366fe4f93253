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
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/adsmith/adsmith/pkg/traits"
)

// AnalyzerConfig contains configuration for the trait analyzer.
type AnalyzerConfig struct {
	// APIKey is the Google AI API key.
	APIKey string

	// Model is the analysis model name (e.g., "gemini-2.0-flash").
	Model string
}

// GeminiAnalyzer implements Analyzer using Gemini structured output.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer creates a Gemini-backed trait analyzer.
func NewGeminiAnalyzer(cfg AnalyzerConfig) (*GeminiAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiAnalyzer{client: client, model: cfg.Model}, nil
}

const analyzePrompt = `Analyze this fashion advertisement video and describe its
creative traits. Report only what is visually present. Use lowercase
snake_case values. Prefer the vocabularies below, but report an accurate
free-form value when none of the listed ones fits.`

// Analyze sends the video to Gemini and decodes the structured response into
// creative properties. The generation prompt is included as context so the
// model can ground ambiguous traits.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, prompt string, video []byte) (*traits.CreativeProperties, error) {
	if len(video) == 0 {
		return nil, fmt.Errorf("no video to analyze")
	}

	instruction := analyzePrompt
	if prompt != "" {
		instruction += "\n\nThe video was generated from this prompt:\n" + prompt
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: "video/mp4", Data: video}},
				{Text: instruction},
			},
		},
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   propertiesSchema(),
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("empty analysis response")
	}

	props := &traits.CreativeProperties{}
	if err := json.Unmarshal([]byte(text), props); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}
	return props, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// propertiesSchema describes the structured analysis output. Enumerated
// fields list the preferred vocabulary without enforcing it: the model may
// report unlisted values and downstream code treats them permissively.
func propertiesSchema() *genai.Schema {
	stringField := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	numberField := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeNumber, Description: desc}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"mood":              stringField("Overall mood, e.g. " + strings.Join(traits.Moods, ", ")),
			"visual_style":      stringField("Visual treatment, e.g. " + strings.Join(traits.VisualStyles, ", ")),
			"energy_level":      stringField("Pacing energy, e.g. " + strings.Join(traits.EnergyLevels, ", ")),
			"color_temperature": stringField("Color grade, e.g. " + strings.Join(traits.ColorTemperatures, ", ")),
			"camera_movement":   stringField("Dominant camera movement, e.g. " + strings.Join(traits.CameraMovements, ", ")),
			"lighting_style":    stringField("Lighting setup, e.g. " + strings.Join(traits.LightingStyles, ", ")),
			"setting_type":      stringField("Location type, e.g. " + strings.Join(traits.SettingTypes, ", ")),
			"time_of_day":       stringField("Apparent time of day, e.g. " + strings.Join(traits.TimesOfDay, ", ")),
			"mood_intensity":    numberField("Mood intensity from 0 to 1"),
			"warmth": {
				Type:        genai.TypeBoolean,
				Description: "Whether the overall grade reads as warm",
			},
			"movement_amount":  numberField("Amount of subject movement from 0 to 1"),
			"color_saturation": numberField("Color saturation from 0 to 1"),
			"subject_count": {
				Type:        genai.TypeInteger,
				Description: "Number of human subjects visible",
			},
			"garment_visibility": numberField("How prominently the garment features, 0 to 1"),
			"background_complexity": numberField(
				"Visual complexity of the background from 0 to 1"),
			"dominant_colors": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Up to five dominant colors, most prominent first",
			},
			"style_tags": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Free-form style descriptors",
			},
		},
		Required: []string{"mood", "visual_style", "energy_level", "color_temperature"},
	}
}

var _ Analyzer = (*GeminiAnalyzer)(nil)
