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

// Package traits models the creative attributes of a generated ad and the
// pure logic built on top of them: prompt rendering, winning-formula
// extraction, and trait transfer.
//
// Everything in this package is side-effect free. Values outside the
// documented vocabularies are accepted and degrade to generic phrases at
// render time instead of failing.
package traits

// Enumerated vocabularies for the property fields. These are advisory:
// the renderer falls back to an interpolated phrase for unknown values.
var (
	Moods = []string{"confident", "elegant", "playful", "edgy", "romantic", "relaxed"}

	VisualStyles = []string{"cinematic", "documentary", "vintage", "minimalist", "vibrant"}

	EnergyLevels = []string{"calm", "moderate", "dynamic", "high_energy"}

	ColorTemperatures = []string{"warm", "neutral", "cool"}

	CameraMovements = []string{"slow_orbit", "push_in", "pull_back", "handheld", "static", "crane_down"}

	LightingStyles = []string{"studio", "natural", "golden_hour", "dramatic", "soft"}

	SettingTypes = []string{"studio", "urban", "outdoor", "indoor", "beach", "rooftop"}

	TimesOfDay = []string{"dawn", "morning", "midday", "sunset", "night"}
)

// CreativeProperties is the property bag attached to an analyzed asset.
// Enumerated fields are empty when unknown; continuous fields come from the
// post-generation analyzer and are zero-valued when analysis never ran.
type CreativeProperties struct {
	Mood             string `json:"mood,omitempty" yaml:"mood,omitempty"`
	VisualStyle      string `json:"visual_style,omitempty" yaml:"visual_style,omitempty"`
	EnergyLevel      string `json:"energy_level,omitempty" yaml:"energy_level,omitempty"`
	ColorTemperature string `json:"color_temperature,omitempty" yaml:"color_temperature,omitempty"`
	CameraMovement   string `json:"camera_movement,omitempty" yaml:"camera_movement,omitempty"`
	LightingStyle    string `json:"lighting_style,omitempty" yaml:"lighting_style,omitempty"`
	SettingType      string `json:"setting_type,omitempty" yaml:"setting_type,omitempty"`
	TimeOfDay        string `json:"time_of_day,omitempty" yaml:"time_of_day,omitempty"`

	// Continuous fields derived by the analyzer. Ratios are in [0, 1].
	MoodIntensity        float64  `json:"mood_intensity,omitempty" yaml:"mood_intensity,omitempty"`
	Warmth               bool     `json:"warmth,omitempty" yaml:"warmth,omitempty"`
	MovementAmount       float64  `json:"movement_amount,omitempty" yaml:"movement_amount,omitempty"`
	ColorSaturation      float64  `json:"color_saturation,omitempty" yaml:"color_saturation,omitempty"`
	SubjectCount         int      `json:"subject_count,omitempty" yaml:"subject_count,omitempty"`
	GarmentVisibility    float64  `json:"garment_visibility,omitempty" yaml:"garment_visibility,omitempty"`
	BackgroundComplexity float64  `json:"background_complexity,omitempty" yaml:"background_complexity,omitempty"`
	DominantColors       []string `json:"dominant_colors,omitempty" yaml:"dominant_colors,omitempty"`
	StyleTags            []string `json:"style_tags,omitempty" yaml:"style_tags,omitempty"`

	// Extra carries analyzer output that has no dedicated field yet, so new
	// analyzer vocabulary does not require a schema change.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}
