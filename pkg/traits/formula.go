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

package traits

import (
	"fmt"
	"slices"
	"strings"
)

// Formula trait names. These are the keys a caller may request when
// transferring traits from a winning asset onto a new target.
const (
	TraitMood             = "mood"
	TraitVisualStyle      = "visual_style"
	TraitEnergyLevel      = "energy_level"
	TraitColorTemperature = "color_temperature"
	TraitCameraStyle      = "camera_style"
	TraitLightingStyle    = "lighting_style"
	TraitSetting          = "setting"
	TraitMovement         = "movement"
	TraitKeyFeature       = "key_feature"
	TraitModelDescription = "model_description"
)

// AllowedTraits is the closed set of transferable trait names.
var AllowedTraits = []string{
	TraitMood,
	TraitVisualStyle,
	TraitEnergyLevel,
	TraitColorTemperature,
	TraitCameraStyle,
	TraitLightingStyle,
	TraitSetting,
	TraitMovement,
	TraitKeyFeature,
	TraitModelDescription,
}

// structuredDefaultTraits is the default transfer set when the formula was
// derived from analyzed properties.
var structuredDefaultTraits = []string{
	TraitMood,
	TraitVisualStyle,
	TraitEnergyLevel,
	TraitColorTemperature,
	TraitCameraStyle,
	TraitLightingStyle,
	TraitSetting,
}

// legacyDefaultTraits is the narrower default when the formula came from
// seed free text. Legacy mode carries fewer meaningful fields, so the
// asymmetry is deliberate.
var legacyDefaultTraits = []string{
	TraitMood,
	TraitMovement,
	TraitCameraStyle,
	TraitSetting,
}

// InvalidTraitError reports trait names outside AllowedTraits.
type InvalidTraitError struct {
	Traits []string
}

func (e *InvalidTraitError) Error() string {
	return fmt.Sprintf("invalid traits: %s (allowed: %s)",
		strings.Join(e.Traits, ", "), strings.Join(AllowedTraits, ", "))
}

// WinningFormula is the ephemeral trait bag extracted from one completed
// asset. It is never persisted and lives only for the single application
// that produced it.
type WinningFormula struct {
	Traits map[string]string

	// Structured reports whether the formula came from analyzed properties
	// rather than the legacy seed-text fallback.
	Structured bool
}

// DefaultTraits returns the trait subset applied when the caller passes
// none: seven traits for structured formulas, four for legacy ones.
func (f WinningFormula) DefaultTraits() []string {
	if f.Structured {
		return slices.Clone(structuredDefaultTraits)
	}
	return slices.Clone(legacyDefaultTraits)
}

// ExtractFormula derives a winning formula from an asset's analyzed
// properties, falling back to the seed's free-text fields when no analysis
// exists.
//
// In the structured path the analyzer's camera_movement maps to the
// camera_style trait and setting_type maps to setting; movement, key_feature
// and model_description are supplemented from the seed since post-hoc
// analysis does not capture them. The legacy path derives everything from
// the seed and pins visual_style, energy_level, color_temperature and
// lighting_style to hard defaults.
func ExtractFormula(props *CreativeProperties, seed SeedContext) WinningFormula {
	f := WinningFormula{Traits: make(map[string]string, len(AllowedTraits))}

	if props != nil {
		f.Structured = true
		setTrait(f.Traits, TraitMood, props.Mood)
		setTrait(f.Traits, TraitVisualStyle, props.VisualStyle)
		setTrait(f.Traits, TraitEnergyLevel, props.EnergyLevel)
		setTrait(f.Traits, TraitColorTemperature, props.ColorTemperature)
		setTrait(f.Traits, TraitCameraStyle, props.CameraMovement)
		setTrait(f.Traits, TraitLightingStyle, props.LightingStyle)
		setTrait(f.Traits, TraitSetting, props.SettingType)
		setTrait(f.Traits, TraitMovement, seed.Movement)
		setTrait(f.Traits, TraitKeyFeature, seed.KeyFeature)
		setTrait(f.Traits, TraitModelDescription, seed.ModelDescription)
		return f
	}

	setTrait(f.Traits, TraitMood, seed.Mood)
	setTrait(f.Traits, TraitMovement, seed.Movement)
	setTrait(f.Traits, TraitCameraStyle, seed.CameraStyle)
	setTrait(f.Traits, TraitSetting, seed.SettingDescription)
	setTrait(f.Traits, TraitKeyFeature, seed.KeyFeature)
	setTrait(f.Traits, TraitModelDescription, seed.ModelDescription)

	// Legacy free text never captured these, so they are pinned.
	f.Traits[TraitVisualStyle] = "cinematic"
	f.Traits[TraitEnergyLevel] = "moderate"
	f.Traits[TraitColorTemperature] = "neutral"
	f.Traits[TraitLightingStyle] = "studio"

	return f
}

// ApplyFormula merges the selected traits of a formula into a new target
// seed and renders the resulting prompt. Traits not selected keep the
// target's own values or defaults: this is a per-field merge, never a
// whole-object replacement.
//
// An empty traitsToApply selects the formula's default subset. Unknown
// trait names fail with *InvalidTraitError before anything is rendered.
func ApplyFormula(target SeedContext, formula WinningFormula, traitsToApply []string) (string, error) {
	if len(traitsToApply) == 0 {
		traitsToApply = formula.DefaultTraits()
	}

	var bad []string
	for _, t := range traitsToApply {
		if !slices.Contains(AllowedTraits, t) {
			bad = append(bad, t)
		}
	}
	if len(bad) > 0 {
		return "", &InvalidTraitError{Traits: bad}
	}

	overrides := make(map[string]string, len(traitsToApply))
	for _, t := range traitsToApply {
		if v := formula.Traits[t]; v != "" {
			overrides[rendererKey(t)] = v
		}
	}

	return Render(target, overrides), nil
}

// rendererKey maps a formula trait name onto the renderer's property key.
func rendererKey(trait string) string {
	switch trait {
	case TraitCameraStyle:
		return KeyCameraMovement
	case TraitSetting:
		return KeySettingType
	default:
		return trait
	}
}

func setTrait(m map[string]string, key, value string) {
	if value != "" {
		m[key] = value
	}
}
