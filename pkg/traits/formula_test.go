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
	"errors"
	"strings"
	"testing"
)

func TestExtractFormula_Structured(t *testing.T) {
	props := &CreativeProperties{
		Mood:             "edgy",
		VisualStyle:      "vintage",
		EnergyLevel:      "dynamic",
		ColorTemperature: "warm",
		CameraMovement:   "push_in",
		LightingStyle:    "neon",
		SettingType:      "rooftop",
	}
	seed := SeedContext{
		Movement:         "walks toward the camera",
		KeyFeature:       "the leather jacket",
		ModelDescription: "a model with platinum hair",
	}

	f := ExtractFormula(props, seed)

	if !f.Structured {
		t.Fatal("expected structured formula")
	}

	want := map[string]string{
		TraitMood:             "edgy",
		TraitVisualStyle:      "vintage",
		TraitEnergyLevel:      "dynamic",
		TraitColorTemperature: "warm",
		TraitCameraStyle:      "push_in",
		TraitLightingStyle:    "neon",
		TraitSetting:          "rooftop",
		TraitMovement:         "walks toward the camera",
		TraitKeyFeature:       "the leather jacket",
		TraitModelDescription: "a model with platinum hair",
	}
	for trait, v := range want {
		if f.Traits[trait] != v {
			t.Errorf("trait %s = %q, want %q", trait, f.Traits[trait], v)
		}
	}

	if got := len(f.DefaultTraits()); got != 7 {
		t.Errorf("structured default subset has %d traits, want 7", got)
	}
}

func TestExtractFormula_LegacyPinsDefaults(t *testing.T) {
	seed := SeedContext{
		Mood:               "romantic",
		Movement:           "spins in place",
		CameraStyle:        "handheld",
		SettingDescription: "a rainy street",
	}

	f := ExtractFormula(nil, seed)

	if f.Structured {
		t.Fatal("expected legacy formula")
	}
	if f.Traits[TraitMood] != "romantic" {
		t.Errorf("mood = %q, want romantic", f.Traits[TraitMood])
	}
	if f.Traits[TraitSetting] != "a rainy street" {
		t.Errorf("setting = %q, want seed setting", f.Traits[TraitSetting])
	}

	// The legacy path always pins these regardless of seed content.
	pinned := map[string]string{
		TraitVisualStyle:      "cinematic",
		TraitEnergyLevel:      "moderate",
		TraitColorTemperature: "neutral",
		TraitLightingStyle:    "studio",
	}
	for trait, v := range pinned {
		if f.Traits[trait] != v {
			t.Errorf("trait %s = %q, want pinned %q", trait, f.Traits[trait], v)
		}
	}

	if got := len(f.DefaultTraits()); got != 4 {
		t.Errorf("legacy default subset has %d traits, want 4", got)
	}
}

func TestApplyFormula_InvalidTraits(t *testing.T) {
	f := ExtractFormula(nil, SeedContext{Mood: "elegant"})

	_, err := ApplyFormula(SeedContext{}, f, []string{"mood", "nonexistent_trait"})
	if err == nil {
		t.Fatal("expected error for unknown trait")
	}

	var invalid *InvalidTraitError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidTraitError, got %T", err)
	}
	if len(invalid.Traits) != 1 || invalid.Traits[0] != "nonexistent_trait" {
		t.Errorf("offending traits = %v, want [nonexistent_trait]", invalid.Traits)
	}
	if !strings.Contains(err.Error(), "nonexistent_trait") {
		t.Errorf("error message should name the offender: %s", err)
	}
	if !strings.Contains(err.Error(), TraitCameraStyle) {
		t.Errorf("error message should list allowed traits: %s", err)
	}
}

func TestApplyFormula_SubsetIsolation(t *testing.T) {
	f := WinningFormula{
		Structured: true,
		Traits: map[string]string{
			TraitMood:        "edgy",
			TraitCameraStyle: "handheld",
		},
	}

	// Only mood selected: the camera trait must not bleed through.
	prompt, err := ApplyFormula(SeedContext{}, f, []string{TraitMood})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !strings.Contains(prompt, "with a bold, edgy atmosphere") {
		t.Errorf("selected mood not applied:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Camera slowly orbits the subject") {
		t.Errorf("unselected camera trait should keep target default:\n%s", prompt)
	}
}

func TestApplyFormula_TraitKeyMapping(t *testing.T) {
	f := WinningFormula{
		Structured: true,
		Traits: map[string]string{
			TraitCameraStyle: "push_in",
			TraitSetting:     "rooftop",
		},
	}

	prompt, err := ApplyFormula(SeedContext{}, f, []string{TraitCameraStyle, TraitSetting})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !strings.Contains(prompt, "Camera pushes in steadily toward the subject") {
		t.Errorf("camera_style did not map to the renderer's camera movement:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Set in a rooftop environment") {
		t.Errorf("setting did not map to the renderer's setting type:\n%s", prompt)
	}
}

func TestApplyFormula_DefaultSubset(t *testing.T) {
	f := ExtractFormula(&CreativeProperties{
		Mood:             "playful",
		VisualStyle:      "vibrant",
		EnergyLevel:      "high_energy",
		ColorTemperature: "warm",
		CameraMovement:   "crane_down",
		LightingStyle:    "natural",
		SettingType:      "beach",
	}, SeedContext{})

	prompt, err := ApplyFormula(SeedContext{}, f, nil)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	wantFragments := []string{
		"with a playful, lighthearted atmosphere",
		"Vivid, saturated fashion film",
		"Fast, high-impact movement",
		"Graded with a warm color palette",
		"Camera cranes down across the subject",
		"under natural lighting",
		"Set in a beach environment",
	}
	for _, want := range wantFragments {
		if !strings.Contains(prompt, want) {
			t.Errorf("default subset missing %q:\n%s", want, prompt)
		}
	}
}

func TestApplyFormula_MissingTraitValuesSkipped(t *testing.T) {
	// A structured formula from sparse analysis may lack some traits; the
	// target keeps its own values for those.
	f := WinningFormula{Structured: true, Traits: map[string]string{TraitMood: "elegant"}}

	prompt, err := ApplyFormula(SeedContext{}, f, []string{TraitMood, TraitSetting})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !strings.Contains(prompt, "Set in a studio environment") {
		t.Errorf("missing formula trait should fall back to target default:\n%s", prompt)
	}
}
