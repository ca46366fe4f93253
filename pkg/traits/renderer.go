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
	"strings"
)

// Renderer property keys. Overrides passed to Render are keyed by these.
const (
	KeyMood             = "mood"
	KeyVisualStyle      = "visual_style"
	KeyEnergyLevel      = "energy_level"
	KeyColorTemperature = "color_temperature"
	KeyCameraMovement   = "camera_movement"
	KeyLightingStyle    = "lighting_style"
	KeySettingType      = "setting_type"
	KeyTimeOfDay        = "time_of_day"
	KeyMovement         = "movement"
	KeyKeyFeature       = "key_feature"
	KeyModelDescription = "model_description"
	KeyClothing         = "clothing_description"
)

// defaults is the fixed base property set every render starts from.
var defaults = map[string]string{
	KeyMood:             "confident",
	KeyVisualStyle:      "cinematic",
	KeyEnergyLevel:      "moderate",
	KeyColorTemperature: "neutral",
	KeyCameraMovement:   "slow_orbit",
	KeyLightingStyle:    "studio",
	KeySettingType:      "studio",
	KeyTimeOfDay:        "midday",
}

// Phrase tables. Static and never mutated, so safe to share across
// concurrent renders without locking.
var moodPhrases = map[string]string{
	"confident": "with a confident, self-assured atmosphere",
	"elegant":   "with an elegant, refined atmosphere",
	"playful":   "with a playful, lighthearted atmosphere",
	"edgy":      "with a bold, edgy atmosphere",
	"romantic":  "with a soft, romantic atmosphere",
	"relaxed":   "with a relaxed, effortless atmosphere",
}

var energyPhrases = map[string]string{
	"calm":        "Subtle, unhurried movement",
	"moderate":    "Natural, easy movement",
	"dynamic":     "Energetic, lively movement",
	"high_energy": "Fast, high-impact movement",
}

var cameraPhrases = map[string]string{
	"slow_orbit": "Camera slowly orbits the subject",
	"push_in":    "Camera pushes in steadily toward the subject",
	"pull_back":  "Camera pulls back to reveal the full look",
	"handheld":   "Handheld camera follows the subject",
	"static":     "Camera holds a steady, locked frame",
	"crane_down": "Camera cranes down across the subject",
}

var stylePhrases = map[string]string{
	"cinematic":   "Cinematic editorial fashion film",
	"documentary": "Candid documentary-style fashion film",
	"vintage":     "Vintage film-grain fashion film",
	"minimalist":  "Clean minimalist fashion film",
	"vibrant":     "Vivid, saturated fashion film",
}

// moodPhrase resolves a mood to its phrase, synthesizing a generic one for
// vocabulary outside the table so rendering never fails.
func moodPhrase(v string) string {
	if p, ok := moodPhrases[v]; ok {
		return p
	}
	return fmt.Sprintf("with %s atmosphere", v)
}

func energyPhrase(v string) string {
	if p, ok := energyPhrases[v]; ok {
		return p
	}
	return fmt.Sprintf("Movement with %s energy", v)
}

func cameraPhrase(v string) string {
	if p, ok := cameraPhrases[v]; ok {
		return p
	}
	return fmt.Sprintf("Camera %s", v)
}

func stylePhrase(v string) string {
	if p, ok := stylePhrases[v]; ok {
		return p
	}
	return fmt.Sprintf("%s style fashion film", v)
}

// Render builds the generation prompt for a seed plus caller overrides.
//
// Resolution order per property: fixed default, then the seed's own fields,
// then overrides (last write wins). Override values are not validated
// against the vocabularies; unknown values pass through the generic phrase
// fallbacks. Pure and deterministic: identical inputs produce byte-identical
// prompts.
func Render(seed SeedContext, overrides map[string]string) string {
	vals := make(map[string]string, len(defaults)+4)
	for k, v := range defaults {
		vals[k] = v
	}

	// Seed fields shadow the defaults.
	if seed.Mood != "" {
		vals[KeyMood] = seed.Mood
	}
	if seed.CameraStyle != "" {
		vals[KeyCameraMovement] = seed.CameraStyle
	}
	if seed.SettingDescription != "" {
		vals[KeySettingType] = seed.SettingDescription
	}
	if seed.Movement != "" {
		vals[KeyMovement] = seed.Movement
	}
	if seed.KeyFeature != "" {
		vals[KeyKeyFeature] = seed.KeyFeature
	}
	vals[KeyModelDescription] = orDefault(seed.ModelDescription, "a fashion model")
	vals[KeyClothing] = orDefault(seed.ClothingDescription, "the featured garment")

	for k, v := range overrides {
		if v != "" {
			vals[k] = v
		}
	}

	var b strings.Builder

	// Style, subject, and clothing.
	b.WriteString(stylePhrase(vals[KeyVisualStyle]))
	b.WriteString(" of ")
	b.WriteString(vals[KeyModelDescription])
	b.WriteString(" wearing ")
	b.WriteString(vals[KeyClothing])
	b.WriteString(". ")

	// Mood and energy. Free-text movement, when present, replaces the
	// energy phrase outright.
	b.WriteString("The scene unfolds ")
	b.WriteString(moodPhrase(vals[KeyMood]))
	b.WriteString(". ")
	if m := vals[KeyMovement]; m != "" {
		b.WriteString(m)
	} else {
		b.WriteString(energyPhrase(vals[KeyEnergyLevel]))
	}
	b.WriteString(". ")

	// Camera and lighting.
	b.WriteString(cameraPhrase(vals[KeyCameraMovement]))
	b.WriteString(", under ")
	b.WriteString(vals[KeyLightingStyle])
	b.WriteString(" lighting. ")

	if f := vals[KeyKeyFeature]; f != "" {
		b.WriteString("The shot draws attention to ")
		b.WriteString(f)
		b.WriteString(". ")
	}

	// Color grading.
	b.WriteString("Graded with a ")
	b.WriteString(vals[KeyColorTemperature])
	b.WriteString(" color palette. ")

	// Setting and time of day.
	b.WriteString("Set in a ")
	b.WriteString(vals[KeySettingType])
	b.WriteString(" environment at ")
	b.WriteString(vals[KeyTimeOfDay])
	b.WriteString(". ")

	b.WriteString("Professional high-end fashion advertisement style.")

	return b.String()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
