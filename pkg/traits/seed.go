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

// SeedContext describes the creative input a generation starts from,
// typically a product still. The free-text fields (Movement, CameraStyle,
// SettingDescription, KeyFeature, Mood) predate structured analysis and are
// only consulted when no CreativeProperties exist for an asset.
type SeedContext struct {
	ModelDescription    string `json:"model_description,omitempty" yaml:"model_description,omitempty"`
	ClothingDescription string `json:"clothing_description,omitempty" yaml:"clothing_description,omitempty"`
	GarmentType         string `json:"garment_type,omitempty" yaml:"garment_type,omitempty"`

	// Legacy free-text fields.
	Movement           string `json:"movement,omitempty" yaml:"movement,omitempty"`
	CameraStyle        string `json:"camera_style,omitempty" yaml:"camera_style,omitempty"`
	SettingDescription string `json:"setting_description,omitempty" yaml:"setting_description,omitempty"`
	KeyFeature         string `json:"key_feature,omitempty" yaml:"key_feature,omitempty"`
	Mood               string `json:"mood,omitempty" yaml:"mood,omitempty"`
}
