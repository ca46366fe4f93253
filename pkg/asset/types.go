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

// Package asset defines the persisted entities of the generation engine:
// campaigns, seed images, generation requests, and their lifecycle states.
package asset

import (
	"time"

	"github.com/adsmith/adsmith/pkg/traits"
)

// Campaign groups seed images and generation requests.
type Campaign struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Product   string    `json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SeedImage is a persisted seed context plus the reference image it
// describes.
type SeedImage struct {
	ID         string             `json:"id"`
	CampaignID string             `json:"campaign_id"`
	ImagePath  string             `json:"image_path,omitempty"`
	Seed       traits.SeedContext `json:"seed"`
	CreatedAt  time.Time          `json:"created_at"`
}

// GenerationRequest is one tracked attempt to produce a new creative asset.
// Failed attempts are kept as audit records, never deleted.
//
// Invariant: OutputRef and Properties are set only when Status is
// StatusCompleted; FailureReason only when Status is StatusFailed.
type GenerationRequest struct {
	ID              int64                      `json:"id"`
	CampaignID      string                     `json:"campaign_id"`
	SeedID          string                     `json:"seed_id"`
	Prompt          string                     `json:"prompt"`
	DurationSeconds int                        `json:"duration_seconds"`
	Status          Status                     `json:"status"`
	OutputRef       string                     `json:"output_ref,omitempty"`
	FailureReason   string                     `json:"failure_reason,omitempty"`
	Properties      *traits.CreativeProperties `json:"properties,omitempty"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// DailyMetric is one day of downstream performance attributed to an asset.
type DailyMetric struct {
	RequestID   int64     `json:"request_id"`
	Day         time.Time `json:"day"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	Conversions int64     `json:"conversions"`
	Revenue     float64   `json:"revenue"`
}
