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

package asset

import "fmt"

// Status is the lifecycle state of a GenerationRequest.
//
// A request is created in StatusGenerating and resolves to exactly one of
// the terminal states; it is never left generating once the orchestrator
// returns.
type Status string

const (
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// IsTerminal reports whether s is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusGenerating, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// ValidateTransition validates a status transition.
// Terminal states are immutable; generating may move to either terminal
// state; same-state updates are idempotent and allowed.
func ValidateTransition(current, next Status) error {
	if current == next {
		return nil
	}
	if current.IsTerminal() {
		return fmt.Errorf("cannot transition from terminal state %q to %q: terminal states are immutable", current, next)
	}
	if current == StatusGenerating && next.IsTerminal() {
		return nil
	}
	return fmt.Errorf("invalid transition from %q to %q", current, next)
}

// AllowedDurations is the enumerated set of video durations (seconds) the
// generation service accepts.
var AllowedDurations = []int{4, 6, 8}

// SnapDuration snaps a requested duration to the nearest allowed value.
// Ties round up, so a requested 5 records as 6.
func SnapDuration(seconds int) int {
	best := AllowedDurations[0]
	bestDist := abs(seconds - best)
	for _, d := range AllowedDurations[1:] {
		dist := abs(seconds - d)
		if dist < bestDist || (dist == bestDist && d > best) {
			best = d
			bestDist = dist
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
