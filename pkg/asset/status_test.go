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

import "testing"

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		next    Status
		wantErr bool
	}{
		{"generating to completed", StatusGenerating, StatusCompleted, false},
		{"generating to failed", StatusGenerating, StatusFailed, false},
		{"completed is immutable", StatusCompleted, StatusFailed, true},
		{"failed is immutable", StatusFailed, StatusCompleted, true},
		{"terminal back to generating", StatusCompleted, StatusGenerating, true},
		{"same state is idempotent", StatusCompleted, StatusCompleted, false},
		{"generating to generating", StatusGenerating, StatusGenerating, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.current, tt.next)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTransition(%s, %s) error = %v, wantErr %v",
					tt.current, tt.next, err, tt.wantErr)
			}
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	if StatusGenerating.IsTerminal() {
		t.Error("generating should not be terminal")
	}
	if !StatusCompleted.IsTerminal() {
		t.Error("completed should be terminal")
	}
	if !StatusFailed.IsTerminal() {
		t.Error("failed should be terminal")
	}
}

func TestSnapDuration(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{4, 4},
		{6, 6},
		{8, 8},
		{1, 4},
		{3, 4},
		{5, 6}, // tie between 4 and 6 rounds up
		{7, 8}, // tie between 6 and 8 rounds up
		{9, 8},
		{60, 8},
		{0, 4},
		{-2, 4},
	}

	for _, tt := range tests {
		if got := SnapDuration(tt.in); got != tt.want {
			t.Errorf("SnapDuration(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
