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
	"errors"
	"fmt"
)

// Sentinel errors for generation outcomes.
var (
	// ErrTimeout indicates the polling budget was exhausted before the
	// backend reported completion.
	ErrTimeout = errors.New("generation timed out")

	// ErrEmptyResult indicates the backend reported success but returned no
	// video payload.
	ErrEmptyResult = errors.New("generation returned no video")
)

// Error wraps a generation failure together with the prompt that produced
// it, so callers can retry or debug without re-deriving the prompt.
type Error struct {
	Prompt string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a generation error carrying the originating prompt.
func NewError(prompt, reason string, err error) *Error {
	return &Error{Prompt: prompt, Reason: reason, Err: err}
}
