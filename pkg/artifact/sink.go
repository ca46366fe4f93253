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

// Package artifact provides durable storage for generated outputs.
package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Sink stores generated asset bytes durably and returns a stable reference.
type Sink interface {
	Store(ctx context.Context, name string, data []byte) (ref string, err error)
}

// Name builds the deterministic artifact filename for a generation request.
func Name(campaignID string, requestID int64, at time.Time) string {
	return fmt.Sprintf("campaign_%s_ad_%d_%d.mp4", campaignID, requestID, at.Unix())
}

// FSSink writes artifacts to a local directory.
type FSSink struct {
	dir string
}

// NewFSSink creates a filesystem sink rooted at dir, creating it if needed.
func NewFSSink(dir string) (*FSSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("artifact directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &FSSink{dir: dir}, nil
}

// Store writes data under the sink directory. The write goes through a
// temporary file plus rename so a crash never leaves a partial artifact at
// the final path.
func (s *FSSink) Store(ctx context.Context, name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("refusing to store empty artifact %s", name)
	}

	final := filepath.Join(s.dir, name)
	tmp := final + ".tmp"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize artifact: %w", err)
	}
	return final, nil
}
