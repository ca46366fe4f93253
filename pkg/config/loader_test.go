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

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adsmith/adsmith/pkg/config/provider"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "adsmith.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func loadFromFile(t *testing.T, path string) (*Config, error) {
	t.Helper()
	p, err := provider.NewFileProvider(path)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	l := NewLoader(p)
	defer l.Close()
	return l.Load(context.Background())
}

func TestLoaderLoad(t *testing.T) {
	path := writeConfigFile(t, `
logger:
  level: debug
database:
  driver: sqlite
  database: /tmp/test.db
generation:
  video_model: veo-test
  poll_interval: 5s
  timeout: 2m
server:
  port: 9090
`)

	cfg, err := loadFromFile(t, path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Logger.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logger.Level)
	}
	if cfg.Database.Database != "/tmp/test.db" {
		t.Errorf("database = %q", cfg.Database.Database)
	}
	if cfg.Generation.VideoModel != "veo-test" {
		t.Errorf("video model = %q", cfg.Generation.VideoModel)
	}
	if cfg.Generation.PollInterval != 5*time.Second {
		t.Errorf("poll interval = %v, want 5s (duration decode)", cfg.Generation.PollInterval)
	}
	if cfg.Generation.Timeout != 2*time.Minute {
		t.Errorf("timeout = %v, want 2m", cfg.Generation.Timeout)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}

	// Unspecified sections still pick up defaults.
	if cfg.Generation.AnalyzerModel != "gemini-2.0-flash" {
		t.Errorf("analyzer model = %q, want default", cfg.Generation.AnalyzerModel)
	}
	if cfg.Artifacts.Dir == "" {
		t.Error("artifacts dir default not applied")
	}
}

func TestLoaderEnvExpansion(t *testing.T) {
	t.Setenv("ADSMITH_TEST_KEY", "key-from-env")
	t.Setenv("ADSMITH_TEST_DB", "")

	path := writeConfigFile(t, `
database:
  driver: sqlite
  database: ${ADSMITH_TEST_DB:-/tmp/fallback.db}
generation:
  api_key: ${ADSMITH_TEST_KEY}
  analyzer_model: $ADSMITH_TEST_KEY
`)

	cfg, err := loadFromFile(t, path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Generation.APIKey != "key-from-env" {
		t.Errorf("api_key = %q, want expanded value", cfg.Generation.APIKey)
	}
	if cfg.Generation.AnalyzerModel != "key-from-env" {
		t.Errorf("$VAR form not expanded: %q", cfg.Generation.AnalyzerModel)
	}
	if cfg.Database.Database != "/tmp/fallback.db" {
		t.Errorf("empty env should use default: %q", cfg.Database.Database)
	}
}

func TestLoaderValidationFailure(t *testing.T) {
	path := writeConfigFile(t, `
logger:
  level: shouting
`)

	_, err := loadFromFile(t, path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("error = %v, want validation failure", err)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := loadFromFile(t, filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoaderJSONFallback(t *testing.T) {
	path := writeConfigFile(t, `{"database": {"driver": "sqlite", "database": "x.db"}}`)

	cfg, err := loadFromFile(t, path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Database.Database != "x.db" {
		t.Errorf("database = %q, want x.db", cfg.Database.Database)
	}
}

func TestFileProviderWatch(t *testing.T) {
	path := writeConfigFile(t, "database:\n  driver: sqlite\n  database: a.db\n")

	p, err := provider.NewFileProvider(path)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("database:\n  driver: sqlite\n  database: b.db\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification within 5s")
	}
}
