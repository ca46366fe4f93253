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

// Package config defines the adsmith configuration model: yaml-tagged
// structs with explicit SetDefaults and Validate steps, loaded through a
// provider abstraction with environment-variable expansion.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration.
type Config struct {
	Logger     LoggerConfig     `yaml:"logger,omitempty" json:"logger,omitempty"`
	Database   DatabaseConfig   `yaml:"database" json:"database"`
	Generation GenerationConfig `yaml:"generation" json:"generation"`
	Artifacts  ArtifactsConfig  `yaml:"artifacts,omitempty" json:"artifacts,omitempty"`
	Server     ServerConfig     `yaml:"server,omitempty" json:"server,omitempty"`
	Metrics    MetricsConfig    `yaml:"metrics,omitempty" json:"metrics,omitempty"`
}

// SetDefaults applies defaults to all sections.
func (c *Config) SetDefaults() {
	c.Logger.SetDefaults()
	c.Database.SetDefaults()
	c.Generation.SetDefaults()
	c.Artifacts.SetDefaults()
	c.Server.SetDefaults()
}

// Validate checks all sections.
func (c *Config) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Generation.Validate(); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	// Level is one of debug, info, warn, error. Default: info.
	Level string `yaml:"level,omitempty" json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=info"`

	// File is the log file path. Empty logs to stderr.
	File string `yaml:"file,omitempty" json:"file,omitempty"`

	// Format is "simple" (level + message) or "verbose" (time + level +
	// message + attributes). Default: simple.
	Format string `yaml:"format,omitempty" json:"format,omitempty" jsonschema:"enum=simple,enum=verbose,default=simple"`
}

func (c *LoggerConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "simple"
	}
}

func (c *LoggerConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", c.Level)
	}
	return nil
}

// GenerationConfig configures the external generation and analysis models
// and the orchestrator's poll loop.
type GenerationConfig struct {
	// APIKey is the Google AI API key. Defaults to the GEMINI_API_KEY
	// environment variable via config expansion.
	APIKey string `yaml:"api_key,omitempty" json:"api_key,omitempty"`

	// VideoModel is the video generation model.
	VideoModel string `yaml:"video_model,omitempty" json:"video_model,omitempty" jsonschema:"default=veo-2.0-generate-001"`

	// AnalyzerModel is the model used for post-generation property analysis.
	AnalyzerModel string `yaml:"analyzer_model,omitempty" json:"analyzer_model,omitempty" jsonschema:"default=gemini-2.0-flash"`

	// PollInterval is the delay between generation status polls.
	PollInterval time.Duration `yaml:"poll_interval,omitempty" json:"poll_interval,omitempty"`

	// Timeout bounds the total wait for one generation. Exceeding it marks
	// the request failed; the orchestrator never blocks indefinitely.
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// DefaultDurationSeconds is used when a caller does not request a
	// duration. Snapped to the allowed set like any requested value.
	DefaultDurationSeconds int `yaml:"default_duration_seconds,omitempty" json:"default_duration_seconds,omitempty"`

	// MaxConcurrent bounds concurrent generations in batch variation mode.
	MaxConcurrent int `yaml:"max_concurrent,omitempty" json:"max_concurrent,omitempty"`

	// MetricsBackfillDays is the synthetic performance window seeded on
	// completion.
	MetricsBackfillDays int `yaml:"metrics_backfill_days,omitempty" json:"metrics_backfill_days,omitempty"`
}

func (c *GenerationConfig) SetDefaults() {
	if c.VideoModel == "" {
		c.VideoModel = "veo-2.0-generate-001"
	}
	if c.AnalyzerModel == "" {
		c.AnalyzerModel = "gemini-2.0-flash"
	}
	if c.PollInterval == 0 {
		c.PollInterval = 20 * time.Second
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Minute
	}
	if c.DefaultDurationSeconds == 0 {
		c.DefaultDurationSeconds = 6
	}
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = 3
	}
	if c.MetricsBackfillDays == 0 {
		c.MetricsBackfillDays = 90
	}
}

func (c *GenerationConfig) Validate() error {
	if c.PollInterval < 0 {
		return fmt.Errorf("poll_interval must be non-negative")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if c.PollInterval > c.Timeout {
		return fmt.Errorf("poll_interval %v exceeds timeout %v", c.PollInterval, c.Timeout)
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be at least 1")
	}
	return nil
}

// ArtifactsConfig configures the artifact sink.
type ArtifactsConfig struct {
	// Dir is the directory generated videos are written to.
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`
}

func (c *ArtifactsConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = ".adsmith/artifacts"
	}
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host string `yaml:"host,omitempty" json:"host,omitempty"`
	Port int    `yaml:"port,omitempty" json:"port,omitempty" jsonschema:"default=8080"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
}

func (c *ServerConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// MetricsConfig enables the otel/prometheus metrics pipeline.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}
