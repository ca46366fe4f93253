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
	"strings"
	"testing"
	"time"
)

func TestConfigSetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfg.Logger.Level != "info" {
		t.Errorf("logger level = %q, want info", cfg.Logger.Level)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("database driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Database.Database == "" {
		t.Error("sqlite default path not set")
	}
	if cfg.Generation.VideoModel != "veo-2.0-generate-001" {
		t.Errorf("video model = %q", cfg.Generation.VideoModel)
	}
	if cfg.Generation.PollInterval != 20*time.Second {
		t.Errorf("poll interval = %v, want 20s", cfg.Generation.PollInterval)
	}
	if cfg.Generation.Timeout != 10*time.Minute {
		t.Errorf("timeout = %v, want 10m", cfg.Generation.Timeout)
	}
	if cfg.Generation.DefaultDurationSeconds != 6 {
		t.Errorf("default duration = %d, want 6", cfg.Generation.DefaultDurationSeconds)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Artifacts.Dir == "" {
		t.Error("artifacts dir not set")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaulted config should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logger.Level = "loud" },
			wantErr: "logger",
		},
		{
			name:    "bad driver",
			mutate:  func(c *Config) { c.Database.Driver = "oracle" },
			wantErr: "invalid driver",
		},
		{
			name: "postgres without host",
			mutate: func(c *Config) {
				c.Database.Driver = "postgres"
				c.Database.Database = "adsmith"
			},
			wantErr: "host is required",
		},
		{
			name:    "poll interval exceeds timeout",
			mutate:  func(c *Config) { c.Generation.PollInterval = time.Hour },
			wantErr: "exceeds timeout",
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.SetDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "postgres full",
			cfg: DatabaseConfig{
				Driver: "postgres", Host: "db.local", Port: 5432,
				Database: "adsmith", Username: "ads", Password: "secret", SSLMode: "require",
			},
			want: "host=db.local port=5432 dbname=adsmith user=ads password=secret sslmode=require",
		},
		{
			name: "mysql with credentials",
			cfg: DatabaseConfig{
				Driver: "mysql", Host: "db.local", Port: 3306,
				Database: "adsmith", Username: "ads", Password: "secret",
			},
			want: "ads:secret@tcp(db.local:3306)/adsmith?parseTime=true",
		},
		{
			name: "sqlite is the path",
			cfg:  DatabaseConfig{Driver: "sqlite", Database: "/tmp/adsmith.db"},
			want: "/tmp/adsmith.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DSN(); got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDatabaseDriverNameAndDialect(t *testing.T) {
	c := DatabaseConfig{Driver: "sqlite"}
	if c.DriverName() != "sqlite3" {
		t.Errorf("DriverName() = %q, want sqlite3", c.DriverName())
	}
	if c.Dialect() != "sqlite" {
		t.Errorf("Dialect() = %q, want sqlite", c.Dialect())
	}

	c = DatabaseConfig{Driver: "sqlite3"}
	if c.Dialect() != "sqlite" {
		t.Errorf("Dialect() = %q, want sqlite", c.Dialect())
	}

	c = DatabaseConfig{Driver: "postgres"}
	if c.DriverName() != "postgres" || c.Dialect() != "postgres" {
		t.Errorf("postgres driver/dialect = %q/%q", c.DriverName(), c.Dialect())
	}
}
