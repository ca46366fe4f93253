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

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/adsmith/adsmith/pkg/config"
)

// SchemaCmd generates JSON Schema from the config structs. Output is written
// to stdout so it can be redirected.
type SchemaCmd struct {
	Compact bool `short:"c" help:"Compact JSON output (no indentation)."`
}

func (c *SchemaCmd) Run(cli *CLI) error {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	schema := reflector.Reflect(&config.Config{})

	schema.ID = "https://adsmith.dev/schemas/config.json"
	schema.Title = "Adsmith Configuration Schema"
	schema.Description = "Configuration schema for the adsmith generation service"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	schema.Examples = []interface{}{
		map[string]interface{}{
			"database": map[string]interface{}{
				"driver":   "sqlite",
				"database": ".adsmith/adsmith.db",
			},
			"generation": map[string]interface{}{
				"api_key":       "${GEMINI_API_KEY}",
				"video_model":   "veo-2.0-generate-001",
				"poll_interval": "20s",
				"timeout":       "10m",
			},
		},
	}

	encoder := json.NewEncoder(os.Stdout)
	if !c.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(schema); err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	return nil
}
