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
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/adsmith/adsmith/pkg/artifact"
	"github.com/adsmith/adsmith/pkg/config"
	"github.com/adsmith/adsmith/pkg/config/provider"
	"github.com/adsmith/adsmith/pkg/generation"
	"github.com/adsmith/adsmith/pkg/observability"
	"github.com/adsmith/adsmith/pkg/server"
	"github.com/adsmith/adsmith/pkg/store"
	"github.com/adsmith/adsmith/pkg/traits"
)

// app bundles the wired components shared by all commands.
type app struct {
	cfg    *config.Config
	loader *config.Loader
	pool   *config.DBPool
	store  *store.Store
	orch   *generation.Orchestrator
}

// openApp loads configuration and wires the store. When withBackend is set
// it also constructs the generation backend, which requires an API key.
func openApp(ctx context.Context, configPath string, withBackend bool) (*app, error) {
	a := &app{}

	if configPath != "" {
		p, err := provider.NewFileProvider(configPath)
		if err != nil {
			return nil, err
		}
		a.loader = config.NewLoader(p)
		cfg, err := a.loader.Load(ctx)
		if err != nil {
			return nil, err
		}
		a.cfg = cfg
		slog.Info("Loaded configuration", "path", configPath)
	} else {
		cfg := &config.Config{}
		cfg.SetDefaults()
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			cfg.Generation.APIKey = key
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		a.cfg = cfg
	}

	a.pool = config.NewDBPool()
	db, err := a.pool.Get(&a.cfg.Database)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a.store, err = store.New(db, a.cfg.Database.Dialect())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	sink, err := artifact.NewFSSink(a.cfg.Artifacts.Dir)
	if err != nil {
		a.Close()
		return nil, err
	}

	var gen generation.Generator
	var analyzer generation.Analyzer
	if withBackend {
		if a.cfg.Generation.APIKey == "" {
			a.Close()
			return nil, fmt.Errorf("generation API key is required (set generation.api_key or GEMINI_API_KEY)")
		}
		gen, err = generation.NewVeoGenerator(generation.VeoConfig{
			APIKey: a.cfg.Generation.APIKey,
			Model:  a.cfg.Generation.VideoModel,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		analyzer, err = generation.NewGeminiAnalyzer(generation.AnalyzerConfig{
			APIKey: a.cfg.Generation.APIKey,
			Model:  a.cfg.Generation.AnalyzerModel,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	a.orch = generation.NewOrchestrator(a.store, gen, analyzer, sink, a.cfg.Generation)
	return a, nil
}

func (a *app) Close() {
	if a.pool != nil {
		_ = a.pool.Close()
	}
	if a.loader != nil {
		_ = a.loader.Close()
	}
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("adsmith version %s\n", version)
	return nil
}

// ServeCmd starts the REST API server.
type ServeCmd struct {
	Port  int  `help:"Port to listen on." default:"0"`
	Watch bool `help:"Watch config file for changes."`
}

func (c *ServeCmd) Run(cli *CLI) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		cancel()
	}()

	a, err := openApp(ctx, cli.Config, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if c.Port != 0 {
		a.cfg.Server.Port = c.Port
	}

	if c.Watch && a.loader != nil {
		go func() {
			if err := a.loader.Watch(ctx); err != nil && ctx.Err() == nil {
				slog.Error("Config watch error", "error", err)
			}
		}()
	}

	metrics, err := observability.InitMetrics(ctx, a.cfg.Metrics.Enabled)
	if err != nil {
		return err
	}
	observability.SetGlobalMetrics(metrics)

	srv := server.New(a.store, a.orch, a.cfg.Server, a.cfg.Metrics.Enabled)

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Stop(shutdownCtx)
	}()

	fmt.Printf("adsmith server ready\n")
	fmt.Printf("   API:     http://%s:%d/v1/campaigns\n", a.cfg.Server.Host, a.cfg.Server.Port)
	fmt.Printf("   Health:  http://%s:%d/health\n", a.cfg.Server.Host, a.cfg.Server.Port)
	if a.cfg.Metrics.Enabled {
		fmt.Printf("   Metrics: http://%s:%d/metrics\n", a.cfg.Server.Host, a.cfg.Server.Port)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	return srv.Start(ctx)
}

// CampaignCmd creates a campaign.
type CampaignCmd struct {
	Name    string `arg:"" help:"Campaign name."`
	Product string `help:"Product description."`
}

func (c *CampaignCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := openApp(ctx, cli.Config, false)
	if err != nil {
		return err
	}
	defer a.Close()

	campaign, err := a.store.CreateCampaign(ctx, c.Name, c.Product)
	if err != nil {
		return err
	}
	fmt.Printf("Campaign created: %s\n", campaign.ID)
	return nil
}

// SeedCmd registers a seed image for a campaign.
type SeedCmd struct {
	Campaign string `required:"" help:"Campaign id."`
	Image    string `help:"Path to the seed image." type:"path"`

	Model    string `help:"Model description."`
	Clothing string `help:"Clothing description."`
	Garment  string `help:"Garment type."`
	Movement string `help:"Free-text movement description."`
	Camera   string `help:"Camera style."`
	Setting  string `help:"Setting description."`
	Feature  string `help:"Key feature to highlight."`
	Mood     string `help:"Mood."`
}

func (c *SeedCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := openApp(ctx, cli.Config, false)
	if err != nil {
		return err
	}
	defer a.Close()

	seed, err := a.store.CreateSeed(ctx, c.Campaign, c.Image, traits.SeedContext{
		ModelDescription:    c.Model,
		ClothingDescription: c.Clothing,
		GarmentType:         c.Garment,
		Movement:            c.Movement,
		CameraStyle:         c.Camera,
		SettingDescription:  c.Setting,
		KeyFeature:          c.Feature,
		Mood:                c.Mood,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Seed registered: %s\n", seed.ID)
	return nil
}

// GenerateCmd generates a single ad asset and waits for completion.
type GenerateCmd struct {
	Campaign string            `required:"" help:"Campaign id."`
	Seed     string            `help:"Seed id (default: campaign's latest seed)."`
	Override map[string]string `short:"o" help:"Trait overrides (key=value)."`
	Duration int               `help:"Clip duration in seconds (snapped to 4, 6, or 8)."`
}

func (c *GenerateCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := openApp(ctx, cli.Config, true)
	if err != nil {
		return err
	}
	defer a.Close()

	req, err := a.orch.Generate(ctx, c.Campaign, c.Seed, c.Override, c.Duration)
	if err != nil {
		return err
	}

	fmt.Printf("Asset %d %s\n", req.ID, req.Status)
	fmt.Printf("   Prompt: %s\n", req.Prompt)
	if req.OutputRef != "" {
		fmt.Printf("   Output: %s\n", req.OutputRef)
	}
	return nil
}

// ApplyCmd applies a winning formula to generate a new asset.
type ApplyCmd struct {
	Campaign string   `required:"" help:"Campaign id."`
	Source   int64    `help:"Source asset id (default: best performer by revenue)."`
	Traits   []string `help:"Traits to transfer (default: formula's default subset)."`
	Duration int      `help:"Clip duration in seconds (snapped to 4, 6, or 8)."`
}

func (c *ApplyCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := openApp(ctx, cli.Config, true)
	if err != nil {
		return err
	}
	defer a.Close()

	req, err := a.orch.ApplyWinningFormula(ctx, c.Campaign, c.Source, c.Traits, c.Duration)
	if err != nil {
		return err
	}
	fmt.Printf("Asset %d prepared from winning formula\n", req.ID)
	fmt.Printf("   Prompt: %s\n", req.Prompt)

	if err := a.orch.Execute(ctx, req); err != nil {
		return err
	}

	refreshed, err := a.store.GetRequest(ctx, req.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Asset %d %s\n", refreshed.ID, refreshed.Status)
	if refreshed.OutputRef != "" {
		fmt.Printf("   Output: %s\n", refreshed.OutputRef)
	}
	return nil
}

// BestCmd shows the campaign's best performing asset.
type BestCmd struct {
	Campaign string `required:"" help:"Campaign id."`
}

func (c *BestCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := openApp(ctx, cli.Config, false)
	if err != nil {
		return err
	}
	defer a.Close()

	best, revenue, err := a.store.BestPerforming(ctx, c.Campaign)
	if err != nil {
		return err
	}
	fmt.Printf("Best performer: asset %d (revenue %.2f)\n", best.ID, revenue)
	fmt.Printf("   Output: %s\n", best.OutputRef)
	if best.Properties != nil {
		fmt.Printf("   Mood: %s, style: %s, energy: %s\n",
			best.Properties.Mood, best.Properties.VisualStyle, best.Properties.EnergyLevel)
	}
	return nil
}

// ListCmd lists a campaign's generation requests.
type ListCmd struct {
	Campaign string `required:"" help:"Campaign id."`
}

func (c *ListCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := openApp(ctx, cli.Config, false)
	if err != nil {
		return err
	}
	defer a.Close()

	reqs, err := a.store.ListRequests(ctx, c.Campaign)
	if err != nil {
		return err
	}

	if len(reqs) == 0 {
		fmt.Println("No generation requests")
		return nil
	}
	for _, req := range reqs {
		line := fmt.Sprintf("  %d  %-10s  %ds", req.ID, req.Status, req.DurationSeconds)
		if req.OutputRef != "" {
			line += "  " + req.OutputRef
		}
		if req.FailureReason != "" {
			line += "  (" + req.FailureReason + ")"
		}
		fmt.Println(line)
	}
	return nil
}
