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

// Package server exposes the generation pipeline over a REST API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/adsmith/adsmith/pkg/config"
	"github.com/adsmith/adsmith/pkg/generation"
	"github.com/adsmith/adsmith/pkg/observability"
	"github.com/adsmith/adsmith/pkg/store"
	"github.com/adsmith/adsmith/pkg/traits"
)

// Server serves the REST API.
type Server struct {
	store      *store.Store
	orch       *generation.Orchestrator
	cfg        config.ServerConfig
	metricsOn  bool
	httpServer *http.Server
}

// New creates a Server.
func New(s *store.Store, orch *generation.Orchestrator, cfg config.ServerConfig, metricsOn bool) *Server {
	return &Server{
		store:     s,
		orch:      orch,
		cfg:       cfg,
		metricsOn: metricsOn,
	}
}

// Start runs the HTTP server until it is stopped or fails.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.setupRouting(),
	}

	slog.Info("HTTP server starting", "address", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	slog.Info("Shutting down HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}

func (s *Server) setupRouting() http.Handler {
	r := chi.NewRouter()

	// Order: logging -> cors
	r.Use(loggingMiddleware)
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	if s.metricsOn {
		r.Get("/metrics", observability.Handler().ServeHTTP)
	}

	r.Route("/v1/campaigns", func(r chi.Router) {
		r.Post("/", s.handleCreateCampaign)

		r.Route("/{campaign}", func(r chi.Router) {
			r.Get("/", s.handleGetCampaign)
			r.Post("/seeds", s.handleCreateSeed)
			r.Post("/ads", s.handleGenerate)
			r.Post("/ads/formula", s.handleApplyFormula)
			r.Get("/ads", s.handleListAds)
			r.Get("/best", s.handleBestPerforming)
		})
	})

	r.Get("/v1/ads/{id}", s.handleGetAd)

	return r
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Product string `json:"product"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	campaign, err := s.store.CreateCampaign(r.Context(), req.Name, req.Product)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := s.store.GetCampaign(r.Context(), chi.URLParam(r, "campaign"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (s *Server) handleCreateSeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImagePath string             `json:"image_path"`
		Seed      traits.SeedContext `json:"seed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	seed, err := s.store.CreateSeed(r.Context(), chi.URLParam(r, "campaign"), req.ImagePath, req.Seed)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, seed)
}

// handleGenerate prepares a request synchronously (so validation errors are
// reported to the caller) and executes it in the background. The response is
// the request in its generating state; clients poll /v1/ads/{id}.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SeedID          string            `json:"seed_id"`
		Overrides       map[string]string `json:"overrides"`
		DurationSeconds int               `json:"duration_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	prepared, err := s.orch.Prepare(r.Context(), chi.URLParam(r, "campaign"), req.SeedID, req.Overrides, req.DurationSeconds)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	go s.executeDetached(prepared.ID, func(ctx context.Context) error {
		return s.orch.Execute(ctx, prepared)
	})

	writeJSON(w, http.StatusAccepted, prepared)
}

func (s *Server) handleApplyFormula(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceID        int64    `json:"source_id"`
		Traits          []string `json:"traits"`
		DurationSeconds int      `json:"duration_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	prepared, err := s.orch.ApplyWinningFormula(r.Context(), chi.URLParam(r, "campaign"), req.SourceID, req.Traits, req.DurationSeconds)
	if err != nil {
		var invalidTraits *traits.InvalidTraitError
		if errors.As(err, &invalidTraits) {
			writeError(w, http.StatusBadRequest, invalidTraits.Error())
			return
		}
		writeStoreError(w, err)
		return
	}

	go s.executeDetached(prepared.ID, func(ctx context.Context) error {
		return s.orch.Execute(ctx, prepared)
	})

	writeJSON(w, http.StatusAccepted, prepared)
}

func (s *Server) handleGetAd(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ad id")
		return
	}

	req, err := s.store.GetRequest(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleListAds(w http.ResponseWriter, r *http.Request) {
	reqs, err := s.store.ListRequests(r.Context(), chi.URLParam(r, "campaign"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ads": reqs})
}

func (s *Server) handleBestPerforming(w http.ResponseWriter, r *http.Request) {
	best, revenue, err := s.store.BestPerforming(r.Context(), chi.URLParam(r, "campaign"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ad":            best,
		"total_revenue": revenue,
	})
}

// executeDetached runs a generation in the background with a context
// independent of the originating HTTP request.
func (s *Server) executeDetached(requestID int64, run func(context.Context) error) {
	if err := run(context.Background()); err != nil {
		slog.Error("Background generation failed", "request", requestID, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrNoCompletedAssets):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("REST request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
