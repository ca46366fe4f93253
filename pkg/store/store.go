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

// Package store persists campaigns, seed images, generation requests, and
// daily performance metrics over database/sql.
//
// Supports PostgreSQL, MySQL, and SQLite. Queries are written with `?`
// placeholders and rebound for the postgres dialect. Status transitions are
// single guarded UPDATE statements, so a request row never holds a partial
// write.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adsmith/adsmith/pkg/asset"
	"github.com/adsmith/adsmith/pkg/traits"

	// Database drivers
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Store is a SQL-backed asset store.
type Store struct {
	db      *sql.DB
	dialect string // "postgres", "mysql", or "sqlite"
}

const schemaCommon = `
CREATE TABLE IF NOT EXISTS campaigns (
    id VARCHAR(64) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    product VARCHAR(255),
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS seed_images (
    id VARCHAR(64) PRIMARY KEY,
    campaign_id VARCHAR(64) NOT NULL,
    image_path TEXT,
    model_description TEXT,
    clothing_description TEXT,
    garment_type VARCHAR(100),
    movement TEXT,
    camera_style TEXT,
    setting_description TEXT,
    key_feature TEXT,
    mood TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS daily_metrics (
    request_id BIGINT NOT NULL,
    day TIMESTAMP NOT NULL,
    impressions BIGINT NOT NULL,
    clicks BIGINT NOT NULL,
    conversions BIGINT NOT NULL,
    revenue DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (request_id, day)
);
`

// video_requests needs a dialect-specific id column for auto-increment.
var requestsSchema = map[string]string{
	"sqlite": `
CREATE TABLE IF NOT EXISTS video_requests (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    campaign_id VARCHAR(64) NOT NULL,
    seed_id VARCHAR(64) NOT NULL,
    prompt TEXT NOT NULL,
    duration_seconds INTEGER NOT NULL,
    status VARCHAR(20) NOT NULL,
    output_ref TEXT,
    failure_reason TEXT,
    properties_json TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`,
	"postgres": `
CREATE TABLE IF NOT EXISTS video_requests (
    id BIGSERIAL PRIMARY KEY,
    campaign_id VARCHAR(64) NOT NULL,
    seed_id VARCHAR(64) NOT NULL,
    prompt TEXT NOT NULL,
    duration_seconds INTEGER NOT NULL,
    status VARCHAR(20) NOT NULL,
    output_ref TEXT,
    failure_reason TEXT,
    properties_json TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`,
	"mysql": `
CREATE TABLE IF NOT EXISTS video_requests (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    campaign_id VARCHAR(64) NOT NULL,
    seed_id VARCHAR(64) NOT NULL,
    prompt TEXT NOT NULL,
    duration_seconds INTEGER NOT NULL,
    status VARCHAR(20) NOT NULL,
    output_ref TEXT,
    failure_reason TEXT,
    properties_json TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`,
}

// New creates a Store over an open database connection.
func New(db *sql.DB, dialect string) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	switch dialect {
	case "postgres", "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported dialect: %s (supported: postgres, mysql, sqlite)", dialect)
	}

	s := &Store{db: db, dialect: dialect}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, schemaCommon); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, requestsSchema[s.dialect]); err != nil {
		return fmt.Errorf("failed to create video_requests table: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind converts `?` placeholders to `$n` for the postgres dialect.
func (s *Store) rebind(query string) string {
	if s.dialect != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CreateCampaign inserts a new campaign.
func (s *Store) CreateCampaign(ctx context.Context, name, product string) (*asset.Campaign, error) {
	if name == "" {
		return nil, fmt.Errorf("campaign name is required")
	}

	c := &asset.Campaign{
		ID:        uuid.NewString(),
		Name:      name,
		Product:   product,
		CreatedAt: time.Now().UTC(),
	}

	query := s.rebind(`INSERT INTO campaigns (id, name, product, created_at) VALUES (?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, c.ID, c.Name, c.Product, c.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert campaign: %w", err)
	}
	return c, nil
}

// GetCampaign fetches a campaign by id.
func (s *Store) GetCampaign(ctx context.Context, id string) (*asset.Campaign, error) {
	query := s.rebind(`SELECT id, name, product, created_at FROM campaigns WHERE id = ?`)

	var c asset.Campaign
	var product sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &product, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("campaign %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query campaign: %w", err)
	}
	c.Product = product.String
	return &c, nil
}

// CreateSeed inserts a seed image for a campaign.
func (s *Store) CreateSeed(ctx context.Context, campaignID, imagePath string, seed traits.SeedContext) (*asset.SeedImage, error) {
	if _, err := s.GetCampaign(ctx, campaignID); err != nil {
		return nil, err
	}

	si := &asset.SeedImage{
		ID:         uuid.NewString(),
		CampaignID: campaignID,
		ImagePath:  imagePath,
		Seed:       seed,
		CreatedAt:  time.Now().UTC(),
	}

	query := s.rebind(`
INSERT INTO seed_images (id, campaign_id, image_path, model_description, clothing_description,
    garment_type, movement, camera_style, setting_description, key_feature, mood, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		si.ID, si.CampaignID, si.ImagePath,
		seed.ModelDescription, seed.ClothingDescription, seed.GarmentType,
		seed.Movement, seed.CameraStyle, seed.SettingDescription, seed.KeyFeature, seed.Mood,
		si.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert seed image: %w", err)
	}
	return si, nil
}

const seedColumns = `id, campaign_id, image_path, model_description, clothing_description,
    garment_type, movement, camera_style, setting_description, key_feature, mood, created_at`

func (s *Store) scanSeed(row *sql.Row) (*asset.SeedImage, error) {
	var si asset.SeedImage
	var imagePath sql.NullString
	err := row.Scan(
		&si.ID, &si.CampaignID, &imagePath,
		&si.Seed.ModelDescription, &si.Seed.ClothingDescription, &si.Seed.GarmentType,
		&si.Seed.Movement, &si.Seed.CameraStyle, &si.Seed.SettingDescription,
		&si.Seed.KeyFeature, &si.Seed.Mood,
		&si.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	si.ImagePath = imagePath.String
	return &si, nil
}

// GetSeed fetches a seed image by id.
func (s *Store) GetSeed(ctx context.Context, id string) (*asset.SeedImage, error) {
	query := s.rebind(`SELECT ` + seedColumns + ` FROM seed_images WHERE id = ?`)
	si, err := s.scanSeed(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("seed image %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query seed image: %w", err)
	}
	return si, nil
}

// LatestSeed fetches the most recently added seed image for a campaign.
func (s *Store) LatestSeed(ctx context.Context, campaignID string) (*asset.SeedImage, error) {
	query := s.rebind(`SELECT ` + seedColumns + ` FROM seed_images WHERE campaign_id = ? ORDER BY created_at DESC LIMIT 1`)
	si, err := s.scanSeed(s.db.QueryRowContext(ctx, query, campaignID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no seed image for campaign %s: %w", campaignID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query seed image: %w", err)
	}
	return si, nil
}

// CreateRequest inserts a generation request in the generating state and
// returns it with its assigned id. Ids are monotonic within a database.
func (s *Store) CreateRequest(ctx context.Context, campaignID, seedID, prompt string, durationSeconds int) (*asset.GenerationRequest, error) {
	if prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	now := time.Now().UTC()
	req := &asset.GenerationRequest{
		CampaignID:      campaignID,
		SeedID:          seedID,
		Prompt:          prompt,
		DurationSeconds: durationSeconds,
		Status:          asset.StatusGenerating,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if s.dialect == "postgres" {
		query := s.rebind(`
INSERT INTO video_requests (campaign_id, seed_id, prompt, duration_seconds, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
		err := s.db.QueryRowContext(ctx, query,
			req.CampaignID, req.SeedID, req.Prompt, req.DurationSeconds, string(req.Status),
			req.CreatedAt, req.UpdatedAt,
		).Scan(&req.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert generation request: %w", err)
		}
		return req, nil
	}

	query := `
INSERT INTO video_requests (campaign_id, seed_id, prompt, duration_seconds, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query,
		req.CampaignID, req.SeedID, req.Prompt, req.DurationSeconds, string(req.Status),
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert generation request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read generated id: %w", err)
	}
	req.ID = id
	return req, nil
}

const requestColumns = `id, campaign_id, seed_id, prompt, duration_seconds, status,
    output_ref, failure_reason, properties_json, created_at, updated_at`

type requestScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row requestScanner) (*asset.GenerationRequest, error) {
	var req asset.GenerationRequest
	var status string
	var outputRef, failureReason, propertiesJSON sql.NullString
	err := row.Scan(
		&req.ID, &req.CampaignID, &req.SeedID, &req.Prompt, &req.DurationSeconds, &status,
		&outputRef, &failureReason, &propertiesJSON,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.Status = asset.Status(status)
	req.OutputRef = outputRef.String
	req.FailureReason = failureReason.String
	if propertiesJSON.Valid && propertiesJSON.String != "" {
		props := &traits.CreativeProperties{}
		if err := json.Unmarshal([]byte(propertiesJSON.String), props); err != nil {
			return nil, fmt.Errorf("failed to unmarshal properties: %w", err)
		}
		req.Properties = props
	}
	return &req, nil
}

// GetRequest fetches a generation request by id.
func (s *Store) GetRequest(ctx context.Context, id int64) (*asset.GenerationRequest, error) {
	query := s.rebind(`SELECT ` + requestColumns + ` FROM video_requests WHERE id = ?`)
	req, err := scanRequest(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("generation request %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query generation request: %w", err)
	}
	return req, nil
}

// ListRequests returns all generation requests for a campaign, newest first.
func (s *Store) ListRequests(ctx context.Context, campaignID string) ([]*asset.GenerationRequest, error) {
	query := s.rebind(`SELECT ` + requestColumns + ` FROM video_requests WHERE campaign_id = ? ORDER BY id DESC`)
	rows, err := s.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to query generation requests: %w", err)
	}
	defer rows.Close()

	var reqs []*asset.GenerationRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation request: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// MarkCompleted transitions a generating request to completed, recording
// the durable output reference and the analyzed properties (nil when
// analysis failed; analysis failure is non-fatal). The transition is a
// single guarded UPDATE: it only applies while the row is still generating.
func (s *Store) MarkCompleted(ctx context.Context, id int64, outputRef string, props *traits.CreativeProperties) error {
	if outputRef == "" {
		return fmt.Errorf("output reference is required to complete request %d", id)
	}

	var propertiesJSON sql.NullString
	if props != nil {
		data, err := json.Marshal(props)
		if err != nil {
			return fmt.Errorf("failed to marshal properties: %w", err)
		}
		propertiesJSON = sql.NullString{String: string(data), Valid: true}
	}

	query := s.rebind(`
UPDATE video_requests
SET status = ?, output_ref = ?, properties_json = ?, updated_at = ?
WHERE id = ? AND status = ?`)
	res, err := s.db.ExecContext(ctx, query,
		string(asset.StatusCompleted), outputRef, propertiesJSON, time.Now().UTC(),
		id, string(asset.StatusGenerating),
	)
	if err != nil {
		return fmt.Errorf("failed to complete generation request: %w", err)
	}
	return s.checkTransition(ctx, res, id, asset.StatusCompleted)
}

// MarkFailed transitions a generating request to failed with a reason.
func (s *Store) MarkFailed(ctx context.Context, id int64, reason string) error {
	query := s.rebind(`
UPDATE video_requests
SET status = ?, failure_reason = ?, updated_at = ?
WHERE id = ? AND status = ?`)
	res, err := s.db.ExecContext(ctx, query,
		string(asset.StatusFailed), reason, time.Now().UTC(),
		id, string(asset.StatusGenerating),
	)
	if err != nil {
		return fmt.Errorf("failed to fail generation request: %w", err)
	}
	return s.checkTransition(ctx, res, id, asset.StatusFailed)
}

// checkTransition diagnoses a guarded UPDATE that matched no rows.
func (s *Store) checkTransition(ctx context.Context, res sql.Result, id int64, next asset.Status) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	req, err := s.GetRequest(ctx, id)
	if err != nil {
		return err
	}
	return asset.ValidateTransition(req.Status, next)
}
