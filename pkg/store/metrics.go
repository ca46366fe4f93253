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

package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/adsmith/adsmith/pkg/asset"
)

// InsertDailyMetric records one day of performance for a request.
func (s *Store) InsertDailyMetric(ctx context.Context, m asset.DailyMetric) error {
	query := s.rebind(`
INSERT INTO daily_metrics (request_id, day, impressions, clicks, conversions, revenue)
VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		m.RequestID, m.Day, m.Impressions, m.Clicks, m.Conversions, m.Revenue)
	if err != nil {
		return fmt.Errorf("failed to insert daily metric: %w", err)
	}
	return nil
}

// SeedDailyMetrics backfills a window of synthetic daily performance for a
// newly completed asset. The series is deterministic for a given request id
// and is written at most once: a request that already has metric rows is
// left untouched.
func (s *Store) SeedDailyMetrics(ctx context.Context, requestID int64, days int) error {
	if days <= 0 {
		return nil
	}

	var existing int64
	countQuery := s.rebind(`SELECT COUNT(*) FROM daily_metrics WHERE request_id = ?`)
	if err := s.db.QueryRowContext(ctx, countQuery, requestID).Scan(&existing); err != nil {
		return fmt.Errorf("failed to count metrics: %w", err)
	}
	if existing > 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(requestID))
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -days)

	for i := 0; i < days; i++ {
		impressions := 1000 + rng.Int63n(19000)
		clicks := int64(float64(impressions) * (0.01 + rng.Float64()*0.04))
		conversions := int64(float64(clicks) * (0.01 + rng.Float64()*0.09))
		revenue := math.Round(float64(conversions)*(40+rng.Float64()*80)*100) / 100

		m := asset.DailyMetric{
			RequestID:   requestID,
			Day:         start.AddDate(0, 0, i),
			Impressions: impressions,
			Clicks:      clicks,
			Conversions: conversions,
			Revenue:     revenue,
		}
		if err := s.InsertDailyMetric(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// TotalRevenue sums the revenue attributed to a request. Requests with no
// metric rows total zero.
func (s *Store) TotalRevenue(ctx context.Context, requestID int64) (float64, error) {
	query := s.rebind(`SELECT COALESCE(SUM(revenue), 0) FROM daily_metrics WHERE request_id = ?`)
	var total float64
	if err := s.db.QueryRowContext(ctx, query, requestID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}

// BestPerforming returns the completed request of a campaign with the
// highest cumulative revenue. Requests without metric rows count as zero;
// ties break toward the lowest id. Returns ErrNoCompletedAssets when the
// campaign has no completed request at all.
func (s *Store) BestPerforming(ctx context.Context, campaignID string) (*asset.GenerationRequest, float64, error) {
	query := s.rebind(`
SELECT r.id, COALESCE(SUM(m.revenue), 0) AS total_revenue
FROM video_requests r
LEFT JOIN daily_metrics m ON m.request_id = r.id
WHERE r.campaign_id = ? AND r.status = ?
GROUP BY r.id
ORDER BY total_revenue DESC, r.id ASC
LIMIT 1`)

	var id int64
	var revenue float64
	err := s.db.QueryRowContext(ctx, query, campaignID, string(asset.StatusCompleted)).Scan(&id, &revenue)
	if err == sql.ErrNoRows {
		return nil, 0, fmt.Errorf("campaign %s: %w", campaignID, ErrNoCompletedAssets)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query best performer: %w", err)
	}

	req, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return req, revenue, nil
}
