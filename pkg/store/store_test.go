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
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsmith/adsmith/pkg/asset"
	"github.com/adsmith/adsmith/pkg/traits"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := New(db, "sqlite")
	require.NoError(t, err)
	return s
}

func newTestRequest(t *testing.T, s *Store, campaignID string) *asset.GenerationRequest {
	t.Helper()
	ctx := context.Background()
	seed, err := s.CreateSeed(ctx, campaignID, "", traits.SeedContext{Mood: "elegant"})
	require.NoError(t, err)
	req, err := s.CreateRequest(ctx, campaignID, seed.ID, "test prompt", 6)
	require.NoError(t, err)
	return req
}

func TestStore_CampaignRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateCampaign(ctx, "summer-launch", "linen jackets")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.GetCampaign(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "summer-launch", got.Name)
	assert.Equal(t, "linen jackets", got.Product)

	_, err = s.GetCampaign(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SeedRequiresCampaign(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateSeed(ctx, "no-such-campaign", "", traits.SeedContext{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_LatestSeed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	campaign, err := s.CreateCampaign(ctx, "c", "")
	require.NoError(t, err)

	_, err = s.CreateSeed(ctx, campaign.ID, "", traits.SeedContext{Mood: "elegant"})
	require.NoError(t, err)

	// created_at resolution is coarse; nudge the clock apart.
	time.Sleep(5 * time.Millisecond)

	second, err := s.CreateSeed(ctx, campaign.ID, "/img/b.png", traits.SeedContext{Mood: "edgy"})
	require.NoError(t, err)

	latest, err := s.LatestSeed(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "edgy", latest.Seed.Mood)
	assert.Equal(t, "/img/b.png", latest.ImagePath)

	_, err = s.LatestSeed(ctx, "empty-campaign")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RequestLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	campaign, err := s.CreateCampaign(ctx, "c", "")
	require.NoError(t, err)
	req := newTestRequest(t, s, campaign.ID)

	assert.Equal(t, asset.StatusGenerating, req.Status)
	require.Greater(t, req.ID, int64(0))

	props := &traits.CreativeProperties{Mood: "edgy", VisualStyle: "vintage"}
	require.NoError(t, s.MarkCompleted(ctx, req.ID, "/artifacts/out.mp4", props))

	got, err := s.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.StatusCompleted, got.Status)
	assert.Equal(t, "/artifacts/out.mp4", got.OutputRef)
	require.NotNil(t, got.Properties)
	assert.Equal(t, "edgy", got.Properties.Mood)
	assert.Equal(t, "vintage", got.Properties.VisualStyle)
}

func TestStore_MarkCompletedRequiresOutputRef(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	campaign, err := s.CreateCampaign(ctx, "c", "")
	require.NoError(t, err)
	req := newTestRequest(t, s, campaign.ID)

	err = s.MarkCompleted(ctx, req.ID, "", nil)
	require.Error(t, err)

	// The failed completion must not have touched the row.
	got, err := s.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.StatusGenerating, got.Status)
}

func TestStore_CompletedWithoutProperties(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	campaign, err := s.CreateCampaign(ctx, "c", "")
	require.NoError(t, err)
	req := newTestRequest(t, s, campaign.ID)

	// Analysis failure: completion with nil properties is legal.
	require.NoError(t, s.MarkCompleted(ctx, req.ID, "/artifacts/out.mp4", nil))

	got, err := s.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.StatusCompleted, got.Status)
	assert.Nil(t, got.Properties)
}

func TestStore_TerminalStatesAreImmutable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	campaign, err := s.CreateCampaign(ctx, "c", "")
	require.NoError(t, err)

	completed := newTestRequest(t, s, campaign.ID)
	require.NoError(t, s.MarkCompleted(ctx, completed.ID, "/a.mp4", nil))

	// completed -> failed must be rejected.
	err = s.MarkFailed(ctx, completed.ID, "late failure")
	require.Error(t, err)

	got, err := s.GetRequest(ctx, completed.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.StatusCompleted, got.Status)
	assert.Empty(t, got.FailureReason)

	failed := newTestRequest(t, s, campaign.ID)
	require.NoError(t, s.MarkFailed(ctx, failed.ID, "backend error"))

	// failed -> completed must be rejected.
	err = s.MarkCompleted(ctx, failed.ID, "/b.mp4", nil)
	require.Error(t, err)

	got, err = s.GetRequest(ctx, failed.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.StatusFailed, got.Status)
	assert.Equal(t, "backend error", got.FailureReason)
}

func TestStore_RepeatedTerminalTransitionIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	campaign, err := s.CreateCampaign(ctx, "c", "")
	require.NoError(t, err)
	req := newTestRequest(t, s, campaign.ID)

	require.NoError(t, s.MarkFailed(ctx, req.ID, "first"))
	require.NoError(t, s.MarkFailed(ctx, req.ID, "second"))

	got, err := s.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.FailureReason)
}

func TestStore_MonotonicRequestIDs(t *testing.T) {
	s := newTestStore(t)

	campaign, err := s.CreateCampaign(context.Background(), "c", "")
	require.NoError(t, err)

	var last int64
	for i := 0; i < 5; i++ {
		req := newTestRequest(t, s, campaign.ID)
		require.Greater(t, req.ID, last)
		last = req.ID
	}
}

func TestStore_ListRequestsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	campaign, err := s.CreateCampaign(ctx, "c", "")
	require.NoError(t, err)

	a := newTestRequest(t, s, campaign.ID)
	b := newTestRequest(t, s, campaign.ID)

	reqs, err := s.ListRequests(ctx, campaign.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, b.ID, reqs[0].ID)
	assert.Equal(t, a.ID, reqs[1].ID)
}

func TestStore_SeedDailyMetricsDeterministicAndOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	campaign, err := s.CreateCampaign(ctx, "c", "")
	require.NoError(t, err)
	req := newTestRequest(t, s, campaign.ID)
	require.NoError(t, s.MarkCompleted(ctx, req.ID, "/a.mp4", nil))

	require.NoError(t, s.SeedDailyMetrics(ctx, req.ID, 90))

	total, err := s.TotalRevenue(ctx, req.ID)
	require.NoError(t, err)
	assert.Greater(t, total, 0.0)

	// A second backfill must not add rows or change the total.
	require.NoError(t, s.SeedDailyMetrics(ctx, req.ID, 90))
	again, err := s.TotalRevenue(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, total, again)

	var rows int64
	require.NoError(t, s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM daily_metrics WHERE request_id = ?`, req.ID).Scan(&rows))
	assert.Equal(t, int64(90), rows)
}

func TestStore_BestPerforming(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	campaign, err := s.CreateCampaign(ctx, "c", "")
	require.NoError(t, err)

	revenues := []float64{10, 50, 30}
	var ids []int64
	for _, rev := range revenues {
		req := newTestRequest(t, s, campaign.ID)
		require.NoError(t, s.MarkCompleted(ctx, req.ID, "/a.mp4", nil))
		require.NoError(t, s.InsertDailyMetric(ctx, asset.DailyMetric{
			RequestID:   req.ID,
			Day:         time.Now().UTC().Truncate(24 * time.Hour),
			Impressions: 1000,
			Clicks:      50,
			Conversions: 5,
			Revenue:     rev,
		}))
		ids = append(ids, req.ID)
	}

	best, revenue, err := s.BestPerforming(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, ids[1], best.ID)
	assert.Equal(t, 50.0, revenue)
}

func TestStore_BestPerformingIgnoresNonCompleted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	campaign, err := s.CreateCampaign(ctx, "c", "")
	require.NoError(t, err)

	// A failed request with huge revenue must never win.
	failed := newTestRequest(t, s, campaign.ID)
	require.NoError(t, s.MarkFailed(ctx, failed.ID, "boom"))
	require.NoError(t, s.InsertDailyMetric(ctx, asset.DailyMetric{
		RequestID: failed.ID,
		Day:       time.Now().UTC().Truncate(24 * time.Hour),
		Revenue:   9999,
	}))

	completed := newTestRequest(t, s, campaign.ID)
	require.NoError(t, s.MarkCompleted(ctx, completed.ID, "/a.mp4", nil))

	best, revenue, err := s.BestPerforming(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, completed.ID, best.ID)
	// Completed asset without metrics totals zero but still wins.
	assert.Equal(t, 0.0, revenue)
}

func TestStore_BestPerformingNoCompletedAssets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	campaign, err := s.CreateCampaign(ctx, "c", "")
	require.NoError(t, err)

	// Only a generating request exists.
	_ = newTestRequest(t, s, campaign.ID)

	_, _, err = s.BestPerforming(ctx, campaign.ID)
	assert.ErrorIs(t, err, ErrNoCompletedAssets)
}

func TestStore_BestPerformingTieBreaksToLowestID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	campaign, err := s.CreateCampaign(ctx, "c", "")
	require.NoError(t, err)

	first := newTestRequest(t, s, campaign.ID)
	require.NoError(t, s.MarkCompleted(ctx, first.ID, "/a.mp4", nil))
	second := newTestRequest(t, s, campaign.ID)
	require.NoError(t, s.MarkCompleted(ctx, second.ID, "/b.mp4", nil))

	day := time.Now().UTC().Truncate(24 * time.Hour)
	for _, id := range []int64{first.ID, second.ID} {
		require.NoError(t, s.InsertDailyMetric(ctx, asset.DailyMetric{
			RequestID: id, Day: day, Revenue: 25,
		}))
	}

	best, _, err := s.BestPerforming(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, best.ID)
}
