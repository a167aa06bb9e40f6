package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/axisproperty/dealengine/internal/compstore"
	"github.com/axisproperty/dealengine/internal/logging"
	"github.com/axisproperty/dealengine/internal/schema"
	"github.com/stretchr/testify/require"
)

func TestRunProducesSortedDeterministicResults(t *testing.T) {
	now := time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC)
	index := compstore.NewIndex(nil)
	selector := compstore.NewSelector(index)
	p := New(selector, 20.0, 4, logging.NewNop())

	assets := []schema.ValidatedAsset{
		{AssetID: "va-3", AskingPrice: 200_000, ListingDate: now.AddDate(0, 0, -10)},
		{AssetID: "va-1", AskingPrice: 150_000, ListingDate: now.AddDate(0, 0, -10)},
		{AssetID: "va-2", AskingPrice: 180_000, ListingDate: now.AddDate(0, 0, -10)},
	}

	results, err := p.Run(context.Background(), assets, now)
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, "va-1", results[0].Opportunity.AssetID)
	require.Equal(t, "va-2", results[1].Opportunity.AssetID)
	require.Equal(t, "va-3", results[2].Opportunity.AssetID)

	for _, r := range results {
		require.Equal(t, schema.RecommendationInsufficientData, r.Opportunity.Recommendation)
	}
}

func TestRunAssignsOneIndexedRankAcrossWholeBatch(t *testing.T) {
	now := time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC)
	index := compstore.NewIndex(nil)
	selector := compstore.NewSelector(index)
	p := New(selector, 20.0, 4, logging.NewNop())

	assets := []schema.ValidatedAsset{
		{AssetID: "va-1", AskingPrice: 150_000, ListingDate: now.AddDate(0, 0, -10)},
		{AssetID: "va-2", AskingPrice: 180_000, ListingDate: now.AddDate(0, 0, -10)},
		{AssetID: "va-3", AskingPrice: 200_000, ListingDate: now.AddDate(0, 0, -10)},
	}

	results, err := p.Run(context.Background(), assets, now)
	require.NoError(t, err)

	seen := make(map[int]bool, len(results))
	for _, r := range results {
		require.Greater(t, r.Opportunity.Rank, 0)
		require.False(t, seen[r.Opportunity.Rank], "rank %d assigned twice", r.Opportunity.Rank)
		seen[r.Opportunity.Rank] = true
	}
	require.Len(t, seen, len(assets))
}

func TestRunIsDeterministicAcrossRepeatedCalls(t *testing.T) {
	now := time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC)
	index := compstore.NewIndex(nil)
	selector := compstore.NewSelector(index)
	p := New(selector, 20.0, 2, logging.NewNop())

	assets := []schema.ValidatedAsset{
		{AssetID: "va-1", AskingPrice: 150_000, ListingDate: now.AddDate(0, 0, -10)},
		{AssetID: "va-2", AskingPrice: 180_000, ListingDate: now.AddDate(0, 0, -10)},
	}

	r1, err := p.Run(context.Background(), assets, now)
	require.NoError(t, err)
	r2, err := p.Run(context.Background(), assets, now)
	require.NoError(t, err)

	require.Equal(t, r1[0].Trail.Hash, r2[0].Trail.Hash)
	require.Equal(t, r1[1].Trail.Hash, r2[1].Trail.Hash)
}

func TestRunRespectsCancelledContext(t *testing.T) {
	index := compstore.NewIndex(nil)
	selector := compstore.NewSelector(index)
	p := New(selector, 20.0, 1, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assets := []schema.ValidatedAsset{{AssetID: "va-1"}}
	_, err := p.Run(ctx, assets, time.Now())
	require.Error(t, err)
}
