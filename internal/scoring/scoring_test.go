package scoring

import (
	"testing"
	"time"

	"github.com/axisproperty/dealengine/internal/compstore"
	"github.com/axisproperty/dealengine/internal/confidence"
	"github.com/axisproperty/dealengine/internal/market"
	"github.com/axisproperty/dealengine/internal/schema"
	"github.com/stretchr/testify/require"
)

func TestBMVScorePiecewise(t *testing.T) {
	require.Equal(t, 0.0, bmvScore(-5))
	require.Equal(t, 0.0, bmvScore(0))
	require.InDelta(t, 15.0, bmvScore(3), 0.001)
	require.InDelta(t, 25.0, bmvScore(5), 0.001)
	require.InDelta(t, 50.0, bmvScore(10), 0.001)
	require.InDelta(t, 80.0, bmvScore(20), 0.001)
	require.Equal(t, 100.0, bmvScore(60))
}

func TestUrgencyScorePiecewise(t *testing.T) {
	require.InDelta(t, 0.0, urgencyScore(0), 0.001)
	require.InDelta(t, 20.0, urgencyScore(30), 0.001)
	require.InDelta(t, 40.0, urgencyScore(60), 0.001)
	require.Equal(t, 100.0, urgencyScore(200))
}

func TestScoreS1StrongDealWorkedExample(t *testing.T) {
	listingDate := time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -60)
	asset := schema.ValidatedAsset{AskingPrice: 300_000, ListingDate: listingDate}

	analysis := market.Analysis{
		AssetID:               "va-1",
		EstimatedMarketValue:  362_500,
		BMVPercent:            (362_500.0 - 300_000.0) / 362_500.0 * 100,
		ComparableCount:       6,
		SelectionLevel:        compstore.Level1,
	}
	gated := confidence.Gate(analysis)
	require.Equal(t, schema.ConfidenceHigh, gated.Confidence)

	now := time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC)
	scored := Score(asset, gated, now, 20.0)

	require.InDelta(t, 17.24, analysis.BMVPercent, 0.01)
	require.InDelta(t, 71.72, scored.BMVScore, 0.1)
	require.InDelta(t, 40.0, scored.UrgencyScore, 0.01)
	require.Equal(t, 50.0, scored.LocationScore)
}

func TestRankOrdersOverallDescThenBMVDescThenPriceAsc(t *testing.T) {
	inputs := []RankInput{
		{AssetID: "low", Scored: Scored{Overall: 40}, AskingPrice: 100_000},
		{AssetID: "high", Scored: Scored{Overall: 80}, AskingPrice: 200_000},
		{AssetID: "tie-cheap", Scored: Scored{Overall: 60}, AskingPrice: 100_000},
		{AssetID: "tie-expensive", Scored: Scored{Overall: 60}, AskingPrice: 150_000},
	}

	ranked := Rank(inputs)
	require.Equal(t, "high", ranked[0].AssetID)
	require.Equal(t, "tie-cheap", ranked[1].AssetID)
	require.Equal(t, "tie-expensive", ranked[2].AssetID)
	require.Equal(t, "low", ranked[3].AssetID)
	require.Equal(t, 1, ranked[0].Rank)
}

func TestRankIsStableOnFullTies(t *testing.T) {
	inputs := []RankInput{
		{AssetID: "first", Scored: Scored{Overall: 50}, AskingPrice: 100_000},
		{AssetID: "second", Scored: Scored{Overall: 50}, AskingPrice: 100_000},
	}

	ranked := Rank(inputs)
	require.Equal(t, "first", ranked[0].AssetID)
	require.Equal(t, "second", ranked[1].AssetID)
}
