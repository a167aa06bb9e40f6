package confidence

import (
	"testing"

	"github.com/axisproperty/dealengine/internal/compstore"
	"github.com/axisproperty/dealengine/internal/market"
	"github.com/axisproperty/dealengine/internal/schema"
	"github.com/stretchr/testify/require"
)

func TestGateHighConfidenceNoCap(t *testing.T) {
	analysis := market.Analysis{ComparableCount: 6, SelectionLevel: compstore.Level1}
	gated := Gate(analysis)
	require.Equal(t, schema.ConfidenceHigh, gated.Confidence)
	require.Equal(t, schema.Recommendation(""), gated.Cap)
}

func TestGateMediumConfidenceNoCap(t *testing.T) {
	analysis := market.Analysis{ComparableCount: 4, SelectionLevel: compstore.Level4}
	gated := Gate(analysis)
	require.Equal(t, schema.ConfidenceMedium, gated.Confidence)
	require.Equal(t, schema.Recommendation(""), gated.Cap)
}

func TestGateFewCompsCapsWeakOverLowConfidence(t *testing.T) {
	// S4: 2 comps at level 5 (1.0mi / 24 months) -> LOW confidence, but
	// comps_used < 3 takes priority and caps WEAK instead.
	analysis := market.Analysis{ComparableCount: 2, SelectionLevel: compstore.Level5}
	gated := Gate(analysis)
	require.Equal(t, schema.ConfidenceLow, gated.Confidence)
	require.Equal(t, schema.RecommendationWeak, gated.Cap)
}

func TestGateLowConfidenceWithEnoughCompsCapsModerate(t *testing.T) {
	analysis := market.Analysis{ComparableCount: 4, SelectionLevel: compstore.Level6}
	gated := Gate(analysis)
	require.Equal(t, schema.ConfidenceLow, gated.Confidence)
	require.Equal(t, schema.RecommendationModerate, gated.Cap)
}

func TestGateZeroCompsIsTerminal(t *testing.T) {
	analysis := market.Analysis{ComparableCount: 0, SelectionLevel: compstore.Level6}
	gated := Gate(analysis)
	require.Equal(t, schema.RecommendationInsufficientData, gated.Cap)
}

func TestGateFewerThanThreeCompsCapsWeak(t *testing.T) {
	analysis := market.Analysis{ComparableCount: 1, SelectionLevel: compstore.Level1}
	gated := Gate(analysis)
	require.Equal(t, schema.RecommendationWeak, gated.Cap)
}
