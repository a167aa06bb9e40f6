package classify

import (
	"testing"

	"github.com/axisproperty/dealengine/internal/compstore"
	"github.com/axisproperty/dealengine/internal/confidence"
	"github.com/axisproperty/dealengine/internal/market"
	"github.com/axisproperty/dealengine/internal/schema"
	"github.com/axisproperty/dealengine/internal/scoring"
	"github.com/stretchr/testify/require"
)

func gatedWith(count int, bmvPercent, overall float64, cap schema.Recommendation) scoring.Scored {
	analysis := market.Analysis{ComparableCount: count, BMVPercent: bmvPercent, SelectionLevel: compstore.Level1}
	gated := confidence.Gated{Analysis: analysis, Cap: cap}
	return scoring.Scored{Gated: gated, Overall: overall}
}

func TestClassifyS2InsufficientData(t *testing.T) {
	scored := gatedWith(0, 0, 0, schema.RecommendationInsufficientData)
	result := Classify("va-2", scored)
	require.Equal(t, schema.RecommendationInsufficientData, result.Recommendation)
}

func TestClassifyS3Overpriced(t *testing.T) {
	scored := gatedWith(4, -13.64, 10, "")
	result := Classify("va-3", scored)
	require.Equal(t, schema.RecommendationOverpriced, result.Recommendation)
}

func TestClassifyS1ModerateAfterBranching(t *testing.T) {
	scored := gatedWith(6, 17.24, 63.36, "")
	result := Classify("va-1", scored)
	require.Equal(t, schema.RecommendationModerate, result.Recommendation)
}

func TestClassifyS4CapDowngradeToWeak(t *testing.T) {
	scored := gatedWith(2, 23.08, 75, schema.RecommendationWeak)
	result := Classify("va-4", scored)
	require.Equal(t, schema.RecommendationWeak, result.Recommendation)
	require.Contains(t, result.ClassificationReason, "STRONG→WEAK")
	require.Contains(t, result.ClassificationReason, "<3 comps")
}

func TestClassifyStrongWithNoCap(t *testing.T) {
	scored := gatedWith(6, 20, 80, "")
	result := Classify("va-5", scored)
	require.Equal(t, schema.RecommendationStrong, result.Recommendation)
}

func TestClassifyAvoidBelowAllThresholds(t *testing.T) {
	scored := gatedWith(4, 1, 10, "")
	result := Classify("va-6", scored)
	require.Equal(t, schema.RecommendationAvoid, result.Recommendation)
}
