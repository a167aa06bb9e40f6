// Package classify implements the classifier (spec.md section 4.7, C8):
// turning component scores into one of the six fixed recommendations, and
// applying the confidence gate's cap.
package classify

import (
	"fmt"

	"github.com/axisproperty/dealengine/internal/schema"
	"github.com/axisproperty/dealengine/internal/scoring"
)

// Opportunity is the terminal output of the pipeline for one asset: a
// final recommendation plus the reasoning that produced it.
type Opportunity struct {
	scoring.Scored

	AssetID               string
	Recommendation        schema.Recommendation
	ClassificationReason  string

	// Rank is this opportunity's 1-indexed position among the batch it was
	// classified with, assigned by the pipeline once every asset in the
	// batch has been scored (spec.md section 4.6). Zero until then.
	Rank int
}

// Classify derives the final recommendation for scored, applying the base
// branch from bmv% and overall score, then the confidence cap.
func Classify(assetID string, scored scoring.Scored) Opportunity {
	base, baseReason := baseRecommendation(scored)
	final := schema.CapRecommendation(base, scored.Cap)

	reason := baseReason
	if final != base {
		reason = fmt.Sprintf("%s→%s: %s cap", base, final, capReason(scored))
	}

	return Opportunity{
		Scored:               scored,
		AssetID:               assetID,
		Recommendation:        final,
		ClassificationReason:  reason,
	}
}

func baseRecommendation(scored scoring.Scored) (schema.Recommendation, string) {
	if scored.ComparableCount == 0 {
		return schema.RecommendationInsufficientData, "0 comparables available"
	}
	if scored.BMVPercent < 0 {
		return schema.RecommendationOverpriced, fmt.Sprintf("bmv%% %.2f is negative", scored.BMVPercent)
	}

	switch {
	case scored.BMVPercent >= 15 && scored.Overall >= 70:
		return schema.RecommendationStrong, fmt.Sprintf("bmv%% %.2f >= 15 and overall %.2f >= 70", scored.BMVPercent, scored.Overall)
	case scored.BMVPercent >= 8 && scored.Overall >= 50:
		return schema.RecommendationModerate, fmt.Sprintf("bmv%% %.2f >= 8 and overall %.2f >= 50", scored.BMVPercent, scored.Overall)
	case scored.BMVPercent >= 3 && scored.Overall >= 30:
		return schema.RecommendationWeak, fmt.Sprintf("bmv%% %.2f >= 3 and overall %.2f >= 30", scored.BMVPercent, scored.Overall)
	default:
		return schema.RecommendationAvoid, fmt.Sprintf("bmv%% %.2f and overall %.2f below all thresholds", scored.BMVPercent, scored.Overall)
	}
}

func capReason(scored scoring.Scored) string {
	if scored.ComparableCount < 3 {
		return "<3 comps"
	}
	return string(scored.Confidence) + " confidence"
}
