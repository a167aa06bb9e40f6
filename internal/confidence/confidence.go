// Package confidence implements the confidence gate (spec.md section 4.5,
// C6): assigning a confidence level to a market analysis based on
// comparable evidence, and capping any downstream recommendation so a
// thin evidence base can never produce an overconfident recommendation.
package confidence

import (
	"github.com/axisproperty/dealengine/internal/market"
	"github.com/axisproperty/dealengine/internal/schema"
)

// Gated is a market Analysis annotated with its confidence level and the
// recommendation cap that level implies.
type Gated struct {
	market.Analysis
	Confidence schema.Confidence
	Cap        schema.Recommendation
}

// Gate assigns confidence and a recommendation cap to analysis, following
// the fixed thresholds in spec.md section 4.5:
//
//	HIGH:   comps >= 5 AND months <= 12 AND radius <= 0.5
//	MEDIUM: comps >= 3 AND months <= 18 AND radius <= 1.0 (and not HIGH)
//	LOW:    otherwise
//
// Zero comparables is terminal: the asset can never be scored, and its
// recommendation is fixed at INSUFFICIENT_DATA regardless of anything the
// scorer computes downstream.
func Gate(analysis market.Analysis) Gated {
	count := analysis.ComparableCount
	radius := analysis.SelectionLevel.RadiusMiles()
	months := analysis.SelectionLevel.WindowMonths()

	confidence := classify(count, radius, months)

	gated := Gated{Analysis: analysis, Confidence: confidence}

	switch {
	case count == 0:
		gated.Cap = schema.RecommendationInsufficientData
	case count < 3:
		gated.Cap = schema.RecommendationWeak
	case confidence == schema.ConfidenceLow:
		gated.Cap = schema.RecommendationModerate
	default:
		// No cap tighter than the base recommendation; leave Cap zero
		// value so CapRecommendation treats it as a no-op (it isn't a
		// ranked recommendation and so never downgrades anything).
	}

	return gated
}

func classify(count int, radiusMiles float64, windowMonths int) schema.Confidence {
	if count >= 5 && windowMonths <= 12 && radiusMiles <= 0.5 {
		return schema.ConfidenceHigh
	}
	if count >= 3 && windowMonths <= 18 && radiusMiles <= 1.0 {
		return schema.ConfidenceMedium
	}
	return schema.ConfidenceLow
}
