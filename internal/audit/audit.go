// Package audit implements the audit-trail assembler (spec.md section
// 4.8, C9): threading per-stage provenance through the pipeline into one
// record per classified opportunity.
package audit

import (
	"fmt"
	"time"

	"github.com/axisproperty/dealengine/internal/canon"
	"github.com/axisproperty/dealengine/internal/classify"
	"github.com/axisproperty/dealengine/internal/compstore"
	"github.com/axisproperty/dealengine/internal/schema"
)

// EngineVersion is stamped on every audit trail. It changes only when the
// pipeline's scoring or classification rules change in a way that could
// alter historical output.
const EngineVersion = "1.1.0"

// ValidationOutcome records whether an asset's source raw listing passed
// structural validation, and the rejection if it did not — present for
// completeness even though a rejected listing never reaches this package
// in practice (rejections stop at internal/validate).
type ValidationOutcome struct {
	Passed bool
	Errors []schema.RejectionCode
}

// Trail is the full provenance record for one classified opportunity
// (spec.md section 4.8).
type Trail struct {
	AssetID string

	IngestionStamp time.Time
	Validation     ValidationOutcome

	ComparablesUsed int
	ComparableIDs   []string
	ComparablePrices []int
	RadiusMiles     float64
	WindowMonths    int

	EstimatedMarketValue  float64
	Confidence            schema.Confidence
	ConfidenceReason       string
	CapApplied             schema.Recommendation

	BMVScore      float64
	UrgencyScore  float64
	LocationScore float64
	ValueScore    float64
	OverallScore  float64

	Recommendation       schema.Recommendation
	RecommendationReason string

	EngineVersion       string
	ProcessingTimestamp time.Time

	// Hash is the canonical-JSON SHA-256 digest of every field above,
	// computed last so it covers the fully assembled trail.
	Hash string
}

// Assemble builds a Trail from every pipeline stage's output for one
// asset. now is the processing timestamp; callers pass a fixed value so
// repeated runs over identical inputs are byte-identical (spec.md section
// 8, determinism invariant).
func Assemble(
	asset schema.ValidatedAsset,
	selection compstore.Selection,
	opportunity classify.Opportunity,
	now time.Time,
) Trail {
	compIDs := make([]string, len(selection.Sales))
	compPrices := make([]int, len(selection.Sales))
	for i, s := range selection.Sales {
		compIDs[i] = s.SaleID
		compPrices[i] = s.SalePrice
	}

	trail := Trail{
		AssetID:        asset.AssetID,
		IngestionStamp: asset.ValidatedAt,
		Validation:     ValidationOutcome{Passed: true},

		ComparablesUsed:  opportunity.ComparableCount,
		ComparableIDs:    compIDs,
		ComparablePrices: compPrices,
		RadiusMiles:      selection.Level.RadiusMiles(),
		WindowMonths:     selection.Level.WindowMonths(),

		EstimatedMarketValue: opportunity.EstimatedMarketValue,
		Confidence:           opportunity.Confidence,
		ConfidenceReason:     confidenceReason(opportunity),
		CapApplied:           opportunity.Cap,

		BMVScore:      opportunity.BMVScore,
		UrgencyScore:  opportunity.UrgencyScore,
		LocationScore: opportunity.LocationScore,
		ValueScore:    opportunity.ValueScore,
		OverallScore:  opportunity.Overall,

		Recommendation:       opportunity.Recommendation,
		RecommendationReason: opportunity.ClassificationReason,

		EngineVersion:       EngineVersion,
		ProcessingTimestamp: now,
	}

	trail.Hash = canon.MustHash(trail)
	return trail
}

func confidenceReason(o classify.Opportunity) string {
	if o.ComparableCount == 0 {
		return "no comparables found at any fallback level"
	}
	return fmt.Sprintf("%s confidence from %d comparables", o.Confidence, o.ComparableCount)
}
