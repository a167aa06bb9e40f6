// Package scoring implements the scorer (spec.md section 4.6, C7): four
// component scores combined into an overall opportunity score. Score
// receives the whole ValidatedAsset, SourceMetadata included, plus a
// confidence-gated market analysis; of the asset it reads only ListingDate
// (for days on market), never its Source field.
package scoring

import (
	"math"
	"time"

	"github.com/axisproperty/dealengine/internal/confidence"
	"github.com/axisproperty/dealengine/internal/schema"
)

// Scored holds the four component scores and their weighted composite for
// one asset.
type Scored struct {
	confidence.Gated

	BMVScore      float64
	UrgencyScore  float64
	LocationScore float64
	ValueScore    float64
	Overall       float64
}

// confidenceModifier scales the BMV score by evidence quality.
var confidenceModifier = map[schema.Confidence]float64{
	schema.ConfidenceHigh:   1.0,
	schema.ConfidenceMedium: 0.85,
	schema.ConfidenceLow:    0.70,
}

const (
	weightBMV      = 0.50
	weightUrgency  = 0.20
	weightLocation = 0.15
	weightValue    = 0.15

	// locationScorePlaceholder is a reserved, deterministic stand-in —
	// no behavioural requirement yet defines an actual location model
	// (spec.md section 9, open question 3).
	locationScorePlaceholder = 50.0
)

// Score computes the four component scores and the weighted overall score
// for asset given its gated market analysis, the current time (for
// days-on-market), and a target BMV% tier.
func Score(asset schema.ValidatedAsset, gated confidence.Gated, now time.Time, targetBMVPercent float64) Scored {
	bmv := bmvScore(gated.BMVPercent) * confidenceModifier[gated.Confidence]
	urgency := urgencyScore(asset.DaysOnMarket(now))
	location := locationScorePlaceholder
	value := valueScore(gated.BMVPercent, targetBMVPercent)

	overall := weightBMV*bmv + weightUrgency*urgency + weightLocation*location + weightValue*value

	return Scored{
		Gated:         gated,
		BMVScore:      bmv,
		UrgencyScore:  urgency,
		LocationScore: location,
		ValueScore:    value,
		Overall:       overall,
	}
}

// bmvScore applies the piecewise BMV% formula (spec.md section 4.6),
// implemented as half-open intervals per the resolved open question 1.
func bmvScore(bmvPercent float64) float64 {
	switch {
	case bmvPercent <= 0:
		return 0
	case bmvPercent < 5:
		return bmvPercent * 5
	case bmvPercent < 10:
		return 25 + (bmvPercent-5)*5
	case bmvPercent < 20:
		return 50 + (bmvPercent-10)*3
	default:
		return math.Min(80+(bmvPercent-20)*2, 100)
	}
}

// urgencyScore applies the piecewise days-on-market formula (spec.md
// section 4.6).
func urgencyScore(days int) float64 {
	d := float64(days)
	switch {
	case d < 30:
		return d * 20 / 30
	case d < 60:
		return 20 + (d-30)*20/30
	case d < 90:
		return 40 + (d - 60)
	default:
		return math.Min(70+(d-90)/3, 100)
	}
}

// valueScore measures how close bmvPercent is to targetBMVPercent,
// capped at 100 and floored at 0 — hitting or exceeding the target tier
// scores 100, falling short scores proportionally lower.
func valueScore(bmvPercent, targetBMVPercent float64) float64 {
	if targetBMVPercent <= 0 {
		return 0
	}
	ratio := bmvPercent / targetBMVPercent * 100
	if ratio < 0 {
		return 0
	}
	if ratio > 100 {
		return 100
	}
	return ratio
}
