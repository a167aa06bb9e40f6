// Package compstore implements the comparable-sale repository and selector
// (spec.md section 4.3, C4): storing sold comparables and selecting the
// subset relevant to a given asset via progressive geographic/temporal
// fallback.
package compstore

import (
	"time"

	"github.com/axisproperty/dealengine/internal/schema"
)

// ComparableSale is a completed sale used as evidence for market value.
// Unlike ValidatedAsset, this type is sourced from sold-price records, not
// live listings.
type ComparableSale struct {
	SaleID string

	Address      string
	Postcode     string
	PropertyType schema.PropertyType
	Tenure       schema.Tenure

	Bedrooms   *int
	SquareFeet *int

	Latitude  float64
	Longitude float64

	SalePrice int
	SaleDate  time.Time
}

// SelectionLevel identifies which of the six fallback tiers (radius/date
// window pairs) produced a result set (spec.md section 4.3).
type SelectionLevel int

const (
	Level1 SelectionLevel = iota + 1
	Level2
	Level3
	Level4
	Level5
	Level6
)

// levelParams describes the radius (miles) and date window (months) for
// each fallback level, in the fixed order the selector walks them.
type levelParams struct {
	level        SelectionLevel
	radiusMiles  float64
	windowMonths int
}

var fallbackLevels = []levelParams{
	{Level1, 0.5, 12},
	{Level2, 1.0, 12},
	{Level3, 0.5, 18},
	{Level4, 1.0, 18},
	{Level5, 1.0, 24},
	{Level6, 1.5, 24},
}

// RadiusMiles and WindowMonths report the fixed parameters for a fallback
// level, so that downstream stages (the confidence gate) can reason about
// evidence quality without re-deriving the table.
func (l SelectionLevel) RadiusMiles() float64 {
	for _, lp := range fallbackLevels {
		if lp.level == l {
			return lp.radiusMiles
		}
	}
	return 0
}

func (l SelectionLevel) WindowMonths() int {
	for _, lp := range fallbackLevels {
		if lp.level == l {
			return lp.windowMonths
		}
	}
	return 0
}

// maxAgeMonths is the hard filter applied before any fallback level is
// tried: comps older than this are never considered, regardless of level.
const maxAgeMonths = 24

// Selection is the comparable selector's result for one asset.
type Selection struct {
	Sales []ComparableSale
	Level SelectionLevel
}
