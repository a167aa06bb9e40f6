// Package market implements the market-reality EMV engine (spec.md
// section 4.4, C5): deriving an estimated market value from comparable
// sales and comparing it against the asset's asking price.
package market

import (
	"sort"

	"github.com/axisproperty/dealengine/internal/compstore"
	"github.com/axisproperty/dealengine/internal/schema"
)

// Analysis is the output of the market-reality engine for one asset.
// EstimatedMarketValue is kept as a float64 through every internal
// computation (feeding BMVPercent, the scorer, and the audit trail, which
// records it unrounded); the only rounding is cmd/dealengine's printed
// report, which shows it to two decimal places (spec.md section 4.4).
type Analysis struct {
	AssetID               string
	EstimatedMarketValue  float64
	BMVPercent            float64
	ComparableCount       int
	TrimmedCount          int
	SelectionLevel        compstore.SelectionLevel
}

// minForTrimming is the smallest comparable-set size the engine will trim
// outliers from; below this, every sale is kept (spec.md section 4.4).
const minForTrimming = 5

// Analyze derives an Analysis from asset's asking price and its selected
// comparables. Comparables must already be exact-matched by the caller
// (internal/compstore.Selector) — this package never filters by type or
// tenure itself.
func Analyze(asset schema.ValidatedAsset, selection compstore.Selection) Analysis {
	prices := salePrices(selection.Sales)

	trimmed, trimmedCount := trimOutliers(prices)

	result := Analysis{
		AssetID:         asset.AssetID,
		ComparableCount: len(selection.Sales),
		TrimmedCount:    trimmedCount,
		SelectionLevel:  selection.Level,
	}

	if len(trimmed) == 0 {
		return result
	}

	emv := median(trimmed)
	result.EstimatedMarketValue = emv
	result.BMVPercent = bmvPercent(asset.AskingPrice, emv)
	return result
}

func salePrices(sales []compstore.ComparableSale) []int {
	prices := make([]int, len(sales))
	for i, s := range sales {
		prices[i] = s.SalePrice
	}
	return prices
}

// trimOutliers drops the bottom and top decile of prices, scaling with n
// rather than always dropping a single value from each tail. Below
// minForTrimming nothing is dropped; from minForTrimming up to n=9, n/10
// rounds to zero, so exactly one value is dropped from each tail instead
// (spec.md section 9, open question 2; matches
// the original's `bottom_cutoff`/`top_cutoff` int(n/10) with its
// zero-cutoff special case).
func trimOutliers(prices []int) ([]int, int) {
	if len(prices) < minForTrimming {
		return append([]int(nil), prices...), 0
	}

	sorted := append([]int(nil), prices...)
	sort.Ints(sorted)

	n := len(sorted)
	cutoff := n / 10
	if cutoff == 0 {
		cutoff = 1
	}

	cleaned := sorted[cutoff : n-cutoff]
	return cleaned, n - len(cleaned)
}

// median computes the median of prices as a float64, so an even-count set
// keeps the fractional average of its two middle prices rather than
// truncating it — the spec's "rounded only for display, not internally"
// rule (spec.md section 4.4). prices must be non-empty; the caller sorts
// as a side effect of trimOutliers, but median re-sorts defensively since
// it may be called on an untrimmed set too.
func median(prices []int) float64 {
	sorted := append([]int(nil), prices...)
	sort.Ints(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}

// bmvPercent computes the below-market-value percentage: how far below
// (positive) or above (negative) the EMV the asking price sits.
func bmvPercent(askingPrice int, emv float64) float64 {
	if emv == 0 {
		return 0
	}
	return ((emv - float64(askingPrice)) / emv) * 100
}
