package compstore

import (
	"sort"
	"time"

	"github.com/axisproperty/dealengine/internal/geocode"
	"github.com/axisproperty/dealengine/internal/schema"
)

// Selector picks the comparable sales relevant to a given asset by walking
// the fixed fallback levels in order, stopping at the first level that
// yields at least one comp (spec.md section 4.3).
type Selector struct {
	index *Index
}

// NewSelector builds a Selector backed by index.
func NewSelector(index *Index) *Selector {
	return &Selector{index: index}
}

// Select finds comparables for asset. PropertyType and Tenure must match
// exactly at every level — there is no "similar type" fuzzy match (spec.md
// section 3, exact-match comps). A comp older than the 24-month hard
// filter is never considered, even at the widest fallback level.
func (s *Selector) Select(asset schema.ValidatedAsset, now time.Time) Selection {
	assetLat, assetLon, ok := resolveCoordinates(asset)
	if !ok {
		return Selection{Level: Level6}
	}

	hardCutoff := now.AddDate(0, -maxAgeMonths, 0)
	candidates := s.index.FindExactMatch(asset.PropertyType, asset.Tenure)

	eligible := make([]ComparableSale, 0, len(candidates))
	for _, c := range candidates {
		if c.SaleDate.Before(hardCutoff) {
			continue
		}
		eligible = append(eligible, c)
	}

	for _, lp := range fallbackLevels {
		windowCutoff := now.AddDate(0, -lp.windowMonths, 0)

		matched := make([]ComparableSale, 0, len(eligible))
		for _, c := range eligible {
			if c.SaleDate.Before(windowCutoff) {
				continue
			}
			dist := HaversineMiles(assetLat, assetLon, c.Latitude, c.Longitude)
			if dist > lp.radiusMiles {
				continue
			}
			matched = append(matched, c)
		}

		if len(matched) > 0 {
			sortComparables(asset, matched)
			return Selection{Sales: matched, Level: lp.level}
		}
	}

	return Selection{Level: Level6}
}

// resolveCoordinates returns the coordinates to select comps from: the
// asset's own geocoded lat/long if present, else its postcode centroid
// (spec.md section 4.3, "... else from postcode centroid"). ok is false
// only when neither is available, e.g. an empty postcode.
func resolveCoordinates(asset schema.ValidatedAsset) (lat, lon float64, ok bool) {
	if asset.Latitude != nil && asset.Longitude != nil {
		return *asset.Latitude, *asset.Longitude, true
	}
	return geocode.Resolve(asset.Postcode)
}

// sortComparables orders matched sales deterministically: same postcode
// district as the asset first, then by sale date descending (most recent
// evidence first), then by sale_id ascending as a final tie-break.
func sortComparables(asset schema.ValidatedAsset, sales []ComparableSale) {
	district := asset.PostcodeDistrict()

	sort.SliceStable(sales, func(i, j int) bool {
		iSame := samePostcodeDistrict(sales[i].Postcode, district)
		jSame := samePostcodeDistrict(sales[j].Postcode, district)
		if iSame != jSame {
			return iSame
		}
		if !sales[i].SaleDate.Equal(sales[j].SaleDate) {
			return sales[i].SaleDate.After(sales[j].SaleDate)
		}
		return sales[i].SaleID < sales[j].SaleID
	})
}

func samePostcodeDistrict(postcode, district string) bool {
	if district == "" {
		return false
	}
	return len(postcode) >= len(district) && postcode[:len(district)] == district
}
