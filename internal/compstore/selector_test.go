package compstore

import (
	"testing"
	"time"

	"github.com/axisproperty/dealengine/internal/schema"
	"github.com/stretchr/testify/require"
)

func lat(v float64) *float64 { return &v }

func TestHaversineZeroDistance(t *testing.T) {
	require.InDelta(t, 0.0, HaversineMiles(51.5, -0.14, 51.5, -0.14), 0.0001)
}

func TestHaversineKnownDistance(t *testing.T) {
	// Roughly London to Brighton, ~47 miles.
	d := HaversineMiles(51.5074, -0.1278, 50.8225, -0.1372)
	require.InDelta(t, 47.0, d, 6.0)
}

func TestSelectorFindsLevel1Comps(t *testing.T) {
	now := time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC)
	sales := make([]ComparableSale, 0, 4)
	for i := 0; i < 4; i++ {
		sales = append(sales, ComparableSale{
			SaleID:       "sale-" + string(rune('a'+i)),
			Postcode:     "SW1A 1AA",
			PropertyType: schema.PropertyTypeFlat,
			Tenure:       schema.TenureLeasehold,
			Latitude:     51.5,
			Longitude:    -0.14,
			SalePrice:    300_000 + i*1000,
			SaleDate:     now.AddDate(0, -1, 0),
		})
	}

	index := NewIndex(sales)
	selector := NewSelector(index)

	asset := schema.ValidatedAsset{
		Postcode:     "SW1A 1AA",
		PropertyType: schema.PropertyTypeFlat,
		Tenure:       schema.TenureLeasehold,
		Latitude:     lat(51.5),
		Longitude:    lat(-0.14),
	}

	sel := selector.Select(asset, now)
	require.Equal(t, Level1, sel.Level)
	require.Len(t, sel.Sales, 4)
}

func TestSelectorFallsBackWhenNoNearbyComps(t *testing.T) {
	now := time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC)
	// About 0.8 miles north of the asset: outside level 1's 0.5 mi radius,
	// inside level 2's 1.0 mi radius.
	sales := []ComparableSale{
		{
			SaleID: "sale-far", Postcode: "E1 6AN", PropertyType: schema.PropertyTypeFlat,
			Tenure: schema.TenureLeasehold, Latitude: 51.5115, Longitude: -0.14,
			SalePrice: 310_000, SaleDate: now.AddDate(0, -2, 0),
		},
	}

	index := NewIndex(sales)
	selector := NewSelector(index)

	asset := schema.ValidatedAsset{
		Postcode:     "SW1A 1AA",
		PropertyType: schema.PropertyTypeFlat,
		Tenure:       schema.TenureLeasehold,
		Latitude:     lat(51.5),
		Longitude:    lat(-0.14),
	}

	sel := selector.Select(asset, now)
	require.Greater(t, int(sel.Level), int(Level1))
	require.Len(t, sel.Sales, 1)
}

func TestSelectorHardFilterExcludesOlderThan24Months(t *testing.T) {
	now := time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC)
	sales := []ComparableSale{
		{
			SaleID: "sale-stale", Postcode: "SW1A 1AA", PropertyType: schema.PropertyTypeFlat,
			Tenure: schema.TenureLeasehold, Latitude: 51.5, Longitude: -0.14,
			SalePrice: 310_000, SaleDate: now.AddDate(0, -30, 0),
		},
	}

	index := NewIndex(sales)
	selector := NewSelector(index)

	asset := schema.ValidatedAsset{
		Postcode:     "SW1A 1AA",
		PropertyType: schema.PropertyTypeFlat,
		Tenure:       schema.TenureLeasehold,
		Latitude:     lat(51.5),
		Longitude:    lat(-0.14),
	}

	sel := selector.Select(asset, now)
	require.Empty(t, sel.Sales)
	require.Equal(t, Level6, sel.Level)
}

func TestSelectorEmptyPostcodeAndNoCoordinatesYieldsNoComps(t *testing.T) {
	index := NewIndex(nil)
	selector := NewSelector(index)

	sel := selector.Select(schema.ValidatedAsset{}, time.Now())
	require.Empty(t, sel.Sales)
	require.Equal(t, Level6, sel.Level)
}

func TestSelectorFallsBackToPostcodeCentroidWithoutCoordinates(t *testing.T) {
	now := time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC)
	sales := []ComparableSale{
		{
			SaleID: "sale-near", Postcode: "SW1A 1AB", PropertyType: schema.PropertyTypeFlat,
			Tenure: schema.TenureLeasehold, Latitude: 51.5010, Longitude: -0.1415,
			SalePrice: 305_000, SaleDate: now.AddDate(0, -1, 0),
		},
	}

	index := NewIndex(sales)
	selector := NewSelector(index)

	// No Latitude/Longitude set — the selector must derive coordinates
	// from the postcode's centroid instead of returning no comps.
	asset := schema.ValidatedAsset{
		Postcode:     "SW1A 1AA",
		PropertyType: schema.PropertyTypeFlat,
		Tenure:       schema.TenureLeasehold,
	}

	sel := selector.Select(asset, now)
	require.Equal(t, Level1, sel.Level)
	require.Len(t, sel.Sales, 1)
}

func TestIndexFindExactMatchIsTypeAndTenureScoped(t *testing.T) {
	idx := NewIndex([]ComparableSale{
		{SaleID: "1", PropertyType: schema.PropertyTypeFlat, Tenure: schema.TenureLeasehold},
		{SaleID: "2", PropertyType: schema.PropertyTypeTerraced, Tenure: schema.TenureFreehold},
	})

	matches := idx.FindExactMatch(schema.PropertyTypeFlat, schema.TenureLeasehold)
	require.Len(t, matches, 1)
	require.Equal(t, "1", matches[0].SaleID)
}
