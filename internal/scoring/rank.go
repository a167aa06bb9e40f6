package scoring

import "sort"

// Ranked pairs a Scored asset with its 1-indexed rank after sorting.
type Ranked struct {
	Scored
	AssetID string
	Rank    int
}

// RankInput is the minimal pair of (asset id, scored result) the ranker
// needs — kept separate from Scored so callers don't have to thread
// ValidatedAsset through this package.
type RankInput struct {
	AssetID     string
	Scored      Scored
	AskingPrice int
}

// Rank sorts inputs by overall DESC, then bmv% DESC, then asking_price
// ASC, using a stable sort so ties preserve input order (spec.md section
// 4.6, section 8 invariant 9).
func Rank(inputs []RankInput) []Ranked {
	sorted := append([]RankInput(nil), inputs...)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Scored.Overall != b.Scored.Overall {
			return a.Scored.Overall > b.Scored.Overall
		}
		if a.Scored.BMVPercent != b.Scored.BMVPercent {
			return a.Scored.BMVPercent > b.Scored.BMVPercent
		}
		return a.AskingPrice < b.AskingPrice
	})

	ranked := make([]Ranked, len(sorted))
	for i, r := range sorted {
		ranked[i] = Ranked{Scored: r.Scored, AssetID: r.AssetID, Rank: i + 1}
	}
	return ranked
}
