package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// assetNamespace is a fixed namespace UUID used to derive deterministic,
// collision-resistant asset_ids from (source_id, source_listing_id) via
// uuid.NewSHA1 — never a raw concatenation of source identifiers.
var assetNamespace = uuid.MustParse("6f6a6d1e-6f2b-4a9a-9c1e-2f6a6d1e6f2b")

// RawListing is the stage-1 input from a source adapter, before
// normalisation. No estimated values are ever accepted on this type — if a
// source supplies one, the adapter discards it before constructing this
// struct.
type RawListing struct {
	SourceID     string
	SourceName   string
	Address      string
	Postcode     string
	PropertyType string // raw, source-supplied string
	Tenure       string // raw, source-supplied string
	AskingPrice  int
	Bedrooms     *int
	Bathrooms    *int
	ListingDate  time.Time
	ListingURL   string

	// SourceListingID identifies this record within its source, used for
	// asset_id derivation and rejection records.
	SourceListingID string
}

// SourceCategory classifies the kind of data source a listing came from.
type SourceCategory string

const (
	SourceCategoryAuction      SourceCategory = "auction"
	SourceCategoryReceivership SourceCategory = "receivership"
	SourceCategoryDistressed   SourceCategory = "distressed"
	SourceCategoryOther        SourceCategory = "other"
)

// SourceMetadata is source-specific information that must never be read by
// scoring or recommendation logic. It exists purely for provenance and the
// audit trail (spec.md section 3, "Exact-match comps" / "Source-neutral
// scoring" design notes).
type SourceMetadata struct {
	SourceID        string
	SourceName      string
	SourceListingID string
	SourceURL       string
	SourceCategory  SourceCategory
	ScrapedAt       time.Time
}

// ValidatedAsset is the immutable, canonical, post-validation property
// record. It is the ONLY schema that enters the Deal Engine pipeline.
//
// Invariants: asset_id is globally unique and immutable; property_type and
// tenure are each exactly one normalised value; asking_price > 0; no field
// on this type ever carries an estimated value, BMV%, score, or
// recommendation — those are computed downstream and live on separate
// types (MarketAnalysis, ScoredAsset, ClassifiedOpportunity).
type ValidatedAsset struct {
	AssetID string

	Address  string
	Postcode string
	City     string
	Area     string // optional; empty string means absent

	PropertyType PropertyType
	Tenure       Tenure

	Bedrooms    *int
	Bathrooms   *int
	SquareFeet  *int
	PlotAcres   *float64
	Latitude    *float64
	Longitude   *float64

	AskingPrice    int
	PriceQualifier string // optional

	ListingStatus ListingStatus
	ListingDate   time.Time

	Source SourceMetadata

	ValidatedAt   time.Time
	SchemaVersion string
}

// DaysOnMarket is derived from ListingDate relative to now; never stored,
// always computed.
func (a ValidatedAsset) DaysOnMarket(now time.Time) int {
	days := int(now.Sub(a.ListingDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// PostcodeDistrict extracts the outward code (e.g. "SW1A" from "SW1A 1AA").
func (a ValidatedAsset) PostcodeDistrict() string {
	parts := strings.Fields(strings.ToUpper(a.Postcode))
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// PostcodeSector extracts the sector (e.g. "SW1A 1" from "SW1A 1AA").
func (a ValidatedAsset) PostcodeSector() string {
	parts := strings.Fields(strings.ToUpper(a.Postcode))
	if len(parts) != 2 || len(parts[1]) < 1 {
		return a.PostcodeDistrict()
	}
	return fmt.Sprintf("%s %s", parts[0], parts[1][:1])
}

// GenerateAssetID derives a deterministic, globally unique asset_id from a
// source identity. Using uuid.NewSHA1 over a fixed namespace means the same
// (sourceID, sourceListingID) pair always yields the same asset_id —
// satisfying the idempotent-normalisation invariant (spec.md section 8,
// property 1) — without embedding raw source identifiers in the id itself.
func GenerateAssetID(sourceID, sourceListingID string) string {
	name := sourceID + "|" + sourceListingID
	id := uuid.NewSHA1(assetNamespace, []byte(name))
	return "va-" + id.String()
}
