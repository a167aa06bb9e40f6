// Package validate implements the structural validator (spec.md section
// 4.2, C3): field-presence and range rules applied in a fixed order, first
// failure rejects.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/axisproperty/dealengine/internal/schema"
)

const (
	minAskingPrice = 10_000
	maxAskingPrice = 50_000_000
	staleAfterDays = 365
)

// ukPostcodeRE matches the standard UK postcode formats: AA9A 9AA, A9A 9AA,
// A9 9AA, A99 9AA, AA9 9AA, AA99 9AA.
var ukPostcodeRE = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]?\s?[0-9][A-Z]{2}$`)

// ValidateUKPostcode reports whether postcode matches a recognised UK
// format, case-insensitive, tolerant of irregular internal spacing.
func ValidateUKPostcode(postcode string) bool {
	if postcode == "" {
		return false
	}
	normalised := strings.Join(strings.Fields(strings.ToUpper(postcode)), " ")
	return ukPostcodeRE.MatchString(normalised)
}

// NormalisePostcode collapses a postcode to "OUTWARD INWARD" with exactly
// one separating space.
func NormalisePostcode(postcode string) string {
	clean := strings.ToUpper(strings.ReplaceAll(postcode, " ", ""))
	if len(clean) < 4 {
		return clean
	}
	return clean[:len(clean)-3] + " " + clean[len(clean)-3:]
}

// Result is either a ValidatedAsset (Accepted true) or a RejectionRecord
// (Accepted false). Exactly one of Asset/Rejection is populated.
type Result struct {
	Accepted  bool
	Asset     schema.ValidatedAsset
	Rejection schema.RejectionRecord
}

// Validator applies the ordered V-001..V-008 structural rules.
type Validator struct {
	tables schema.NormaliseTable // property_type synonym table
	tenure schema.NormaliseTable // tenure synonym table
	now    func() time.Time
}

// New builds a Validator using the given shared normalisation tables
// (spec.md section 9, open question 4 — scraped listings and bridged
// submissions both pass through this one validator).
func New(propertyTypeTable, tenureTable schema.NormaliseTable) *Validator {
	return &Validator{tables: propertyTypeTable, tenure: tenureTable, now: time.Now}
}

// Validate applies V-001 through V-008, in order, to raw. The first rule
// that fails produces a rejection; a raw listing that passes all eight
// rules becomes an immutable ValidatedAsset.
func (v *Validator) Validate(raw schema.RawListing, city string) Result {
	now := v.now().UTC()

	// V-001: missing required fields.
	if err := v.checkRequired(raw); err != "" {
		return v.reject(raw, schema.RejectionMissingRequiredField, err)
	}

	// V-002: postcode format.
	if !ValidateUKPostcode(raw.Postcode) {
		return v.reject(raw, schema.RejectionInvalidPostcode,
			fmt.Sprintf("postcode %q is not a valid UK postcode", raw.Postcode))
	}

	// V-003: property_type normalisation.
	propertyType, ok := schema.NormalisePropertyType(raw.PropertyType, v.tables)
	if !ok {
		return v.reject(raw, schema.RejectionUnmappedPropertyType,
			fmt.Sprintf("property_type %q has no mapping to a normalised value", raw.PropertyType))
	}

	// V-004: tenure normalisation.
	tenure, ok := schema.NormaliseTenure(raw.Tenure, v.tenure)
	if !ok {
		return v.reject(raw, schema.RejectionUnmappedTenure,
			fmt.Sprintf("tenure %q has no mapping to a normalised value", raw.Tenure))
	}

	// V-005: price below threshold.
	if raw.AskingPrice < minAskingPrice {
		return v.reject(raw, schema.RejectionPriceBelowThreshold,
			fmt.Sprintf("asking_price %d below minimum threshold %d", raw.AskingPrice, minAskingPrice))
	}

	// V-006: price above threshold.
	if raw.AskingPrice > maxAskingPrice {
		return v.reject(raw, schema.RejectionPriceAboveThreshold,
			fmt.Sprintf("asking_price %d above maximum threshold %d", raw.AskingPrice, maxAskingPrice))
	}

	// V-007: future listing date.
	if raw.ListingDate.After(now) {
		return v.reject(raw, schema.RejectionFutureListingDate,
			fmt.Sprintf("listing_date %s is in the future", raw.ListingDate.Format(time.RFC3339)))
	}

	// V-008: stale listing.
	if now.Sub(raw.ListingDate) > staleAfterDays*24*time.Hour {
		return v.reject(raw, schema.RejectionStaleListing,
			fmt.Sprintf("listing_date %s is older than %d days", raw.ListingDate.Format(time.RFC3339), staleAfterDays))
	}

	asset := schema.ValidatedAsset{
		AssetID:      schema.GenerateAssetID(raw.SourceID, raw.SourceListingID),
		Address:      strings.TrimSpace(raw.Address),
		Postcode:     NormalisePostcode(raw.Postcode),
		City:         city,
		PropertyType: propertyType,
		Tenure:       tenure,
		Bedrooms:     raw.Bedrooms,
		Bathrooms:    raw.Bathrooms,
		AskingPrice:  raw.AskingPrice,
		ListingStatus: schema.ListingStatusActive,
		ListingDate:   raw.ListingDate,
		Source: schema.SourceMetadata{
			SourceID:        raw.SourceID,
			SourceName:      raw.SourceName,
			SourceListingID: raw.SourceListingID,
			SourceURL:       raw.ListingURL,
		},
		ValidatedAt:   now,
		SchemaVersion: "1.0",
	}

	return Result{Accepted: true, Asset: asset}
}

func (v *Validator) checkRequired(raw schema.RawListing) string {
	if strings.TrimSpace(raw.Address) == "" {
		return "address is required"
	}
	if strings.TrimSpace(raw.Postcode) == "" {
		return "postcode is required"
	}
	if strings.TrimSpace(raw.PropertyType) == "" {
		return "property_type is required"
	}
	if strings.TrimSpace(raw.Tenure) == "" {
		return "tenure is required"
	}
	if raw.AskingPrice == 0 {
		return "asking_price is required"
	}
	if raw.ListingDate.IsZero() {
		return "listing_date is required"
	}
	if strings.TrimSpace(raw.ListingURL) == "" {
		return "listing_url is required"
	}
	return ""
}

func (v *Validator) reject(raw schema.RawListing, code schema.RejectionCode, reason string) Result {
	rec := schema.NewRejectionRecord(raw.SourceID, raw.SourceListingID, code, reason, raw)
	return Result{Accepted: false, Rejection: rec}
}
