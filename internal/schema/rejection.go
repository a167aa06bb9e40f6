package schema

import (
	"time"

	"github.com/axisproperty/dealengine/internal/canon"
)

// RejectionCode is a stable, UPPER_SNAKE_CASE token identifying why a
// listing failed normalisation or structural validation (spec.md sections
// 4.1, 4.2, 7).
type RejectionCode string

const (
	RejectionMissingRequiredField RejectionCode = "MISSING_REQUIRED_FIELD"
	RejectionInvalidPostcode      RejectionCode = "INVALID_POSTCODE"
	RejectionUnmappedPropertyType RejectionCode = "UNMAPPED_PROPERTY_TYPE"
	RejectionUnmappedTenure       RejectionCode = "UNMAPPED_TENURE"
	RejectionPriceBelowThreshold  RejectionCode = "PRICE_BELOW_THRESHOLD"
	RejectionPriceAboveThreshold  RejectionCode = "PRICE_ABOVE_THRESHOLD"
	RejectionFutureListingDate    RejectionCode = "FUTURE_LISTING_DATE"
	RejectionStaleListing         RejectionCode = "STALE_LISTING"
)

// RejectionRecord reports a listing that failed normalisation or
// validation. Rejection records are emitted to a side channel — they never
// appear embedded in pipeline output (spec.md section 4.1, section 7).
type RejectionRecord struct {
	SourceID        string
	SourceListingID string
	RejectionCode   RejectionCode
	Reason          string
	RawDataHash     string
	RejectedAt      time.Time
}

// NewRejectionRecord builds a RejectionRecord, hashing rawData (typically
// the adapter's raw source payload) for debugging without retaining the
// payload itself.
func NewRejectionRecord(sourceID, sourceListingID string, code RejectionCode, reason string, rawData any) RejectionRecord {
	hash := "no_data"
	if rawData != nil {
		if h, err := canon.Hash(rawData); err == nil {
			hash = h
		}
	}
	return RejectionRecord{
		SourceID:        sourceID,
		SourceListingID: sourceListingID,
		RejectionCode:   code,
		Reason:          reason,
		RawDataHash:     hash,
		RejectedAt:      time.Now().UTC(),
	}
}
