// Package intake bridges a completed submission-portal record into the
// Deal Engine's pipeline input. spec.md section 2 frames a submission as
// "surfaced to the Deal Engine as a read-only ValidatedAsset by versioned
// snapshot" — without this package a submitted property has a logbook and
// a document store entry but never actually reaches C3-C9.
package intake

import (
	"time"

	"github.com/axisproperty/dealengine/internal/logbook"
	"github.com/axisproperty/dealengine/internal/schema"
	"github.com/axisproperty/dealengine/internal/validate"
)

const (
	submissionSourceID   = "submission-portal"
	submissionSourceName = "Submission Portal"
)

// Bridge converts completed submission logbooks into ValidatedAsset
// values, running each one through the same structural validator every
// scraped listing goes through — a submission can never reach scoring
// under looser rules than an ingested one.
type Bridge struct {
	validator *validate.Validator
	city      string
}

// NewBridge builds a Bridge that validates submissions as though they
// were listed in city (spec.md section 4.2's V-rules take a city
// parameter the same way for scraped listings).
func NewBridge(validator *validate.Validator, city string) *Bridge {
	return &Bridge{validator: validator, city: city}
}

// ToRawListing projects a logbook's current submission snapshot into the
// shape the structural validator consumes, mirroring how an ingestion
// adapter's FetchListings output looks before validation. submittedAt is
// the logbook's first-version timestamp, standing in for a scraped
// listing's listing_date.
func ToRawListing(propertyID string, submission logbook.Submission, submittedAt time.Time) schema.RawListing {
	return schema.RawListing{
		SourceID:        submissionSourceID,
		SourceName:      submissionSourceName,
		Address:         submission.FullAddress,
		Postcode:        submission.Postcode,
		PropertyType:    submission.PropertyType,
		Tenure:          submission.Tenure,
		AskingPrice:     submission.GuidePrice,
		Bedrooms:        submission.Bedrooms,
		Bathrooms:       submission.Bathrooms,
		ListingDate:     submittedAt,
		ListingURL:      "internal://submission/" + propertyID,
		SourceListingID: propertyID,
	}
}

// Convert validates lb's current submission snapshot, returning either a
// ValidatedAsset ready for the pipeline or the rejection record explaining
// why it isn't — the same Result shape validate.Validator.Validate
// produces for a scraped listing.
func (b *Bridge) Convert(lb *logbook.Logbook) validate.Result {
	raw := ToRawListing(lb.PropertyID, lb.Current(), lb.Versions[0].Timestamp)
	return b.validator.Validate(raw, b.city)
}
