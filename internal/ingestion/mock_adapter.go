package ingestion

import (
	"context"
	"time"

	"github.com/axisproperty/dealengine/internal/schema"
)

// MockAdapter serves a fixed, in-memory set of listings. It exists for
// local development and tests, standing in for a real source integration
// without any network or browser dependency.
type MockAdapter struct {
	sourceID  string
	fixtures  []schema.RawListing
}

// NewMockAdapter builds a MockAdapter that always returns fixtures,
// tagged with sourceID.
func NewMockAdapter(sourceID string, fixtures []schema.RawListing) *MockAdapter {
	for i := range fixtures {
		fixtures[i].SourceID = sourceID
	}
	return &MockAdapter{sourceID: sourceID, fixtures: fixtures}
}

func (m *MockAdapter) SourceID() string { return m.sourceID }

func (m *MockAdapter) FetchListings(ctx context.Context, since *time.Time) ([]schema.RawListing, error) {
	if since == nil {
		return append([]schema.RawListing(nil), m.fixtures...), nil
	}

	out := make([]schema.RawListing, 0, len(m.fixtures))
	for _, l := range m.fixtures {
		if !l.ListingDate.Before(*since) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MockAdapter) FetchSingle(ctx context.Context, sourceListingID string) (schema.RawListing, bool, error) {
	for _, l := range m.fixtures {
		if l.SourceListingID == sourceListingID {
			return l, true, nil
		}
	}
	return schema.RawListing{}, false, nil
}
