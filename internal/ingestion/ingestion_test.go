package ingestion

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/axisproperty/dealengine/internal/logging"
	"github.com/axisproperty/dealengine/internal/schema"
	"github.com/stretchr/testify/require"
)

func TestMockAdapterFetchListingsAppliesSince(t *testing.T) {
	old := time.Now().Add(-72 * time.Hour)
	recent := time.Now().Add(-1 * time.Hour)

	adapter := NewMockAdapter("mock-source", []schema.RawListing{
		{SourceListingID: "a", ListingDate: old},
		{SourceListingID: "b", ListingDate: recent},
	})

	cutoff := time.Now().Add(-24 * time.Hour)
	listings, err := adapter.FetchListings(context.Background(), &cutoff)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.Equal(t, "b", listings[0].SourceListingID)
}

func TestMockAdapterFetchSingle(t *testing.T) {
	adapter := NewMockAdapter("mock-source", []schema.RawListing{
		{SourceListingID: "lot-1"},
	})

	listing, ok, err := adapter.FetchSingle(context.Background(), "lot-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "mock-source", listing.SourceID)

	_, ok, err = adapter.FetchSingle(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRegistryFetchAllSkipsDeactivatedSources(t *testing.T) {
	logger := logging.NewNop()
	reg := NewRegistry(logger)

	reg.Register(NewMockAdapter("source-a", []schema.RawListing{{SourceListingID: "1"}}), schema.SourceCategoryAuction, 100, 10)
	reg.Register(NewMockAdapter("source-b", []schema.RawListing{{SourceListingID: "2"}}), schema.SourceCategoryOther, 100, 10)
	reg.Deactivate("source-b")

	results := reg.FetchAll(context.Background(), nil)
	require.Len(t, results, 1)
	require.Equal(t, "source-a", results[0].SourceID)
}

type fixtureFetcher struct {
	body []byte
}

func (f fixtureFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.body, nil
}

func TestAuctionHouseAdapterParsesLots(t *testing.T) {
	lots := []auctionLot{
		{
			LotID:        "lot-7",
			Address:      "1 High Street",
			Postcode:     "SW1A 1AA",
			PropertyType: "terraced",
			Tenure:       "freehold",
			GuidePrice:   180_000,
			AuctionDate:  "2026-07-01",
			LotURL:       "https://auction.test/lot-7",
		},
	}
	body, err := json.Marshal(lots)
	require.NoError(t, err)

	adapter := NewAuctionHouseAdapter("auction-house-london", "Auction House London",
		"https://auction.test/catalogue.json", fixtureFetcher{body: body}, logging.NewNop())

	listings, err := adapter.FetchListings(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.Equal(t, "lot-7", listings[0].SourceListingID)
	require.Equal(t, 180_000, listings[0].AskingPrice)
}

func TestAuctionHouseAdapterSkipsUnparsableDate(t *testing.T) {
	lots := []auctionLot{{LotID: "lot-8", AuctionDate: "not-a-date"}}
	body, err := json.Marshal(lots)
	require.NoError(t, err)

	adapter := NewAuctionHouseAdapter("auction-house-london", "Auction House London",
		"https://auction.test/catalogue.json", fixtureFetcher{body: body}, logging.NewNop())

	listings, err := adapter.FetchListings(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, listings)
}
