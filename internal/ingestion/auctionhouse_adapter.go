package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/axisproperty/dealengine/internal/logging"
	"github.com/axisproperty/dealengine/internal/schema"
)

// auctionLot is the wire shape returned by an auction house's lot listing
// endpoint. Field names mirror what such feeds typically expose; adapters
// for a specific house translate their own payload shape into this one
// before handing it to the fetch pipeline below.
type auctionLot struct {
	LotID       string  `json:"lot_id"`
	Address     string  `json:"address"`
	Postcode    string  `json:"postcode"`
	PropertyType string `json:"property_type"`
	Tenure      string  `json:"tenure"`
	GuidePrice  int     `json:"guide_price"`
	Bedrooms    *int    `json:"bedrooms,omitempty"`
	AuctionDate string  `json:"auction_date"`
	LotURL      string  `json:"lot_url"`
}

// AuctionHouseAdapter fetches lots from an auction house's public catalogue
// feed via an injected Fetcher, keeping this package free of any concrete
// HTTP client or browser dependency.
type AuctionHouseAdapter struct {
	sourceID   string
	sourceName string
	catalogueURL string
	fetcher    Fetcher
	retry      *RetryConfig
	logger     *logging.Logger
}

// NewAuctionHouseAdapter builds an adapter for a single auction house's
// catalogue feed.
func NewAuctionHouseAdapter(sourceID, sourceName, catalogueURL string, fetcher Fetcher, logger *logging.Logger) *AuctionHouseAdapter {
	return &AuctionHouseAdapter{
		sourceID:     sourceID,
		sourceName:   sourceName,
		catalogueURL: catalogueURL,
		fetcher:      fetcher,
		retry: &RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		logger: logger,
	}
}

func (a *AuctionHouseAdapter) SourceID() string { return a.sourceID }

func (a *AuctionHouseAdapter) FetchListings(ctx context.Context, since *time.Time) ([]schema.RawListing, error) {
	var lots []auctionLot

	err := a.retry.Do("fetch-catalogue", func() error {
		body, err := a.fetcher.Fetch(ctx, a.catalogueURL)
		if err != nil {
			return fmt.Errorf("fetch catalogue: %w", err)
		}
		lots = nil
		return json.Unmarshal(body, &lots)
	})
	if err != nil {
		return nil, err
	}

	listings := make([]schema.RawListing, 0, len(lots))
	for _, lot := range lots {
		raw, ok := a.toRawListing(lot)
		if !ok {
			continue
		}
		if since != nil && raw.ListingDate.Before(*since) {
			continue
		}
		listings = append(listings, raw)
	}
	return listings, nil
}

func (a *AuctionHouseAdapter) FetchSingle(ctx context.Context, sourceListingID string) (schema.RawListing, bool, error) {
	listings, err := a.FetchListings(ctx, nil)
	if err != nil {
		return schema.RawListing{}, false, err
	}
	for _, l := range listings {
		if l.SourceListingID == sourceListingID {
			return l, true, nil
		}
	}
	return schema.RawListing{}, false, nil
}

func (a *AuctionHouseAdapter) toRawListing(lot auctionLot) (schema.RawListing, bool) {
	auctionDate, err := time.Parse("2006-01-02", lot.AuctionDate)
	if err != nil {
		a.logger.Warn("ingestion: %s lot %s has unparsable auction_date %q, skipping",
			a.sourceID, lot.LotID, lot.AuctionDate)
		return schema.RawListing{}, false
	}

	return schema.RawListing{
		SourceID:        a.sourceID,
		SourceName:      a.sourceName,
		SourceListingID: lot.LotID,
		Address:         lot.Address,
		Postcode:        lot.Postcode,
		PropertyType:    lot.PropertyType,
		Tenure:          lot.Tenure,
		AskingPrice:     lot.GuidePrice,
		Bedrooms:        lot.Bedrooms,
		ListingDate:     auctionDate,
		ListingURL:      lot.LotURL,
	}, true
}
