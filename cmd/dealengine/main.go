// Command dealengine wires together the full C2→C12 Deal Engine: source
// ingestion, structural validation, comparable selection, market analysis,
// confidence gating, scoring, classification, audit trails, and the
// submission logbook/document store.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/axisproperty/dealengine/internal/compstore"
	"github.com/axisproperty/dealengine/internal/config"
	"github.com/axisproperty/dealengine/internal/documents"
	"github.com/axisproperty/dealengine/internal/ingestion"
	"github.com/axisproperty/dealengine/internal/intake"
	"github.com/axisproperty/dealengine/internal/logbook"
	"github.com/axisproperty/dealengine/internal/logging"
	"github.com/axisproperty/dealengine/internal/persistence"
	"github.com/axisproperty/dealengine/internal/pipeline"
	"github.com/axisproperty/dealengine/internal/schema"
	"github.com/axisproperty/dealengine/internal/validate"
)

const targetBMVPercent = 15.0

func main() {
	logger := logging.New()
	defer logger.Sync()

	cfg := config.Load()
	logger.Info("=== Deal Engine starting ===")
	logger.Info("Config — pipeline workers: %d | source rate limit: %.1f/s | documents: %s",
		cfg.PipelineWorkers, cfg.SourceRateLimit, cfg.DocumentRoot)

	tables, err := config.LoadNormaliseTables(cfg.NormaliseTables)
	if err != nil {
		logger.Warn("Falling back to built-in normalisation tables: %v", err)
		tables = config.DefaultNormaliseTables()
	}

	registry := ingestion.NewRegistry(logger)
	registry.Register(
		ingestion.NewMockAdapter("auction-house-london", sampleListings()),
		schema.SourceCategoryAuction,
		cfg.SourceRateLimit, 10,
	)

	now := time.Now().UTC()
	fetched := registry.FetchAll(context.Background(), nil)

	validator := validate.New(tables.PropertyType, tables.Tenure)
	var assets []schema.ValidatedAsset
	var rejections []schema.RejectionRecord

	for _, result := range fetched {
		if result.Err != nil {
			logger.Warn("Source %s failed: %v", result.SourceID, result.Err)
			continue
		}
		for _, raw := range result.Listings {
			v := validator.Validate(raw, "London")
			if v.Accepted {
				assets = append(assets, v.Asset)
			} else {
				rejections = append(rejections, v.Rejection)
			}
		}
	}

	bridge := intake.NewBridge(validator, "London")
	if submitted := demoSubmission(cfg, logger); submitted != nil {
		v := bridge.Convert(submitted)
		if v.Accepted {
			assets = append(assets, v.Asset)
		} else {
			rejections = append(rejections, v.Rejection)
		}
	}

	logger.Info("Validated %d assets, rejected %d", len(assets), len(rejections))
	for _, r := range rejections {
		logger.Debug("Rejected %s/%s: %s (%s)", r.SourceID, r.SourceListingID, r.RejectionCode, r.Reason)
	}

	repo, err := compstore.NewRepository(cfg.DSN())
	var sales []compstore.ComparableSale
	if err != nil {
		logger.Warn("Comparable-sale database unavailable, continuing with no comparables: %v", err)
	} else {
		defer repo.Close()
		sales, err = repo.FetchAll()
		if err != nil {
			logger.Warn("Failed to load comparable sales: %v", err)
		}
	}

	index := compstore.NewIndex(sales)
	selector := compstore.NewSelector(index)

	p := pipeline.New(selector, targetBMVPercent, cfg.PipelineWorkers, logger)
	results, err := p.Run(context.Background(), assets, now)
	if err != nil {
		logger.Error("Pipeline run failed: %v", err)
		os.Exit(1)
	}

	logger.Info("Classified %d opportunities", len(results))
	for _, r := range results {
		fmt.Printf("#%-3d %-36s  %-18s  emv=%-12.2f bmv%%=%6.2f  overall=%6.2f  %s\n",
			r.Opportunity.Rank, r.Opportunity.AssetID, r.Opportunity.Recommendation,
			r.Opportunity.EstimatedMarketValue, r.Opportunity.BMVPercent,
			r.Opportunity.Overall, r.Opportunity.ClassificationReason)
	}

	fmt.Println("\nDone.")
}

// demoSubmission exercises the submission logbook and document store end
// to end, mirroring how the submission portal (an external collaborator,
// outside this engine's scope) would drive them, and returns the resulting
// logbook so its submission can be bridged into the pipeline like any
// other source. Returns nil if the demo submission failed to store.
func demoSubmission(cfg *config.Config, logger *logging.Logger) *logbook.Logbook {
	docStore := documents.NewStore(cfg.DocumentRoot)
	propertyID := logbook.GeneratePropertyID()

	titleDoc, err := docStore.Put(propertyID, documents.DocumentTypeTitleRegister, "title.pdf", samplePDFBytes())
	if err != nil {
		logger.Warn("demo submission: failed to store title register: %v", err)
		return nil
	}
	epcDoc, err := docStore.Put(propertyID, documents.DocumentTypeEPC, "epc.pdf", samplePDFBytes())
	if err != nil {
		logger.Warn("demo submission: failed to store EPC: %v", err)
		return nil
	}
	floorPlanDoc, err := docStore.Put(propertyID, documents.DocumentTypeFloorPlan, "floorplan.pdf", samplePDFBytes())
	if err != nil {
		logger.Warn("demo submission: failed to store floor plan: %v", err)
		return nil
	}

	submission := logbook.Submission{
		FullAddress: "221B Example Street",
		Postcode:    "SW1A 1AA",
		PropertyType: "FLAT",
		Tenure:       "FREEHOLD",
		FloorAreaSqm: 72,
		GuidePrice:   310_000,
		SaleRoute:    logbook.SaleRouteAuction,
		AgentFirm:    "Example Agents",
		AgentName:    "Jane Doe",
		AgentEmail:   "jane@example-agents.test",
		Documents: map[documents.DocumentType]documents.Record{
			documents.DocumentTypeTitleRegister: titleDoc,
			documents.DocumentTypeEPC:            epcDoc,
			documents.DocumentTypeFloorPlan:      floorPlanDoc,
		},
	}

	lb, err := logbook.New(propertyID, submission, time.Now().UTC())
	if err != nil {
		logger.Warn("demo submission: failed to create logbook: %v", err)
		return nil
	}

	store := persistence.NewStore(cfg.SnapshotPath)
	if err := store.Save(map[string]*logbook.Logbook{propertyID: lb}); err != nil {
		logger.Warn("demo submission: failed to persist snapshot: %v", err)
		return nil
	}

	logger.Info("Submission %s created with status %s, snapshot saved to %s", propertyID, lb.CurrentStatus, cfg.SnapshotPath)
	return lb
}

func samplePDFBytes() []byte {
	return []byte("%PDF-1.4\n%...\n1 0 obj\n<< >>\nendobj\ntrailer\n<< >>\n")
}

func sampleListings() []schema.RawListing {
	return []schema.RawListing{
		{
			SourceListingID: "lot-42",
			Address:         "12 Example Street",
			Postcode:        "SW1A 1AA",
			PropertyType:    "flat",
			Tenure:          "leasehold",
			AskingPrice:     300_000,
			ListingDate:     time.Now().Add(-60 * 24 * time.Hour),
			ListingURL:      "https://auction.test/lot-42",
		},
		{
			SourceListingID: "lot-43",
			Address:         "14 Example Street",
			Postcode:        "SW1A 1AB",
			PropertyType:    "terraced",
			Tenure:          "freehold",
			AskingPrice:     500_000,
			ListingDate:     time.Now().Add(-10 * 24 * time.Hour),
			ListingURL:      "https://auction.test/lot-43",
		},
	}
}
