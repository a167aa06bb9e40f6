// Package pipeline orchestrates the full C2→C9 Deal Engine run across a
// batch of assets, bounded to a fixed worker count.
package pipeline

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/axisproperty/dealengine/internal/audit"
	"github.com/axisproperty/dealengine/internal/classify"
	"github.com/axisproperty/dealengine/internal/compstore"
	"github.com/axisproperty/dealengine/internal/confidence"
	"github.com/axisproperty/dealengine/internal/logging"
	"github.com/axisproperty/dealengine/internal/market"
	"github.com/axisproperty/dealengine/internal/schema"
	"github.com/axisproperty/dealengine/internal/scoring"
	"golang.org/x/sync/semaphore"
)

// Result is one asset's full pipeline output: the classified opportunity
// plus its audit trail.
type Result struct {
	Opportunity classify.Opportunity
	Trail       audit.Trail
}

// Pipeline runs the C2→C9 stages over a batch of already-validated assets.
// Ingestion (C2) and structural validation (C3) happen upstream, in
// internal/ingestion and internal/validate — by the time assets reach
// here they are ValidatedAsset values.
type Pipeline struct {
	selector         *compstore.Selector
	targetBMVPercent float64
	workers          int64
	logger           *logging.Logger
}

// New builds a Pipeline bounded to workers concurrent assets.
func New(selector *compstore.Selector, targetBMVPercent float64, workers int, logger *logging.Logger) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{selector: selector, targetBMVPercent: targetBMVPercent, workers: int64(workers), logger: logger}
}

// Run processes every asset, returning one Result per asset sorted by
// AssetID — the pipeline's internal concurrency never affects output
// order or content (spec.md section 8, determinism invariant).
func (p *Pipeline) Run(ctx context.Context, assets []schema.ValidatedAsset, now time.Time) ([]Result, error) {
	sem := semaphore.NewWeighted(p.workers)
	results := make([]Result, len(assets))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, asset := range assets {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		i, asset := i, asset
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			if ctx.Err() != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = ctx.Err()
				}
				mu.Unlock()
				return
			}

			results[i] = p.processOne(asset, now)
		}()
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	applyRanks(assets, results)

	sort.Slice(results, func(i, j int) bool {
		return results[i].Opportunity.AssetID < results[j].Opportunity.AssetID
	})

	return results, nil
}

// applyRanks assigns each result's 1-indexed rank across the whole batch
// (spec.md section 4.6), ordered by overall score, then bmv%, then asking
// price — the same tie-break scoring.Rank uses. results and assets share
// index i, since Run populates results[i] from assets[i] before any
// reordering.
func applyRanks(assets []schema.ValidatedAsset, results []Result) {
	inputs := make([]scoring.RankInput, len(results))
	for i, r := range results {
		inputs[i] = scoring.RankInput{
			AssetID:     r.Opportunity.AssetID,
			Scored:      r.Opportunity.Scored,
			AskingPrice: assets[i].AskingPrice,
		}
	}

	ranks := make(map[string]int, len(inputs))
	for _, ranked := range scoring.Rank(inputs) {
		ranks[ranked.AssetID] = ranked.Rank
	}

	for i := range results {
		results[i].Opportunity.Rank = ranks[results[i].Opportunity.AssetID]
	}
}

func (p *Pipeline) processOne(asset schema.ValidatedAsset, now time.Time) Result {
	selection := p.selector.Select(asset, now)
	analysis := market.Analyze(asset, selection)
	gated := confidence.Gate(analysis)
	scored := scoring.Score(asset, gated, now, p.targetBMVPercent)
	opportunity := classify.Classify(asset.AssetID, scored)
	trail := audit.Assemble(asset, selection, opportunity, now)

	return Result{Opportunity: opportunity, Trail: trail}
}
