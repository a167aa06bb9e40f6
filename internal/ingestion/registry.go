package ingestion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/axisproperty/dealengine/internal/logging"
	"github.com/axisproperty/dealengine/internal/schema"
	"golang.org/x/time/rate"
)

// SourceRegistration binds an Adapter to its rate limit and category, and
// tracks whether the source is currently enabled.
type SourceRegistration struct {
	Adapter  Adapter
	Category schema.SourceCategory
	Limiter  *rate.Limiter
	Active   bool
}

// Registry holds every known source and drives a fan-out fetch across all
// of them, respecting each source's own rate limit.
type Registry struct {
	logger *logging.Logger

	mu    sync.RWMutex
	regs  map[string]*SourceRegistration
}

// NewRegistry builds an empty Registry.
func NewRegistry(logger *logging.Logger) *Registry {
	return &Registry{logger: logger, regs: make(map[string]*SourceRegistration)}
}

// Register adds or replaces a source. ratePerSecond is the sustained
// request rate; burst allows short spikes above that rate.
func (r *Registry) Register(adapter Adapter, category schema.SourceCategory, ratePerSecond float64, burst int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.regs[adapter.SourceID()] = &SourceRegistration{
		Adapter:  adapter,
		Category: category,
		Limiter:  rate.NewLimiter(rate.Limit(ratePerSecond), burst),
		Active:   true,
	}
}

// Deactivate disables a source without removing its registration. A
// deactivated source is skipped by FetchAll.
func (r *Registry) Deactivate(sourceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg, ok := r.regs[sourceID]; ok {
		reg.Active = false
	}
}

// Active returns the source IDs currently enabled, in registration order
// is not guaranteed — callers that need deterministic ordering must sort.
func (r *Registry) Active() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.regs))
	for id, reg := range r.regs {
		if reg.Active {
			ids = append(ids, id)
		}
	}
	return ids
}

// FetchResult is one source's contribution to a FetchAll call.
type FetchResult struct {
	SourceID string
	Listings []schema.RawListing
	Err      error
}

// FetchAll runs FetchListings against every active source, honouring each
// source's rate limiter before the call. Sources are queried sequentially
// per adapter but the set of adapters itself has no implied output order —
// callers needing determinism must sort by SourceID before further
// processing (spec.md section 8, determinism invariant).
func (r *Registry) FetchAll(ctx context.Context, since *time.Time) []FetchResult {
	r.mu.RLock()
	regs := make(map[string]*SourceRegistration, len(r.regs))
	for id, reg := range r.regs {
		regs[id] = reg
	}
	r.mu.RUnlock()

	results := make([]FetchResult, 0, len(regs))
	for id, reg := range regs {
		if !reg.Active {
			continue
		}

		if err := reg.Limiter.Wait(ctx); err != nil {
			results = append(results, FetchResult{SourceID: id, Err: fmt.Errorf("rate limiter: %w", err)})
			continue
		}

		listings, err := reg.Adapter.FetchListings(ctx, since)
		if err != nil {
			r.logger.Warn("ingestion: source %s fetch failed: %v", id, err)
		}
		results = append(results, FetchResult{SourceID: id, Listings: listings, Err: err})
	}
	return results
}
