// Package ingestion implements the source adapter contract and registry
// (spec.md section 4.1, C2): pulling RawListings from external sources
// under a per-source rate limit, with no normalisation performed here.
package ingestion

import (
	"context"
	"time"

	"github.com/axisproperty/dealengine/internal/schema"
)

// Adapter is implemented by every source integration. An adapter's job ends
// at "raw listing retrieved from the source" — normalisation and
// validation happen downstream, in internal/validate.
type Adapter interface {
	// SourceID is the stable identifier this adapter's listings carry as
	// RawListing.SourceID.
	SourceID() string

	// FetchListings returns every listing available from the source. If
	// since is non-nil, adapters that support incremental fetch should
	// only return listings that changed on or after that time; adapters
	// that cannot support this return the full set.
	FetchListings(ctx context.Context, since *time.Time) ([]schema.RawListing, error)

	// FetchSingle retrieves one listing by source-local id. ok is false
	// if the source has no such listing (e.g. it was withdrawn).
	FetchSingle(ctx context.Context, sourceListingID string) (listing schema.RawListing, ok bool, err error)
}

// Fetcher abstracts the transport an adapter uses to reach its source —
// an HTTP client, a browser driver, or a fixture reader in tests. Adapters
// depend on this interface rather than a concrete transport so that
// concrete network/browser wiring stays outside the Deal Engine's scope.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
