// Package fetch routes listing requests across upstream providers based on
// remaining monthly quota.
package fetch

import (
	"context"

	"github.com/yourorg/mls-monitor/internal/listing"
)

// Query carries the search criteria forwarded to providers. Zero price
// bounds mean unbounded.
type Query struct {
	PropertyTypes []string
	MinPrice      int
	MaxPrice      int
}

// Fetcher is implemented once per upstream API. FetchListings may return an
// empty slice; errors are provider-local and never abort a cycle.
type Fetcher interface {
	Name() string
	FetchListings(ctx context.Context, zipcode string, q Query) ([]listing.Listing, error)
}
