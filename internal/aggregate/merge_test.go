package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/mls-monitor/internal/listing"
)

func TestMergeInsertsNew(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	nl := baseListing("a1", "123 Main St", 1500000)

	merged := Merge([]listing.Listing{nl}, map[string]listing.Listing{}, now)
	require.Len(t, merged, 1)
	got := merged["a1"]
	assert.Equal(t, now, got.FirstSeen)
	assert.Equal(t, now, got.LastUpdated)
}

func TestMergeEnrichesWithoutErasing(t *testing.T) {
	t0 := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	now := t0.Add(24 * time.Hour)

	existing := baseListing("a1", "123 Main St", 1500000)
	existing.City = "La Jolla"
	existing.Bedrooms = intPtr(3)
	existing.FirstSeen = t0
	existing.LastUpdated = t0

	incoming := baseListing("a1", "123 Main St", 1600000)
	incoming.City = "" // must not erase stored city
	incoming.LotSizeSqft = intPtr(10000)
	incoming.MLSNumber = "MLS9"
	incoming.Bedrooms = intPtr(4) // stored value wins

	merged := Merge([]listing.Listing{incoming}, map[string]listing.Listing{"a1": existing}, now)
	got := merged["a1"]

	assert.Equal(t, "La Jolla", got.City)
	assert.Equal(t, intPtr(3), got.Bedrooms)
	assert.Equal(t, intPtr(10000), got.LotSizeSqft)
	assert.Equal(t, "MLS9", got.MLSNumber)

	// Storage keeps the original price; movement is the comparator's concern.
	assert.Equal(t, 1500000, got.Price)

	assert.Equal(t, t0, got.FirstSeen, "first_seen is immutable")
	assert.Equal(t, "a1", got.ID)
	assert.True(t, got.LastUpdated.After(t0), "last_updated must advance")
	assert.Equal(t, now, got.LastUpdated)
}

func TestMergeReturnsSuperset(t *testing.T) {
	now := time.Now().UTC()
	existing := map[string]listing.Listing{
		"old": baseListing("old", "456 Ocean Ave", 2000000),
	}
	merged := Merge([]listing.Listing{baseListing("new", "123 Main St", 1500000)}, existing, now)

	assert.Len(t, merged, 2)
	assert.Contains(t, merged, "old")
	assert.Contains(t, merged, "new")
	// Input map is not mutated.
	assert.Len(t, existing, 1)
}
