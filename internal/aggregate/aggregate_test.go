package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/mls-monitor/internal/listing"
)

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }

func baseListing(id, address string, price int) listing.Listing {
	return listing.Listing{
		ID:        id,
		Address:   address,
		Zipcode:   "92037",
		Price:     price,
		Status:    listing.StatusActive,
		SourceAPI: "rapidapi",
	}
}

func TestDedupeKeepsSingles(t *testing.T) {
	bySource := map[string][]listing.Listing{
		"92037": {baseListing("a", "123 Main St", 1500000), baseListing("b", "456 Ocean Ave", 2000000)},
	}
	out, removed := Dedupe(bySource)
	assert.Len(t, out, 2)
	assert.Zero(t, removed)
}

func TestDedupePicksMostComplete(t *testing.T) {
	sparse := baseListing("sparse", "123 Main Street", 1500000)
	rich := baseListing("rich", "123 Main St", 1500500)
	rich.SourceAPI = "homesage"
	rich.LotSizeSqft = intPtr(10000)
	rich.MLSNumber = "MLS123"

	bySource := map[string][]listing.Listing{
		"rapidapi": {sparse},
		"homesage": {rich},
	}
	out, removed := Dedupe(bySource)
	require.Len(t, out, 1)
	assert.Equal(t, 1, removed)
	assert.Equal(t, "rich", out[0].ID)
	assert.Equal(t, intPtr(10000), out[0].LotSizeSqft)
	assert.Equal(t, "MLS123", out[0].MLSNumber)
}

func TestDedupeIdempotent(t *testing.T) {
	bySource := map[string][]listing.Listing{
		"a": {baseListing("x", "123 Main St", 1500000)},
		"b": {baseListing("y", "123 Main Street", 1500000)},
	}
	once, _ := Dedupe(bySource)
	require.Len(t, once, 1)

	again, removed := Dedupe(map[string][]listing.Listing{"merged": once})
	assert.Equal(t, once, again)
	assert.Zero(t, removed)
}

func TestDedupeTieBreakFirstEncountered(t *testing.T) {
	first := baseListing("first", "123 Main St", 1500000)
	second := baseListing("second", "123 Main St", 1500000)
	// Same score; sources sort "a" before "b" so "first" must win.
	bySource := map[string][]listing.Listing{
		"a": {first},
		"b": {second},
	}
	out, _ := Dedupe(bySource)
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].ID)
}

func TestDedupeSkipsMalformed(t *testing.T) {
	bad := baseListing("bad", "", 1500000) // missing address
	good := baseListing("good", "456 Ocean Ave", 2000000)
	out, removed := Dedupe(map[string][]listing.Listing{"92037": {bad, good}})
	require.Len(t, out, 1)
	assert.Equal(t, "good", out[0].ID)
	assert.Zero(t, removed)
}

func TestScoreMonotonic(t *testing.T) {
	sparse := baseListing("a", "123 Main St", 1500000)
	richer := sparse
	richer.Bedrooms = intPtr(3)
	assert.Greater(t, Score(richer), Score(sparse))

	richest := richer
	richest.LotSizeSqft = intPtr(9000)
	richest.MLSNumber = "MLS1"
	richest.ListingURL = "https://example.com/1"
	richest.PhotoURL = "https://example.com/1.jpg"
	richest.Bathrooms = floatPtr(2)
	richest.Sqft = intPtr(1800)
	richest.YearBuilt = intPtr(1975)
	richest.Description = "charming"
	richest.City = "La Jolla"
	assert.Greater(t, Score(richest), Score(richer))
}

func TestScoreWeightsLotSizeHighest(t *testing.T) {
	withLot := baseListing("a", "123 Main St", 1500000)
	withLot.LotSizeSqft = intPtr(9000)

	withMLS := baseListing("b", "123 Main St", 1500000)
	withMLS.MLSNumber = "MLS1"

	assert.Greater(t, Score(withLot), Score(withMLS))
}
