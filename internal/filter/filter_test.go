package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/mls-monitor/internal/listing"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func mk(id string, price int) listing.Listing {
	return listing.Listing{
		ID:           id,
		Address:      id + " Test St",
		Zipcode:      "92037",
		Price:        price,
		PropertyType: listing.TypeSingleFamily,
		LotSizeSqft:  intPtr(10000),
		SourceAPI:    "rapidapi",
	}
}

var cfg = Config{MinPrice: 400000, MaxPrice: 5000000, MinLotSizeSqft: 8000}

func TestApplyPriceRange(t *testing.T) {
	cheap := mk("cheap", 300000)
	fine := mk("fine", 1500000)
	steep := mk("steep", 6000000)

	out := Apply([]listing.Listing{cheap, fine, steep}, cfg, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "fine", out[0].ID)
}

func TestApplyLotSize(t *testing.T) {
	noData := mk("nodata", 1500000)
	noData.LotSizeSqft = nil
	small := mk("small", 1500000)
	small.LotSizeSqft = intPtr(4000)
	big := mk("big", 1500000)

	out := Apply([]listing.Listing{noData, small, big}, cfg, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "big", out[0].ID)
}

func TestApplyOceanProximity(t *testing.T) {
	coastal := mk("coastal", 1500000)
	coastal.Longitude = floatPtr(-117.28)
	inland := mk("inland", 1500000)
	inland.Longitude = floatPtr(-117.05)
	noCoords := mk("nocoords", 1500000)

	c := cfg
	c.MaxLongitude = floatPtr(-117.20)
	out := Apply([]listing.Listing{coastal, inland, noCoords}, c, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "coastal", out[0].ID)

	// Unconfigured threshold skips the predicate entirely.
	out = Apply([]listing.Listing{coastal, inland, noCoords}, cfg, nil)
	assert.Len(t, out, 3)
}

func TestApplyPropertyType(t *testing.T) {
	sf := mk("sf", 1500000)
	condo := mk("condo", 1500000)
	condo.PropertyType = listing.TypeCondo

	out := Apply([]listing.Listing{sf, condo}, cfg, []string{listing.TypeSingleFamily, listing.TypeMultiFamily})
	require.Len(t, out, 1)
	assert.Equal(t, "sf", out[0].ID)
}

func TestApplyEmptyInput(t *testing.T) {
	assert.Empty(t, Apply(nil, cfg, []string{listing.TypeSingleFamily}))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "price: $400000 - $5000000, lot size: >= 8000 sqft", cfg.Summary())

	c := cfg
	c.MaxLongitude = floatPtr(-117.2)
	assert.Contains(t, c.Summary(), "ocean proximity")
}
