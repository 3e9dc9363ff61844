package homesage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/mls-monitor/internal/listing"
)

func TestMapSearchPayload(t *testing.T) {
	raw := []byte(`{
		"properties": [
			{
				"property_id": "hs-9",
				"address": {"full_address": "5 Shore Dr", "city": "Oxnard", "state": "CA"},
				"price": 910000,
				"property_details": {
					"bedrooms": 4,
					"bathrooms": 3,
					"square_feet": 2400,
					"lot_size_sqft": 8000,
					"year_built": 2001,
					"property_type": "Condo"
				},
				"listing_url": "https://example.com/hs-9",
				"mls_number": "OX-555",
				"hoa_fee": 320,
				"longitude": -119.18,
				"images": [{"url": "https://example.com/hs-9.jpg"}]
			},
			{
				"address": {"full_address": ""},
				"price": 100
			}
		]
	}`)

	listings, err := MapSearchPayload(raw, "93035")
	require.NoError(t, err)
	require.Len(t, listings, 1)

	got := listings[0]
	assert.Equal(t, "hs-9", got.ID)
	assert.Equal(t, "5 Shore Dr", got.Address)
	assert.Equal(t, "93035", got.Zipcode)
	assert.Equal(t, 910000, got.Price)
	assert.Equal(t, listing.TypeCondo, got.PropertyType)
	assert.Equal(t, "https://example.com/hs-9.jpg", got.PhotoURL)
	require.NotNil(t, got.HOAFee)
	assert.Equal(t, 320, *got.HOAFee)
	assert.Equal(t, "homesage", got.SourceAPI)
	assert.NoError(t, got.Validate())
}

func TestMapSearchPayloadDerivesMissingID(t *testing.T) {
	raw := []byte(`{"properties":[{"address":{"full_address":"12 Pier Way"},"price":450000}]}`)

	listings, err := MapSearchPayload(raw, "93041")
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, listing.DeriveID("12 Pier Way", "93041"), listings[0].ID)
}
