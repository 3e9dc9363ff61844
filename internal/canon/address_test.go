package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourorg/mls-monitor/internal/listing"
)

func TestKeyCaseInsensitive(t *testing.T) {
	assert.Equal(t, Key("123 Main Street", "92037"), Key("123 MAIN STREET", "92037"))
}

func TestKeySuffixVariants(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"123 Main Street", "123 Main St"},
		{"456 Ocean Avenue", "456 Ocean Ave"},
		{"789 Hill Road", "789 Hill Rd"},
		{"12 Sunset Drive", "12 Sunset Dr"},
		{"34 Pacific Boulevard", "34 Pacific Blvd"},
	}
	for _, tt := range tests {
		assert.Equal(t, Key(tt.a, "92037"), Key(tt.b, "92037"), "%s vs %s", tt.a, tt.b)
	}
}

func TestKeyPunctuationAndSpacing(t *testing.T) {
	assert.Equal(t, Key("123 Main St.", "92037"), Key("123 Main St", "92037"))
	assert.Equal(t, Key("123 Main St, Unit A", "92037"), Key("123 Main St Unit A", "92037"))
	assert.Equal(t, Key("123  Main   St", "92037"), Key("123 Main St", "92037"))
}

func TestKeyZipSeparates(t *testing.T) {
	assert.NotEqual(t, Key("123 Main St", "92037"), Key("123 Main St", "92122"))
}

func TestSameProperty(t *testing.T) {
	base := listing.Listing{Address: "123 Main Street", Zipcode: "92037", Price: 1500000}

	match := listing.Listing{Address: "123 Main St", Zipcode: "92037", Price: 1500500}
	assert.True(t, SameProperty(base, match), "suffix variant within price tolerance")

	priceOff := match
	priceOff.Price = 1501000
	assert.False(t, SameProperty(base, priceOff), "price delta at tolerance boundary")

	zipOff := match
	zipOff.Zipcode = "92122"
	assert.False(t, SameProperty(base, zipOff))

	addrOff := match
	addrOff.Address = "125 Main St"
	assert.False(t, SameProperty(base, addrOff))
}
