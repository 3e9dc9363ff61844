package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveID(t *testing.T) {
	id := DeriveID("123 Main St", "92037")
	assert.Len(t, id, 12)

	// Case and surrounding whitespace must not change the id.
	assert.Equal(t, id, DeriveID("123 MAIN ST", "92037"))
	assert.Equal(t, id, DeriveID("  123 Main St  ", "92037"))

	// Different zip means different id.
	assert.NotEqual(t, id, DeriveID("123 Main St", "92122"))
}

func TestValidate(t *testing.T) {
	valid := Listing{ID: "a1", Address: "123 Main St", Zipcode: "92037", Price: 1500000, SourceAPI: "rapidapi"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Listing)
	}{
		{"missing address", func(l *Listing) { l.Address = "  " }},
		{"missing zipcode", func(l *Listing) { l.Zipcode = "" }},
		{"missing source", func(l *Listing) { l.SourceAPI = "" }},
		{"negative price", func(l *Listing) { l.Price = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := valid
			tt.mutate(&l)
			assert.Error(t, l.Validate())
		})
	}
}

func TestNormalizePropertyType(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Single Family", TypeSingleFamily},
		{"SFR", TypeSingleFamily},
		{"Detached Home", TypeSingleFamily},
		{"Multi-Family", TypeMultiFamily},
		{"Duplex", TypeMultiFamily},
		{"Condominium", TypeCondo},
		{"Townhouse", TypeCondo},
		{"Apartment Building", TypeApartment},
		{"Houseboat", "Houseboat"}, // unrecognized passes through
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePropertyType(tt.raw), tt.raw)
	}
}
